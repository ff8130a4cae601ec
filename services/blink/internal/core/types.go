package core

import (
	"time"

	"ledblink-go/errcode"
	"ledblink-go/types"
)

// ---- Build-time variant ----

// Variant selects how LED pins are driven: through the GPIO driver API or by
// writing GPIO registers directly. Both must produce identical pin timing.
type Variant uint8

const (
	VariantDriver Variant = iota
	VariantRegister
)

func (v Variant) String() string {
	switch v {
	case VariantDriver:
		return "driver"
	case VariantRegister:
		return "register"
	default:
		return "unknown"
	}
}

func ParseVariant(s string) (Variant, error) {
	switch s {
	case "driver", "":
		return VariantDriver, nil
	case "register", "regs":
		return VariantRegister, nil
	default:
		return 0, errcode.InvalidVariant
	}
}

// ---- Platform bring-up ----

// Bringup is the platform's one-shot initialisation. Each step is idempotent.
type Bringup interface {
	InitSysCtrl() error    // oscillator, PLL, watchdog, peripheral clocks
	InitGpio() error       // all GPIO control registers to reset defaults
	InitInterrupts() error // DINT, clear PIE/IER/IFR, load vector table
	InterruptsMasked() bool
	CPUFrequency() uint32 // Hz, valid after InitSysCtrl
}

// ---- Pins ----

// Toggler is the pin toggler: one implementation per build-time variant.
type Toggler interface {
	Variant() Variant
	// ConfigureOutput selects plain GPIO function, output direction and
	// asynchronous qualification for pin.
	ConfigureOutput(pin int) error
	// Toggle atomically flips the output latch of pin; no readback.
	Toggle(pin int)
	// Clear drives pin low (deasserted).
	Clear(pin int)
}

// ---- Time ----

// Delayer is the blocking primitive. DelayUS always runs to completion.
type Delayer interface {
	DelayUS(us uint32)
}

// Clock reports time elapsed since bring-up on the platform's time base.
type Clock interface {
	Elapsed() time.Duration
}

// ---- Controller → observers ----

type EventKind uint8

const (
	EventState EventKind = iota
	EventToggle
)

// Event is emitted by the controller after a state change or toggle.
type Event struct {
	Kind   EventKind
	State  types.BlinkState // EventState
	Toggle types.LEDToggle  // EventToggle
}

// EventEmitter must be non-blocking; false indicates a drop under pressure.
type EventEmitter interface {
	Emit(ev Event) bool
}

// NopEmitter discards every event.
type NopEmitter struct{}

func (NopEmitter) Emit(Event) bool { return true }

// ---- Injected resources ----

type Resources struct {
	Bringup Bringup
	Pins    Toggler
	Delay   Delayer
	Clock   Clock
}
