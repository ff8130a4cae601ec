package boards

import (
	"fmt"
	"sort"

	"ledblink-go/errcode"
	"ledblink-go/services/blink/internal/sysctl"
)

// Family groups boards that share a platform implementation.
type Family string

const (
	FamilyF2837xD Family = "f2837xd"
	FamilyRP2     Family = "rp2"
)

// Clock is the board's oscillator and PLL setting. PLL fields only apply to
// the F2837xD family; RP2 boards carry the core frequency the runtime sets.
type Clock struct {
	Source string `yaml:"source"` // "xtal", "intosc1", "intosc2"
	OscHz  uint32 `yaml:"osc_hz"`
	IMult  uint8  `yaml:"imult"`
	FMult  uint8  `yaml:"fmult"`
	SysDiv uint8  `yaml:"sysdiv"`
	CoreHz uint32 `yaml:"core_hz"`
}

// Board describes what the PCB provides: which GPIOs carry the two LEDs and
// how the core clock is produced. It carries no timing of the blink loop.
type Board struct {
	Name   string `yaml:"name"`
	Family Family `yaml:"family"`

	GPIOMin int `yaml:"gpio_min"`
	GPIOMax int `yaml:"gpio_max"`

	LED1 int `yaml:"led1"` // blue
	LED2 int `yaml:"led2"` // red

	// Pins written by the register variant. Zero means "same as LED1/LED2".
	RawLED1 int `yaml:"raw_led1,omitempty"`
	RawLED2 int `yaml:"raw_led2,omitempty"`

	Clock Clock `yaml:"clock"`
}

// RawPins returns the pins used by the register variant.
func (b Board) RawPins() (blue, red int) {
	blue, red = b.RawLED1, b.RawLED2
	if blue == 0 {
		blue = b.LED1
	}
	if red == 0 {
		red = b.LED2
	}
	return blue, red
}

// SysctlConfig converts the clock description for the F2837xD model.
func (b Board) SysctlConfig() sysctl.Config {
	src := sysctl.OscINTOSC2
	switch b.Clock.Source {
	case "xtal":
		src = sysctl.OscXTAL
	case "intosc1":
		src = sysctl.OscINTOSC1
	}
	return sysctl.Config{
		Source: src,
		OscHz:  b.Clock.OscHz,
		IMult:  b.Clock.IMult,
		FMult:  b.Clock.FMult,
		SysDiv: b.Clock.SysDiv,
	}
}

// CoreHz is the expected CPU frequency after bring-up.
func (b Board) CoreHz() uint32 {
	if b.Family == FamilyF2837xD {
		return b.SysctlConfig().SysClk()
	}
	return b.Clock.CoreHz
}

func (b Board) Validate() error {
	if b.Name == "" {
		return &errcode.E{C: errcode.InvalidParams, Op: "boards", Msg: "missing name"}
	}
	raw1, raw2 := b.RawPins()
	for _, p := range []int{b.LED1, b.LED2, raw1, raw2} {
		if p < b.GPIOMin || p > b.GPIOMax {
			return &errcode.E{C: errcode.UnknownPin, Op: "boards", Msg: fmt.Sprintf("%s: gpio%d outside %d..%d", b.Name, p, b.GPIOMin, b.GPIOMax)}
		}
	}
	if b.LED1 == b.LED2 || raw1 == raw2 {
		return &errcode.E{C: errcode.InvalidParams, Op: "boards", Msg: b.Name + ": led pins must differ"}
	}
	switch b.Family {
	case FamilyF2837xD:
		if err := b.SysctlConfig().Validate(); err != nil {
			return fmt.Errorf("%s: %w", b.Name, err)
		}
	case FamilyRP2:
		if b.Clock.CoreHz == 0 {
			return &errcode.E{C: errcode.InvalidParams, Op: "boards", Msg: b.Name + ": core_hz not set"}
		}
	default:
		return &errcode.E{C: errcode.InvalidParams, Op: "boards", Msg: fmt.Sprintf("%s: unknown family %q", b.Name, b.Family)}
	}
	return nil
}

// ---- Registry ----

var registry = map[string]Board{}

// Register adds or replaces a board descriptor.
func Register(b Board) error {
	if err := b.Validate(); err != nil {
		return err
	}
	registry[b.Name] = b
	return nil
}

// Lookup finds a board by name.
func Lookup(name string) (Board, error) {
	b, ok := registry[name]
	if !ok {
		return Board{}, &errcode.E{C: errcode.UnknownBoard, Op: "boards", Msg: name}
	}
	return b, nil
}

// Names lists registered boards in order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Selected returns the board chosen at build time.
func Selected() Board {
	b, err := Lookup(selectedName)
	if err != nil {
		panic("boards: selected board " + selectedName + " not registered")
	}
	return b
}
