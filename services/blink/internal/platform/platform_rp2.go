//go:build rp2040 || rp2350

package platform

import (
	"device/rp"
	"machine"
	"runtime/interrupt"
	"runtime/volatile"
	"time"
	"unsafe"

	"github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers/delay"

	"ledblink-go/errcode"
	"ledblink-go/services/blink/internal/boards"
	"ledblink-go/services/blink/internal/core"
	blinkdelay "ledblink-go/services/blink/internal/delay"
	"ledblink-go/x/strconvx"
)

const consoleBaud = 115200

func GetResources(v core.Variant) (core.Resources, boards.Board, error) {
	b := boards.Selected()
	res := core.Resources{
		Bringup: &rp2Bringup{board: b},
		Delay:   busyDelay{},
		Clock:   blinkdelay.NewWallClock(),
	}
	switch v {
	case core.VariantRegister:
		res.Pins = &sioPins{max: b.GPIOMax}
	default:
		res.Pins = &machinePins{max: b.GPIOMax}
	}
	return res, b, nil
}

// ----------------------------- Bring-up ---------------------------------------

type rp2Bringup struct {
	board   boards.Board
	console *uartx.UART
	masked  bool
	state   interrupt.State
}

// InitSysCtrl checks the clock the runtime already set up and opens the
// console. The RP2 runtime owns PLL configuration.
func (r *rp2Bringup) InitSysCtrl() error {
	if r.console == nil {
		r.console = uartx.UART0
		_ = r.console.Configure(uartx.UARTConfig{
			BaudRate: consoleBaud,
			TX:       machine.UART0_TX_PIN,
			RX:       machine.UART0_RX_PIN,
		})
	}
	hz := machine.CPUFrequency()
	r.say("[blink] board " + r.board.Name + " core " + strconvx.FormatUint(uint64(hz), 10) + " Hz\r\n")
	if want := r.board.CoreHz(); want != 0 && hz != want {
		msg := "core clock " + strconvx.FormatUint(uint64(hz), 10) + " Hz, want " + strconvx.FormatUint(uint64(want), 10)
		return &errcode.E{C: errcode.ClockOutOfRange, Op: "platform", Msg: msg}
	}
	return nil
}

// InitGpio returns the LED pins to inputs, their reset state.
func (r *rp2Bringup) InitGpio() error {
	for _, n := range []int{r.board.LED1, r.board.LED2} {
		machine.Pin(n).Configure(machine.PinConfig{Mode: machine.PinInput})
	}
	return nil
}

func (r *rp2Bringup) InitInterrupts() error {
	if r.masked {
		return nil
	}
	r.say("[blink] masking interrupts\r\n")
	// Let the console drain before its IRQ goes away.
	delay.Sleep(2 * time.Millisecond)
	r.state = interrupt.Disable()
	r.masked = true
	return nil
}

func (r *rp2Bringup) InterruptsMasked() bool { return r.masked }

func (r *rp2Bringup) CPUFrequency() uint32 { return machine.CPUFrequency() }

func (r *rp2Bringup) say(s string) {
	if r.console != nil && !r.masked {
		_, _ = r.console.Write([]byte(s))
	}
}

// ----------------------------- Delay ------------------------------------------

// busyDelay spins without a timer interrupt. drivers/delay is only accurate
// for short waits, so long ones are chunked.
type busyDelay struct{}

func (busyDelay) DelayUS(us uint32) {
	for us >= 1000 {
		delay.Sleep(time.Millisecond)
		us -= 1000
	}
	if us > 0 {
		delay.Sleep(time.Duration(us) * time.Microsecond)
	}
}

// ----------------------------- Pin togglers -----------------------------------

// machinePins goes through the machine package.
type machinePins struct{ max int }

func (p *machinePins) Variant() core.Variant { return core.VariantDriver }

func (p *machinePins) ConfigureOutput(pin int) error {
	if pin < 0 || pin > p.max {
		return errcode.UnknownPin
	}
	mp := machine.Pin(pin)
	mp.Configure(machine.PinConfig{Mode: machine.PinOutput})
	mp.Low()
	return nil
}

// Toggle uses the SIO XOR alias; machine.Pin has no atomic toggle.
func (p *machinePins) Toggle(pin int) { rp.SIO.GPIO_OUT_XOR.Set(uint32(1) << uint(pin)) }

func (p *machinePins) Clear(pin int) { machine.Pin(pin).Low() }

// sioPins writes IO_BANK0, PADS_BANK0 and SIO directly.
type sioPins struct{ max int }

const funcselSIO = 5

func (p *sioPins) Variant() core.Variant { return core.VariantRegister }

func (p *sioPins) ConfigureOutput(pin int) error {
	if pin < 0 || pin > p.max {
		return errcode.UnknownPin
	}
	mask := uint32(1) << uint(pin)
	rp.SIO.GPIO_OE_CLR.Set(mask)
	rp.SIO.GPIO_OUT_CLR.Set(mask)

	pad := reg32(padsBank0Base + 4 + 4*uintptr(pin))
	v := pad.Get()
	v &^= padOD | padISO
	v |= padIE
	pad.Set(v)

	reg32(ioBank0Base + 8*uintptr(pin) + 4).Set(funcselSIO)
	rp.SIO.GPIO_OE_SET.Set(mask)
	return nil
}

func (p *sioPins) Toggle(pin int) { rp.SIO.GPIO_OUT_XOR.Set(uint32(1) << uint(pin)) }
func (p *sioPins) Clear(pin int)  { rp.SIO.GPIO_OUT_CLR.Set(uint32(1) << uint(pin)) }

const (
	padIE = 1 << 6
	padOD = 1 << 7
)

func reg32(addr uintptr) *volatile.Register32 {
	return (*volatile.Register32)(unsafe.Pointer(addr))
}
