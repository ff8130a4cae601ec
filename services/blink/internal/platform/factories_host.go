// services/blink/internal/platform/factories_host.go
//go:build !rp2040 && !rp2350

package platform

import (
	"fmt"
	"log/slog"

	"ledblink-go/errcode"
	"ledblink-go/services/blink/internal/boards"
	"ledblink-go/services/blink/internal/core"
	"ledblink-go/services/blink/internal/delay"
	"ledblink-go/services/blink/internal/gpiodrv"
	"ledblink-go/services/blink/internal/gpioregs"
	"ledblink-go/services/blink/internal/pie"
	"ledblink-go/services/blink/internal/sysctl"
	"ledblink-go/services/blink/internal/trace"
)

// ----------------------------- Simulated F2837xD ------------------------------

// Sim is a host stand-in for an F2837xD board: clock tree, interrupt path
// and GPIO register file, with every pin edge recorded against Clock.
type Sim struct {
	Board boards.Board
	Sys   *sysctl.SysCtrl
	PIE   *pie.Controller
	Regs  *gpioregs.File
	GPIO  *gpiodrv.Driver
	Clock core.Clock
	Trace *trace.Recorder

	sim      *delay.SimClock
	realtime bool
	sysOpts  []sysctl.Option
	log      *slog.Logger
}

type SimOption func(*Sim)

func WithLogger(l *slog.Logger) SimOption { return func(s *Sim) { s.log = l } }

// WithRealtime makes delays spin on wall time instead of advancing a
// virtual cycle counter.
func WithRealtime() SimOption { return func(s *Sim) { s.realtime = true } }

// WithLockCheck forwards a PLL lock probe to the clock model.
func WithLockCheck(f func(attempt int) bool) SimOption {
	return func(s *Sim) { s.sysOpts = append(s.sysOpts, sysctl.WithLockCheck(f)) }
}

// NewSim builds a simulated board. Only F2837xD boards can be simulated.
func NewSim(b boards.Board, opts ...SimOption) (*Sim, error) {
	if b.Family != boards.FamilyF2837xD {
		return nil, &errcode.E{C: errcode.Unsupported, Op: "platform", Msg: fmt.Sprintf("cannot simulate %s board %s", b.Family, b.Name)}
	}
	s := &Sim{Board: b, log: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	s.Sys = sysctl.New(s.sysOpts...)
	s.PIE = pie.New()
	s.Regs = gpioregs.New()
	s.GPIO = gpiodrv.New(s.Regs)
	s.sim = delay.NewSimClock(s.Sys.SysClk())
	if s.realtime {
		s.Clock = delay.NewWallClock()
	} else {
		s.Clock = s.sim
	}
	s.Trace = trace.NewRecorder(s.Clock)
	s.Regs.SetWatcher(s.Trace.Watch)
	return s, nil
}

// Pins returns the blue/red pins the given variant drives.
func (s *Sim) Pins(v core.Variant) (blue, red int) {
	if v == core.VariantRegister {
		return s.Board.RawPins()
	}
	return s.Board.LED1, s.Board.LED2
}

// Resources wires the simulation for one variant.
func (s *Sim) Resources(v core.Variant) core.Resources {
	res := core.Resources{
		Bringup: &simBringup{s: s},
		Clock:   s.Clock,
	}
	switch v {
	case core.VariantRegister:
		res.Pins = &regPins{regs: s.Regs, reset: map[gpioregs.Port]bool{}}
	default:
		res.Pins = &drvPins{drv: s.GPIO}
	}
	if s.realtime {
		res.Delay = delay.Spin{CPUHz: s.Sys.SysClk}
	} else {
		res.Delay = delay.Virtual{Clock: s.sim}
	}
	return res
}

// GetResources is the host default: the build-selected board, simulated in
// real time.
func GetResources(v core.Variant) (core.Resources, boards.Board, error) {
	b := boards.Selected()
	s, err := NewSim(b, WithRealtime())
	if err != nil {
		return core.Resources{}, b, err
	}
	return s.Resources(v), b, nil
}

// ----------------------------- Bring-up ---------------------------------------

type simBringup struct{ s *Sim }

func (b *simBringup) InitSysCtrl() error {
	s := b.s
	cfg := s.Board.SysctlConfig()
	if err := s.Sys.Init(cfg); err != nil {
		s.log.Error("sysctl init failed", "board", s.Board.Name, "err", err)
		return err
	}
	st := s.Sys.Snapshot()
	s.sim.SetFrequency(st.SysClk)
	s.log.Info("sysctl ready",
		"source", cfg.Source.String(),
		"osc_hz", cfg.OscClk(),
		"imult", cfg.IMult,
		"fmult", cfg.FMult,
		"sysdiv", cfg.SysDiv,
		"sysclk_hz", st.SysClk,
		"flash_ws", st.FlashWaitStates,
		"lock_checks", st.LockChecks)
	return nil
}

func (b *simBringup) InitGpio() error {
	b.s.GPIO.InitGpio()
	b.s.log.Debug("gpio reset to defaults")
	return nil
}

func (b *simBringup) InitInterrupts() error {
	p := b.s.PIE
	p.DINT()
	p.InitPieCtrl()
	p.SetIER(0x0000)
	p.ClearIFR(0xFFFF)
	p.InitPieVectTable(b.spurious)
	if !p.Masked() {
		return &errcode.E{C: errcode.InterruptsActive, Op: "platform"}
	}
	b.s.log.Info("interrupts masked", "pie", p.PIEEnabled(), "ier", p.IER(), "ifr", p.IFR())
	return nil
}

func (b *simBringup) spurious() { b.s.log.Warn("unexpected interrupt") }

func (b *simBringup) InterruptsMasked() bool { return b.s.PIE.Masked() }

func (b *simBringup) CPUFrequency() uint32 { return b.s.Sys.SysClk() }

// ----------------------------- Pin togglers -----------------------------------

// drvPins drives LEDs through the GPIO driver API.
type drvPins struct{ drv *gpiodrv.Driver }

func (p *drvPins) Variant() core.Variant { return core.VariantDriver }

func (p *drvPins) ConfigureOutput(pin int) error {
	if err := p.drv.SetupPinMux(pin, gpiodrv.MuxCPU1, 0); err != nil {
		return err
	}
	return p.drv.SetupPinOptions(pin, gpiodrv.Output, gpiodrv.Async)
}

func (p *drvPins) Toggle(pin int) { p.drv.TogglePin(pin) }
func (p *drvPins) Clear(pin int)  { p.drv.WritePin(pin, false) }

// regPins writes the GPIO registers directly. The first pin on a port resets
// that port's control registers wholesale, as a bare-metal init would.
type regPins struct {
	regs  *gpioregs.File
	reset map[gpioregs.Port]bool
}

func (p *regPins) Variant() core.Variant { return core.VariantRegister }

func (p *regPins) ConfigureOutput(pin int) error {
	port, bit, err := gpioregs.Locate(pin)
	if err != nil {
		return err
	}
	mux, gmux, qsel, shift := gpioregs.MuxRegs(pin)
	r := p.regs

	r.EALLOW()
	if !p.reset[port] {
		for _, reg := range []gpioregs.Reg{
			gpioregs.CTRL, gpioregs.QSEL1, gpioregs.QSEL2, gpioregs.DIR,
			gpioregs.PUD, gpioregs.INV, gpioregs.ODR,
			gpioregs.CSEL1, gpioregs.CSEL2, gpioregs.CSEL3, gpioregs.CSEL4,
		} {
			r.WriteCtrl(port, reg, 0)
		}
		p.reset[port] = true
	}
	r.ModifyCtrl(port, gpioregs.DIR, bit, bit)
	r.ModifyCtrl(port, qsel, 0x3<<shift, 0x3<<shift) // async
	r.ModifyCtrl(port, gmux, 0x3<<shift, 0)
	r.ModifyCtrl(port, mux, 0x3<<shift, 0)
	r.EDIS()
	return nil
}

func (p *regPins) Toggle(pin int) {
	if port, bit, err := gpioregs.Locate(pin); err == nil {
		p.regs.WriteToggle(port, bit)
	}
}

func (p *regPins) Clear(pin int) {
	if port, bit, err := gpioregs.Locate(pin); err == nil {
		p.regs.WriteClear(port, bit)
	}
}
