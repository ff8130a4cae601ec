// services/blink/blink.go
package blink

import (
	"fmt"
	"time"

	"ledblink-go/errcode"
	"ledblink-go/services/blink/internal/boards"
	"ledblink-go/services/blink/internal/core"
	"ledblink-go/types"
)

// DefaultDelayUS is the pause after each toggle.
const DefaultDelayUS = 500_000

// Config names the two LED pins and the pause between toggles.
type Config struct {
	Blue    int
	Red     int
	DelayUS uint32
}

// ConfigFor returns the pins variant v drives on board b.
func ConfigFor(b boards.Board, v core.Variant) Config {
	cfg := Config{Blue: b.LED1, Red: b.LED2, DelayUS: DefaultDelayUS}
	if v == core.VariantRegister {
		cfg.Blue, cfg.Red = b.RawPins()
	}
	return cfg
}

// -----------------------------------------------------------------------------
// Controller
// -----------------------------------------------------------------------------

// stoppedClock stands in when no clock is supplied; timestamps read zero.
type stoppedClock struct{}

func (stoppedClock) Elapsed() time.Duration { return 0 }

type led struct {
	role  types.LEDRole
	pin   int
	count uint64
}

// Controller owns the two LED outputs and alternates between them: toggle
// blue, wait, toggle red, wait. It is not safe for concurrent use.
type Controller struct {
	res  core.Resources
	emit core.EventEmitter
	wait uint32
	leds [2]led

	started bool
	halted  bool
	next    int // index into leds
}

type Option func(*Controller)

// WithEmitter routes state and toggle events to e.
func WithEmitter(e core.EventEmitter) Option {
	return func(c *Controller) {
		if e != nil {
			c.emit = e
		}
	}
}

func New(cfg Config, res core.Resources, opts ...Option) *Controller {
	if cfg.DelayUS == 0 {
		cfg.DelayUS = DefaultDelayUS
	}
	if res.Clock == nil {
		res.Clock = stoppedClock{}
	}
	c := &Controller{
		res:  res,
		emit: core.NopEmitter{},
		wait: cfg.DelayUS,
		leds: [2]led{
			{role: types.RoleBlue, pin: cfg.Blue},
			{role: types.RoleRed, pin: cfg.Red},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Start brings the platform up in order (clocks, GPIO, interrupts) and then
// configures blue and red as outputs. Any failure halts the controller with
// both outputs cleared. Start is a no-op once it has succeeded.
func (c *Controller) Start() error {
	if c.halted {
		return errcode.Halted
	}
	if c.started {
		return nil
	}
	c.publishState(types.LevelConfiguring, "bringup")

	b := c.res.Bringup
	for _, step := range []struct {
		op string
		fn func() error
	}{
		{"sysctl", b.InitSysCtrl},
		{"gpio", b.InitGpio},
		{"interrupts", b.InitInterrupts},
	} {
		if err := step.fn(); err != nil {
			return c.fail(step.op, err)
		}
	}
	if !b.InterruptsMasked() {
		return c.fail("interrupts", errcode.InterruptsActive)
	}

	for i := range c.leds {
		l := &c.leds[i]
		if err := c.res.Pins.ConfigureOutput(l.pin); err != nil {
			return c.fail(fmt.Sprintf("configure %s gpio%d", l.role, l.pin), err)
		}
	}

	c.started = true
	c.publishState(types.LevelRunning, c.res.Pins.Variant().String())
	return nil
}

func (c *Controller) fail(op string, err error) error {
	c.Halt()
	c.publishState(types.LevelHalted, string(errcode.Of(err)))
	return fmt.Errorf("blink: %s: %w", op, err)
}

// Halt drives both outputs low and stops the controller for good.
func (c *Controller) Halt() {
	for _, l := range c.leds {
		c.res.Pins.Clear(l.pin)
	}
	c.halted = true
}

// Step toggles the next LED and then blocks for the configured delay.
func (c *Controller) Step() error {
	switch {
	case c.halted:
		return errcode.Halted
	case !c.started:
		return errcode.NotConfigured
	}
	l := &c.leds[c.next]
	c.res.Pins.Toggle(l.pin)
	l.count++
	c.emit.Emit(core.Event{Kind: core.EventToggle, Toggle: types.LEDToggle{
		Role:  l.role,
		Pin:   l.pin,
		Count: l.count,
		TSus:  c.res.Clock.Elapsed().Microseconds(),
	}})
	c.res.Delay.DelayUS(c.wait)
	c.next ^= 1
	return nil
}

// Cycle runs one blue step and one red step.
func (c *Controller) Cycle() error {
	for i := 0; i < len(c.leds); i++ {
		if err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Run starts the controller and blinks until it is halted. It returns the
// error that stopped it, with the outputs already cleared.
func (c *Controller) Run() error {
	if err := c.Start(); err != nil {
		return err
	}
	for {
		if err := c.Step(); err != nil {
			return err
		}
	}
}

// Toggles returns how many times role's LED has been toggled.
func (c *Controller) Toggles(role types.LEDRole) uint64 {
	for _, l := range c.leds {
		if l.role == role {
			return l.count
		}
	}
	return 0
}

func (c *Controller) Started() bool { return c.started }
func (c *Controller) Halted() bool  { return c.halted }

func (c *Controller) publishState(level, status string) {
	c.emit.Emit(core.Event{Kind: core.EventState, State: types.BlinkState{
		Level:  level,
		Status: status,
		TS:     c.res.Clock.Elapsed().Milliseconds(),
	}})
}
