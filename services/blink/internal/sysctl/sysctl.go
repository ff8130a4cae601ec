// Package sysctl models the F2837xD system control block the firmware brings
// up before anything else: oscillator source, system PLL, clock divider,
// watchdog, flash wait states and peripheral clock gating.
package sysctl

import (
	"fmt"
	"sync"

	"ledblink-go/errcode"
)

// OscSource selects the PLL reference.
type OscSource uint8

const (
	OscINTOSC2 OscSource = iota // 10 MHz internal, reset default
	OscXTAL                     // external crystal / reference
	OscINTOSC1                  // 10 MHz internal, backup
)

func (s OscSource) String() string {
	switch s {
	case OscXTAL:
		return "xtal"
	case OscINTOSC1:
		return "intosc1"
	default:
		return "intosc2"
	}
}

const (
	intOscHz = 10_000_000

	MinPLLRawHz = 120_000_000
	MaxPLLRawHz = 400_000_000
	MaxSysClkHz = 200_000_000

	MaxIMult = 127
	MaxFMult = 3 // quarters: 0, .25, .5, .75
	MaxDiv   = 126

	// The vendor init re-checks lock this many times before giving up.
	lockAttempts = 5
)

// Config is one clock tree setting.
type Config struct {
	Source OscSource
	OscHz  uint32 // reference frequency when Source is OscXTAL
	IMult  uint8
	FMult  uint8
	SysDiv uint8 // 1, or even 2..126
}

// OscClk is the PLL reference in Hz.
func (c Config) OscClk() uint32 {
	if c.Source == OscXTAL {
		return c.OscHz
	}
	return intOscHz
}

// PLLRawClk is OSCCLK * (IMULT + FMULT/4), in Hz.
func (c Config) PLLRawClk() uint64 {
	return uint64(c.OscClk()) * (4*uint64(c.IMult) + uint64(c.FMult)) / 4
}

// SysClk is PLLRAWCLK / SYSDIV, in Hz.
func (c Config) SysClk() uint32 {
	if c.SysDiv == 0 {
		return 0
	}
	return uint32(c.PLLRawClk() / uint64(c.SysDiv))
}

func (c Config) Validate() error {
	switch {
	case c.Source == OscXTAL && c.OscHz == 0:
		return &errcode.E{C: errcode.InvalidParams, Op: "sysctl", Msg: "xtal frequency not set"}
	case c.IMult == 0 || c.IMult > MaxIMult:
		return &errcode.E{C: errcode.InvalidParams, Op: "sysctl", Msg: fmt.Sprintf("imult %d out of range", c.IMult)}
	case c.FMult > MaxFMult:
		return &errcode.E{C: errcode.InvalidParams, Op: "sysctl", Msg: fmt.Sprintf("fmult %d out of range", c.FMult)}
	case c.SysDiv == 0 || c.SysDiv > MaxDiv || (c.SysDiv != 1 && c.SysDiv%2 != 0):
		return &errcode.E{C: errcode.InvalidParams, Op: "sysctl", Msg: fmt.Sprintf("divider /%d not supported", c.SysDiv)}
	}
	if raw := c.PLLRawClk(); raw < MinPLLRawHz || raw > MaxPLLRawHz {
		return &errcode.E{C: errcode.ClockOutOfRange, Op: "sysctl", Msg: fmt.Sprintf("pllrawclk %d Hz", raw)}
	}
	if sys := c.SysClk(); sys > MaxSysClkHz {
		return &errcode.E{C: errcode.ClockOutOfRange, Op: "sysctl", Msg: fmt.Sprintf("sysclk %d Hz", sys)}
	}
	return nil
}

// DivSel is the SYSCLKDIVSEL.PLLSYSCLKDIV field for the divider.
func (c Config) DivSel() uint8 {
	if c.SysDiv <= 1 {
		return 0
	}
	return c.SysDiv / 2
}

// FlashWaitStates returns the RWAIT setting required at sysclk.
func FlashWaitStates(sysclk uint32) uint8 {
	if sysclk == 0 {
		return 0
	}
	const step = 50_000_000
	return uint8((sysclk+step-1)/step - 1)
}

// State is a snapshot of the modelled registers.
type State struct {
	Config           Config
	PLLEnabled       bool
	SysClk           uint32
	FlashWaitStates  uint8
	WatchdogDisabled bool
	PeriphClocksOn   bool
	LockChecks       int
}

// SysCtrl is the simulated system control block. The zero value is the
// post-reset state: INTOSC2, PLL bypassed, watchdog running.
type SysCtrl struct {
	mu     sync.Mutex
	st     State
	inited bool
	locked func(attempt int) bool
}

type Option func(*SysCtrl)

// WithLockCheck installs a PLL lock probe; attempt counts from 1.
// The default locks on the first check.
func WithLockCheck(f func(attempt int) bool) Option {
	return func(s *SysCtrl) { s.locked = f }
}

func New(opts ...Option) *SysCtrl {
	s := &SysCtrl{}
	s.st.SysClk = intOscHz
	for _, o := range opts {
		o(s)
	}
	return s
}

// Init brings the clock tree up to cfg. Calling it again with the same cfg is
// a no-op; a different cfg reprograms the PLL.
func (s *SysCtrl) Init(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inited && s.st.Config == cfg && s.st.PLLEnabled {
		return nil
	}

	s.st.WatchdogDisabled = true

	// Raise wait states before the clock goes up.
	target := cfg.SysClk()
	if ws := FlashWaitStates(target); ws > s.st.FlashWaitStates {
		s.st.FlashWaitStates = ws
	}

	// Bypass, program multipliers, wait for lock.
	s.st.PLLEnabled = false
	s.st.SysClk = cfg.OscClk()
	s.st.Config = cfg
	s.st.LockChecks = 0
	ok := false
	for attempt := 1; attempt <= lockAttempts; attempt++ {
		s.st.LockChecks = attempt
		if s.locked == nil || s.locked(attempt) {
			ok = true
			break
		}
	}
	if !ok {
		return &errcode.E{C: errcode.PLLLockFailed, Op: "sysctl", Msg: fmt.Sprintf("no lock after %d checks", lockAttempts)}
	}
	s.st.PLLEnabled = true
	s.st.SysClk = target
	s.st.FlashWaitStates = FlashWaitStates(target)
	s.st.PeriphClocksOn = true
	s.inited = true
	return nil
}

// SysClk returns the current CPU clock in Hz.
func (s *SysCtrl) SysClk() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.SysClk
}

func (s *SysCtrl) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st
}
