// Package delay provides the calibrated microsecond busy-wait and the clocks
// it runs against.
package delay

import (
	"sync"
	"time"

	"ledblink-go/x/timex"
)

// ---- Virtual time ----

// SimClock counts core cycles at a fixed frequency. It only moves when a
// simulated delay burns cycles.
type SimClock struct {
	mu     sync.Mutex
	hz     uint32
	cycles uint64
}

func NewSimClock(cpuHz uint32) *SimClock { return &SimClock{hz: cpuHz} }

// SetFrequency changes the rate future cycles are converted at. Bring-up
// calls it once the PLL has locked.
func (c *SimClock) SetFrequency(cpuHz uint32) {
	c.mu.Lock()
	c.hz = cpuHz
	c.mu.Unlock()
}

func (c *SimClock) Frequency() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hz
}

func (c *SimClock) Advance(cycles uint64) {
	c.mu.Lock()
	c.cycles += cycles
	c.mu.Unlock()
}

func (c *SimClock) Cycles() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cycles
}

func (c *SimClock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return timex.CyclesToDuration(c.cycles, c.hz)
}

// Virtual implements DelayUS by advancing a SimClock by the cycles the
// calibrated loop would spend.
type Virtual struct {
	Clock *SimClock
}

func (v Virtual) DelayUS(us uint32) {
	loops := timex.DelayLoopCount(us, v.Clock.Frequency())
	v.Clock.Advance(timex.DelayLoopCycles(loops))
}

// ---- Wall time ----

// WallClock measures from its creation.
type WallClock struct{ start time.Time }

func NewWallClock() WallClock { return WallClock{start: time.Now()} }

func (w WallClock) Elapsed() time.Duration { return time.Since(w.start) }

// Spin busy-waits on the host for as long as the calibrated loop would run
// at CPUHz. It never yields and cannot be interrupted.
type Spin struct {
	CPUHz func() uint32
}

func (s Spin) DelayUS(us uint32) {
	d := timex.DelayDuration(us, s.CPUHz())
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
	}
}
