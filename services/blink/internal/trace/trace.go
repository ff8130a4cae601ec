// Package trace records pin edges against a platform clock and checks the
// resulting blink timing.
package trace

import (
	"fmt"
	"sync"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"ledblink-go/services/blink/internal/core"
)

// Edge is one observed level change.
type Edge struct {
	Pin   int
	Level bool
	At    time.Duration
}

// Recorder collects edges. Watch has the gpioregs.Watcher signature.
type Recorder struct {
	mu    sync.Mutex
	clock core.Clock
	edges []Edge
}

func NewRecorder(clock core.Clock) *Recorder { return &Recorder{clock: clock} }

func (r *Recorder) Watch(pin int, level bool) {
	at := r.clock.Elapsed()
	r.mu.Lock()
	r.edges = append(r.edges, Edge{Pin: pin, Level: level, At: at})
	r.mu.Unlock()
}

// Edges returns a copy of everything recorded so far.
func (r *Recorder) Edges() []Edge {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Edge(nil), r.edges...)
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.edges)
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.edges = r.edges[:0]
	r.mu.Unlock()
}

// ---- Analysis ----

// PinStats summarises the edges of one pin.
type PinStats struct {
	Pin        int
	Edges      int
	First      time.Duration
	MeanPeriod time.Duration
	StdDev     time.Duration
	MinPeriod  time.Duration
	MaxPeriod  time.Duration
}

// Report covers an ordered pin set, conventionally {blue, red}.
type Report struct {
	Pins []PinStats
	// Lag is the first edge of Pins[i] minus the first edge of Pins[0].
	Lag []time.Duration
}

// Analyze computes per-pin edge statistics for pins, in the given order.
func Analyze(edges []Edge, pins ...int) Report {
	rep := Report{Pins: make([]PinStats, len(pins)), Lag: make([]time.Duration, len(pins))}
	for i, pin := range pins {
		var at []time.Duration
		for _, e := range edges {
			if e.Pin == pin {
				at = append(at, e.At)
			}
		}
		ps := PinStats{Pin: pin, Edges: len(at), First: -1}
		if len(at) > 0 {
			ps.First = at[0]
		}
		if len(at) > 1 {
			iv := make([]float64, len(at)-1)
			for k := 1; k < len(at); k++ {
				iv[k-1] = float64(at[k] - at[k-1])
			}
			ps.MeanPeriod = time.Duration(stat.Mean(iv, nil))
			if len(iv) > 1 {
				ps.StdDev = time.Duration(stat.StdDev(iv, nil))
			}
			ps.MinPeriod = time.Duration(floats.Min(iv))
			ps.MaxPeriod = time.Duration(floats.Max(iv))
		}
		rep.Pins[i] = ps
	}
	for i := range rep.Pins {
		if rep.Pins[i].First >= 0 && rep.Pins[0].First >= 0 {
			rep.Lag[i] = rep.Pins[i].First - rep.Pins[0].First
		}
	}
	return rep
}

// Check verifies that every pin flips once per period and that each pin's
// first edge trails the previous pin's by gap, all within tol.
func (r Report) Check(period, gap, tol time.Duration) error {
	for i, ps := range r.Pins {
		if ps.Edges == 0 {
			return fmt.Errorf("gpio%d: no edges", ps.Pin)
		}
		if ps.Edges > 1 {
			if !within(ps.MinPeriod, period, tol) || !within(ps.MaxPeriod, period, tol) {
				return fmt.Errorf("gpio%d: period %v..%v, want %v ± %v", ps.Pin, ps.MinPeriod, ps.MaxPeriod, period, tol)
			}
		}
		if i > 0 {
			want := time.Duration(i) * gap
			if !within(r.Lag[i], want, tol) {
				return fmt.Errorf("gpio%d: first edge lags gpio%d by %v, want %v ± %v", ps.Pin, r.Pins[0].Pin, r.Lag[i], want, tol)
			}
		}
	}
	return nil
}

func within(got, want, tol time.Duration) bool {
	d := got - want
	if d < 0 {
		d = -d
	}
	return d <= tol
}

// SameTiming compares two traces after mapping pinsA[i] onto pinsB[i]. Edge
// times must match exactly.
func SameTiming(a, b []Edge, pinsA, pinsB []int) error {
	if len(pinsA) != len(pinsB) {
		return fmt.Errorf("pin sets differ in size")
	}
	role := func(pins []int, pin int) int {
		for i, p := range pins {
			if p == pin {
				return i
			}
		}
		return -1
	}
	if len(a) != len(b) {
		return fmt.Errorf("edge count %d != %d", len(a), len(b))
	}
	for i := range a {
		ra, rb := role(pinsA, a[i].Pin), role(pinsB, b[i].Pin)
		if ra != rb || a[i].Level != b[i].Level || a[i].At != b[i].At {
			return fmt.Errorf("edge %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
	return nil
}
