package timex

import (
	"testing"
	"time"
)

func TestDelayLoopCount_200MHz(t *testing.T) {
	const hz = 200_000_000
	if CPURatePs(hz) != 5000 {
		t.Fatalf("cpu rate: got %d ps", CPURatePs(hz))
	}
	// 500 ms: (500000*1000/5 - 9) / 5
	if got := DelayLoopCount(500_000, hz); got != 19_999_998 {
		t.Fatalf("loop count: got %d", got)
	}
	if got := DelayLoopCycles(19_999_998); got != 99_999_999 {
		t.Fatalf("cycles: got %d", got)
	}
	d := DelayDuration(500_000, hz)
	if d > 500*time.Millisecond || 500*time.Millisecond-d > 10*time.Nanosecond {
		t.Fatalf("delay duration off: %v", d)
	}
}

func TestDelayLoopCount_TinyDelay(t *testing.T) {
	// 0 us is all overhead.
	if got := DelayLoopCount(0, 200_000_000); got != 0 {
		t.Fatalf("got %d", got)
	}
	if got := DelayLoopCycles(0); got != 9 {
		t.Fatalf("overhead cycles: got %d", got)
	}
}

func TestCyclesToDuration(t *testing.T) {
	if got := CyclesToDuration(200_000_000, 200_000_000); got != time.Second {
		t.Fatalf("got %v", got)
	}
	if got := CyclesToDuration(125, 125_000_000); got != time.Microsecond {
		t.Fatalf("got %v", got)
	}
}
