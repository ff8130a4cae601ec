package timex

import "time"

// ---- Calibrated microsecond delay loop ----
//
// The delay routine spins a 5-cycle loop after a fixed 9-cycle entry/exit
// cost. Callers convert microseconds into a loop count for the configured
// core clock, and back into the cycles actually burnt.

const (
	delayLoopCycles     = 5
	delayOverheadCycles = 9
)

// CPURatePs returns the core clock period in picoseconds (5000 at 200 MHz).
func CPURatePs(cpuHz uint32) uint64 {
	if cpuHz == 0 {
		cpuHz = 1
	}
	return 1_000_000_000_000 / uint64(cpuHz)
}

// DelayLoopCount is the loop count the delay routine needs to wait us
// microseconds at cpuHz. Delays shorter than the fixed overhead yield 0.
func DelayLoopCount(us uint32, cpuHz uint32) uint64 {
	ns := uint64(us) * 1000
	cycles := ns * 1000 / CPURatePs(cpuHz)
	if cycles <= delayOverheadCycles {
		return 0
	}
	return (cycles - delayOverheadCycles) / delayLoopCycles
}

// DelayLoopCycles is the number of core cycles a loop count consumes.
func DelayLoopCycles(loops uint64) uint64 {
	return loops*delayLoopCycles + delayOverheadCycles
}

// CyclesToDuration converts core cycles at cpuHz into wall time.
func CyclesToDuration(cycles uint64, cpuHz uint32) time.Duration {
	if cpuHz == 0 {
		cpuHz = 1
	}
	sec := cycles / uint64(cpuHz)
	rem := cycles % uint64(cpuHz)
	return time.Duration(sec)*time.Second + time.Duration(rem*1_000_000_000/uint64(cpuHz))
}

// DelayDuration is the wall time the calibrated loop takes for us at cpuHz.
func DelayDuration(us uint32, cpuHz uint32) time.Duration {
	return CyclesToDuration(DelayLoopCycles(DelayLoopCount(us, cpuHz)), cpuHz)
}
