package types

// ---- Controller state (retained) ----

// BlinkState is published on blink/state.
type BlinkState struct {
	Level  string `json:"level"`  // "configuring", "running", "halted"
	Status string `json:"status"` // freeform short code
	TS     int64  `json:"ts_ms"`
}

const (
	LevelConfiguring = "configuring"
	LevelRunning     = "running"
	LevelHalted      = "halted"
)

// ---- LED roles ----

type LEDRole string

const (
	RoleBlue LEDRole = "blue"
	RoleRed  LEDRole = "red"
)

// LEDToggle is published on blink/led/<role>/value (retained) after each toggle.
// Level is not read back from the pin; Count is the number of toggles issued.
type LEDToggle struct {
	Role  LEDRole `json:"role"`
	Pin   int     `json:"pin"`
	Count uint64  `json:"count"`
	TSus  int64   `json:"ts_us"` // platform clock, microseconds since bring-up
}
