package errcode

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodesAreStableStrings(t *testing.T) {
	cases := map[string]Code{
		"ok":                 OK,
		"unknown_pin":        UnknownPin,
		"unknown_board":      UnknownBoard,
		"invalid_variant":    InvalidVariant,
		"pll_lock_failed":    PLLLockFailed,
		"clock_out_of_range": ClockOutOfRange,
		"interrupts_active":  InterruptsActive,
		"not_configured":     NotConfigured,
		"halted":             Halted,
	}
	for want, c := range cases {
		if c.Error() != want {
			t.Fatalf("code %q mismatch: got %q", want, c.Error())
		}
	}
}

func TestOf(t *testing.T) {
	if Of(nil) != OK {
		t.Fatal("nil should map to ok")
	}
	if Of(UnknownPin) != UnknownPin {
		t.Fatal("bare code not recovered")
	}
	if Of(errors.New("boom")) != Error {
		t.Fatal("plain error should map to generic")
	}
	wrapped := fmt.Errorf("init: %w", &E{C: PLLLockFailed, Op: "sysctl"})
	if Of(wrapped) != PLLLockFailed {
		t.Fatalf("wrapped E not recovered: %v", Of(wrapped))
	}
	if Of(fmt.Errorf("cfg: %w", NotConfigured)) != NotConfigured {
		t.Fatal("wrapped code not recovered")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(Halted, "blink", nil) != nil {
		t.Fatal("wrap of nil must be nil")
	}
	cause := errors.New("lock timeout")
	err := Wrap(PLLLockFailed, "sysctl.Init", cause)
	if !errors.Is(err, cause) {
		t.Fatal("cause lost")
	}
	if got := err.Error(); got != "sysctl.Init: pll_lock_failed: lock timeout" {
		t.Fatalf("unexpected message %q", got)
	}
}
