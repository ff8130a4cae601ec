//go:build !rp2040 && !rp2350

package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledblink-go/errcode"
	"ledblink-go/services/blink/internal/boards"
	"ledblink-go/services/blink/internal/core"
	"ledblink-go/services/blink/internal/gpioregs"
)

func launchxl(t *testing.T) boards.Board {
	t.Helper()
	b, err := boards.Lookup("launchxl-f28379d")
	require.NoError(t, err)
	return b
}

func bringUp(t *testing.T, res core.Resources) {
	t.Helper()
	require.NoError(t, res.Bringup.InitSysCtrl())
	require.NoError(t, res.Bringup.InitGpio())
	require.NoError(t, res.Bringup.InitInterrupts())
}

func TestNewSim_RejectsRP2(t *testing.T) {
	b, err := boards.Lookup("pico")
	require.NoError(t, err)
	_, err = NewSim(b)
	assert.Equal(t, errcode.Unsupported, errcode.Of(err))
}

func TestBringup(t *testing.T) {
	s, err := NewSim(launchxl(t))
	require.NoError(t, err)
	res := s.Resources(core.VariantDriver)
	bringUp(t, res)

	assert.Equal(t, uint32(200_000_000), res.Bringup.CPUFrequency())
	assert.True(t, res.Bringup.InterruptsMasked())
	assert.Equal(t, uint16(0), s.PIE.IER())
	assert.Equal(t, uint16(0), s.PIE.IFR())
	assert.True(t, s.Sys.Snapshot().WatchdogDisabled)
}

func TestBringup_LockFailure(t *testing.T) {
	s, err := NewSim(launchxl(t), WithLockCheck(func(int) bool { return false }))
	require.NoError(t, err)
	err = s.Resources(core.VariantDriver).Bringup.InitSysCtrl()
	assert.Equal(t, errcode.PLLLockFailed, errcode.Of(err))
}

func TestTogglers_ConfigureOutput(t *testing.T) {
	for _, v := range []core.Variant{core.VariantDriver, core.VariantRegister} {
		t.Run(v.String(), func(t *testing.T) {
			s, err := NewSim(launchxl(t))
			require.NoError(t, err)
			res := s.Resources(v)
			bringUp(t, res)
			assert.Equal(t, v, res.Pins.Variant())

			blue, red := s.Pins(v)
			for _, pin := range []int{blue, red} {
				require.NoError(t, res.Pins.ConfigureOutput(pin))
				c, err := s.Regs.Pin(pin)
				require.NoError(t, err)
				assert.True(t, c.Output, "gpio%d output", pin)
				assert.True(t, c.IsGPIO, "gpio%d mux", pin)
				assert.Equal(t, uint32(0), c.Owner)
				assert.Equal(t, uint32(3), c.Qual, "gpio%d async qualification", pin)
				assert.False(t, c.Level)
			}
			assert.Zero(t, s.Regs.Rejected())

			res.Pins.Toggle(blue)
			assert.True(t, s.Regs.Level(blue))
			assert.False(t, s.Regs.Level(red))
			res.Pins.Clear(blue)
			assert.False(t, s.Regs.Level(blue))
			assert.Len(t, s.Trace.Edges(), 2)
		})
	}
}

func TestRegisterToggler_ResetsPortOnce(t *testing.T) {
	s, err := NewSim(launchxl(t))
	require.NoError(t, err)
	res := s.Resources(core.VariantRegister)
	bringUp(t, res)

	// Two pins on port A: the second must not undo the first.
	require.NoError(t, res.Pins.ConfigureOutput(30))
	require.NoError(t, res.Pins.ConfigureOutput(31))
	a, _ := s.Regs.Pin(30)
	b, _ := s.Regs.Pin(31)
	assert.True(t, a.Output)
	assert.True(t, b.Output)
	// Raw init leaves the port's pull-ups enabled.
	assert.Zero(t, s.Regs.ReadCtrl(gpioregs.PortA, gpioregs.PUD))
}

func TestToggler_UnknownPin(t *testing.T) {
	s, err := NewSim(launchxl(t))
	require.NoError(t, err)
	for _, v := range []core.Variant{core.VariantDriver, core.VariantRegister} {
		err := s.Resources(v).Pins.ConfigureOutput(500)
		assert.Equal(t, errcode.UnknownPin, errcode.Of(err), v.String())
	}
}
