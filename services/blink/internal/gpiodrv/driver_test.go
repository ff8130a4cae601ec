package gpiodrv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledblink-go/errcode"
	"ledblink-go/services/blink/internal/gpioregs"
)

func TestInitGpioKeepsPullUpsDisabled(t *testing.T) {
	regs := gpioregs.New()
	d := New(regs)

	regs.EALLOW()
	regs.WriteCtrl(gpioregs.PortA, gpioregs.MUX2, 0xFFFF_FFFF)
	regs.WriteCtrl(gpioregs.PortA, gpioregs.DIR, 0xFFFF_FFFF)
	regs.EDIS()

	d.InitGpio()
	assert.Zero(t, regs.ReadCtrl(gpioregs.PortA, gpioregs.MUX2))
	assert.Zero(t, regs.ReadCtrl(gpioregs.PortA, gpioregs.DIR))
	assert.Equal(t, uint32(0xFFFF_FFFF), regs.ReadCtrl(gpioregs.PortA, gpioregs.PUD))
	assert.Zero(t, regs.Rejected())
}

func TestInitGpioLeavesLatches(t *testing.T) {
	regs := gpioregs.New()
	d := New(regs)
	regs.WriteDat(gpioregs.PortA, 1<<31)

	d.InitGpio()

	// Pin reads back as an input until DIR is set again.
	assert.Zero(t, regs.ReadDat(gpioregs.PortA)&(1<<31))
	regs.EALLOW()
	regs.ModifyCtrl(gpioregs.PortA, gpioregs.DIR, 1<<31, 1<<31)
	regs.EDIS()
	assert.Equal(t, uint32(1<<31), regs.ReadDat(gpioregs.PortA)&(1<<31))
}

func TestSetupPinMux(t *testing.T) {
	regs := gpioregs.New()
	d := New(regs)

	// Peripheral 6 on GPIO31 = GMUX 1, MUX 2, owned by CPU2.
	require.NoError(t, d.SetupPinMux(31, MuxCPU2, 6))
	c, err := regs.Pin(31)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), c.GMux)
	assert.Equal(t, uint32(2), c.Mux)
	assert.Equal(t, MuxCPU2, c.Owner)
	assert.False(t, c.IsGPIO)

	// Back to plain GPIO on CPU1.
	require.NoError(t, d.SetupPinMux(31, MuxCPU1, 0))
	c, _ = regs.Pin(31)
	assert.True(t, c.IsGPIO)
	assert.Equal(t, MuxCPU1, c.Owner)

	// Invalid owner is silently ignored.
	require.NoError(t, d.SetupPinMux(31, 7, 6))
	c, _ = regs.Pin(31)
	assert.True(t, c.IsGPIO)

	err = d.SetupPinMux(200, MuxCPU1, 0)
	assert.Equal(t, errcode.UnknownPin, errcode.Of(err))
}

func TestSetupPinOptions_OutputAsync(t *testing.T) {
	regs := gpioregs.New()
	d := New(regs)

	require.NoError(t, d.SetupPinOptions(34, Output, Async))
	c, err := regs.Pin(34)
	require.NoError(t, err)
	assert.True(t, c.Output)
	assert.Equal(t, uint32(3), c.Qual)
	assert.False(t, c.PullUp)
	assert.False(t, c.OpenDrn)
}

func TestSetupPinOptions_InputFlags(t *testing.T) {
	regs := gpioregs.New()
	d := New(regs)

	require.NoError(t, d.SetupPinOptions(12, Input, PullUp|Invert|Qual6))
	c, _ := regs.Pin(12)
	assert.False(t, c.Output)
	assert.True(t, c.PullUp)
	assert.True(t, c.Invert)
	assert.Equal(t, uint32(2), c.Qual)

	require.NoError(t, d.SetupPinOptions(12, Output, OpenDrain))
	c, _ = regs.Pin(12)
	assert.True(t, c.OpenDrn)
	assert.Equal(t, uint32(0), c.Qual)
	assert.False(t, c.PullUp)
}

func TestToggleWriteRead(t *testing.T) {
	regs := gpioregs.New()
	d := New(regs)
	require.NoError(t, d.SetupPinMux(31, MuxCPU1, 0))
	require.NoError(t, d.SetupPinOptions(31, Output, Async))

	assert.False(t, d.ReadPin(31))
	d.TogglePin(31)
	assert.True(t, d.ReadPin(31))
	d.TogglePin(31)
	assert.False(t, d.ReadPin(31))
	d.WritePin(31, true)
	assert.True(t, d.ReadPin(31))
	d.WritePin(31, false)
	assert.False(t, d.ReadPin(31))

	// Out-of-range pins are ignored.
	d.TogglePin(500)
	assert.False(t, d.ReadPin(500))
}
