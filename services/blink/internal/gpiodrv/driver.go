// Package gpiodrv is the vendor-style GPIO driver API on top of the
// simulated register file: pin mux, pin options and data writes.
package gpiodrv

import (
	"ledblink-go/services/blink/internal/gpioregs"
)

// Mux owners (CSEL values).
const (
	MuxCPU1    uint32 = 0
	MuxCPU1CLA uint32 = 1
	MuxCPU2    uint32 = 2
	MuxCPU2CLA uint32 = 3
)

// Pin option flags.
const (
	Input  = false
	Output = true

	PullUp    uint32 = 0x01
	Invert    uint32 = 0x02
	OpenDrain uint32 = 0x04
	Sync      uint32 = 0x00
	Qual3     uint32 = 0x10
	Qual6     uint32 = 0x20
	Async     uint32 = 0x30
)

// Driver issues register sequences equivalent to the vendor driver calls.
type Driver struct {
	regs *gpioregs.File
}

func New(regs *gpioregs.File) *Driver { return &Driver{regs: regs} }

// Regs exposes the underlying register file.
func (d *Driver) Regs() *gpioregs.File { return d.regs }

// InitGpio zeroes every control register except PUD, leaving pull-ups as
// they are. Output latches keep their contents.
func (d *Driver) InitGpio() {
	d.regs.EALLOW()
	for p := gpioregs.PortA; p < gpioregs.Ports; p++ {
		for r := gpioregs.CTRL; r <= gpioregs.CSEL4; r++ {
			if r == gpioregs.PUD {
				continue
			}
			d.regs.WriteCtrl(p, r, 0)
		}
	}
	d.regs.EDIS()
}

// SetupPinMux routes pin to peripheral (0 = GPIO) owned by cpu. Invalid cpu
// or peripheral values are ignored, as the vendor routine does.
func (d *Driver) SetupPinMux(pin int, cpu uint32, peripheral uint32) error {
	port, _, err := gpioregs.Locate(pin)
	if err != nil {
		return err
	}
	if cpu > MuxCPU2CLA || peripheral > 0xF {
		return nil
	}
	mux, gmux, _, shift := gpioregs.MuxRegs(pin)
	csel, cshift := gpioregs.CselReg(pin)
	mask2 := uint32(0x3) << shift

	d.regs.EALLOW()
	// Park on GPIO before changing the group mux to avoid glitches.
	d.regs.ModifyCtrl(port, mux, mask2, 0)
	d.regs.ModifyCtrl(port, gmux, mask2, (peripheral>>2&0x3)<<shift)
	d.regs.ModifyCtrl(port, mux, mask2, (peripheral&0x3)<<shift)
	d.regs.ModifyCtrl(port, csel, 0xF<<cshift, cpu<<cshift)
	d.regs.EDIS()
	return nil
}

// SetupPinOptions sets direction, open-drain/invert, qualification and pull-up.
func (d *Driver) SetupPinOptions(pin int, output bool, flags uint32) error {
	port, bit, err := gpioregs.Locate(pin)
	if err != nil {
		return err
	}
	_, _, qsel, shift := gpioregs.MuxRegs(pin)

	d.regs.EALLOW()
	if output {
		d.regs.ModifyCtrl(port, gpioregs.DIR, bit, bit)
		d.regs.ModifyCtrl(port, gpioregs.ODR, bit, maskIf(flags&OpenDrain != 0, bit))
	} else {
		d.regs.ModifyCtrl(port, gpioregs.DIR, bit, 0)
		d.regs.ModifyCtrl(port, gpioregs.INV, bit, maskIf(flags&Invert != 0, bit))
	}
	qual := (flags & Async) / Qual3
	d.regs.ModifyCtrl(port, qsel, 0x3<<shift, qual<<shift)
	d.regs.ModifyCtrl(port, gpioregs.PUD, bit, maskIf(flags&PullUp == 0, bit))
	d.regs.EDIS()
	return nil
}

// TogglePin flips pin's output latch with a single TOGGLE write.
func (d *Driver) TogglePin(pin int) {
	port, bit, err := gpioregs.Locate(pin)
	if err != nil {
		return
	}
	d.regs.WriteToggle(port, bit)
}

// WritePin sets or clears pin through SET/CLEAR.
func (d *Driver) WritePin(pin int, level bool) {
	port, bit, err := gpioregs.Locate(pin)
	if err != nil {
		return
	}
	if level {
		d.regs.WriteSet(port, bit)
	} else {
		d.regs.WriteClear(port, bit)
	}
}

// ReadPin returns pin's level from DAT.
func (d *Driver) ReadPin(pin int) bool {
	port, bit, err := gpioregs.Locate(pin)
	if err != nil {
		return false
	}
	return d.regs.ReadDat(port)&bit != 0
}

func maskIf(cond bool, bit uint32) uint32 {
	if cond {
		return bit
	}
	return 0
}
