// Package gpioregs models the F2837xD GPIO register file: six ports of
// control registers (EALLOW protected) and data registers with atomic
// SET/CLEAR/TOGGLE writes.
package gpioregs

import (
	"sync"

	"ledblink-go/errcode"
)

// Port is a 32-pin GPIO group: A = GPIO0..31, B = GPIO32..63, ...
type Port uint8

const (
	PortA Port = iota
	PortB
	PortC
	PortD
	PortE
	PortF
	Ports
)

func (p Port) String() string { return string(rune('A' + int(p))) }

// NumPins is GPIO0..GPIO168.
const NumPins = 169

// Reg is a per-port control register.
type Reg uint8

const (
	CTRL Reg = iota
	QSEL1
	QSEL2
	MUX1
	MUX2
	DIR
	PUD
	INV
	ODR
	GMUX1
	GMUX2
	CSEL1
	CSEL2
	CSEL3
	CSEL4
	numRegs
)

var regNames = [numRegs]string{"CTRL", "QSEL1", "QSEL2", "MUX1", "MUX2", "DIR", "PUD", "INV", "ODR", "GMUX1", "GMUX2", "CSEL1", "CSEL2", "CSEL3", "CSEL4"}

func (r Reg) String() string {
	if r < numRegs {
		return regNames[r]
	}
	return "?"
}

// Locate splits a pin number into its port and bit mask.
func Locate(pin int) (Port, uint32, error) {
	if pin < 0 || pin >= NumPins {
		return 0, 0, errcode.UnknownPin
	}
	return Port(pin / 32), 1 << (pin % 32), nil
}

// MuxRegs returns the MUX/GMUX/QSEL pair holding pin's 2-bit fields and the
// field shift.
func MuxRegs(pin int) (mux, gmux, qsel Reg, shift uint) {
	p32 := pin % 32
	shift = uint(p32%16) * 2
	if p32 < 16 {
		return MUX1, GMUX1, QSEL1, shift
	}
	return MUX2, GMUX2, QSEL2, shift
}

// CselReg returns the CSEL register holding pin's 4-bit owner field and shift.
func CselReg(pin int) (Reg, uint) {
	p32 := pin % 32
	return CSEL1 + Reg(p32/8), uint(p32%8) * 4
}

// Watcher observes pin level changes. It is called after the write that
// caused the change, outside the register lock.
type Watcher func(pin int, level bool)

type change struct {
	pin   int
	level bool
}

// File is the simulated register file. The zero value is not reset; use New.
type File struct {
	mu     sync.Mutex
	eallow bool
	ctrl   [Ports][numRegs]uint32
	latch  [Ports]uint32
	input  [Ports]uint32

	watch    Watcher
	rejected uint64
	toggles  uint64
}

// New returns a register file in its power-on state.
func New() *File {
	f := &File{}
	f.Reset()
	return f
}

// Reset applies power-on values: GPIO function, inputs, pull-ups disabled.
func (f *File) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.eallow = false
	for p := range f.ctrl {
		f.ctrl[p] = [numRegs]uint32{}
		f.ctrl[p][PUD] = 0xFFFF_FFFF
		f.latch[p] = 0
	}
}

func (f *File) SetWatcher(w Watcher) {
	f.mu.Lock()
	f.watch = w
	f.mu.Unlock()
}

// ---- Protection ----

func (f *File) EALLOW() {
	f.mu.Lock()
	f.eallow = true
	f.mu.Unlock()
}

func (f *File) EDIS() {
	f.mu.Lock()
	f.eallow = false
	f.mu.Unlock()
}

// Rejected counts control writes dropped because EALLOW was not set.
func (f *File) Rejected() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rejected
}

// ---- Control registers ----

func (f *File) ReadCtrl(p Port, r Reg) uint32 {
	if p >= Ports || r >= numRegs {
		return 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ctrl[p][r]
}

// WriteCtrl writes a whole control register (the .all access).
func (f *File) WriteCtrl(p Port, r Reg, v uint32) {
	f.ModifyCtrl(p, r, 0xFFFF_FFFF, v)
}

// ModifyCtrl replaces the bits selected by mask (a .bit field access).
func (f *File) ModifyCtrl(p Port, r Reg, mask, v uint32) {
	if p >= Ports || r >= numRegs {
		return
	}
	f.mu.Lock()
	if !f.eallow {
		f.rejected++
		f.mu.Unlock()
		return
	}
	before := f.levels(p)
	f.ctrl[p][r] = f.ctrl[p][r]&^mask | v&mask
	f.commit(p, before)
}

// ---- Data registers ----

// ReadDat returns the pin levels of port p.
func (f *File) ReadDat(p Port) uint32 {
	if p >= Ports {
		return 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.levels(p)
}

// WriteDat loads the output latch.
func (f *File) WriteDat(p Port, v uint32) { f.writeLatch(p, func(l uint32) uint32 { return v }) }

// WriteSet drives the masked pins high.
func (f *File) WriteSet(p Port, mask uint32) { f.writeLatch(p, func(l uint32) uint32 { return l | mask }) }

// WriteClear drives the masked pins low.
func (f *File) WriteClear(p Port, mask uint32) {
	f.writeLatch(p, func(l uint32) uint32 { return l &^ mask })
}

// WriteToggle flips the masked output latches in one write.
func (f *File) WriteToggle(p Port, mask uint32) {
	if mask == 0 {
		return
	}
	f.writeLatch(p, func(l uint32) uint32 { return l ^ mask })
	f.mu.Lock()
	f.toggles++
	f.mu.Unlock()
}

// Toggles counts non-empty TOGGLE register writes.
func (f *File) Toggles() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.toggles
}

// DriveInput sets the external level seen by an input pin.
func (f *File) DriveInput(pin int, level bool) error {
	p, bit, err := Locate(pin)
	if err != nil {
		return err
	}
	f.mu.Lock()
	before := f.levels(p)
	if level {
		f.input[p] |= bit
	} else {
		f.input[p] &^= bit
	}
	f.commit(p, before)
	return nil
}

func (f *File) writeLatch(p Port, op func(uint32) uint32) {
	if p >= Ports {
		return
	}
	f.mu.Lock()
	before := f.levels(p)
	f.latch[p] = op(f.latch[p])
	f.commit(p, before)
}

// levels computes pin levels; caller holds mu. Outputs show the latch,
// inputs the external level.
func (f *File) levels(p Port) uint32 {
	dir := f.ctrl[p][DIR]
	return f.latch[p]&dir | f.input[p]&^dir
}

// commit reports level changes and releases mu.
func (f *File) commit(p Port, before uint32) {
	after := f.levels(p)
	w := f.watch
	diff := before ^ after
	if w == nil || diff == 0 {
		f.mu.Unlock()
		return
	}
	var changes []change
	for i := 0; i < 32; i++ {
		if diff&(1<<i) == 0 {
			continue
		}
		pin := int(p)*32 + i
		if pin >= NumPins {
			break
		}
		changes = append(changes, change{pin: pin, level: after&(1<<i) != 0})
	}
	f.mu.Unlock()
	for _, c := range changes {
		w(c.pin, c.level)
	}
}

// ---- Per-pin views ----

// PinConfig is the decoded configuration of one pin.
type PinConfig struct {
	Pin     int
	Output  bool
	GMux    uint32
	Mux     uint32
	Qual    uint32 // 0 sync, 1 3-sample, 2 6-sample, 3 async
	Owner   uint32 // 0 CPU1, 1 CPU1.CLA1, 2 CPU2, 3 CPU2.CLA1
	PullUp  bool
	Invert  bool
	OpenDrn bool
	Level   bool
	IsGPIO  bool
}

// Pin decodes the current configuration of pin.
func (f *File) Pin(pin int) (PinConfig, error) {
	p, bit, err := Locate(pin)
	if err != nil {
		return PinConfig{}, err
	}
	mux, gmux, qsel, shift := MuxRegs(pin)
	csel, cshift := CselReg(pin)

	f.mu.Lock()
	defer f.mu.Unlock()
	r := &f.ctrl[p]
	c := PinConfig{
		Pin:     pin,
		Output:  r[DIR]&bit != 0,
		GMux:    r[gmux] >> shift & 0x3,
		Mux:     r[mux] >> shift & 0x3,
		Qual:    r[qsel] >> shift & 0x3,
		Owner:   r[csel] >> cshift & 0xF,
		PullUp:  r[PUD]&bit == 0,
		Invert:  r[INV]&bit != 0,
		OpenDrn: r[ODR]&bit != 0,
		Level:   f.levels(p)&bit != 0,
	}
	c.IsGPIO = c.GMux == 0 && c.Mux == 0
	return c, nil
}

// Level returns the pin's current level.
func (f *File) Level(pin int) bool {
	p, bit, err := Locate(pin)
	if err != nil {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.levels(p)&bit != 0
}
