// Package pie models the C28x CPU interrupt lines together with the
// Peripheral Interrupt Expansion block: INTM, IER/IFR, the twelve PIE groups
// and the PIE vector table.
package pie

import (
	"sync"

	"ledblink-go/errcode"
)

const (
	Groups   = 12
	PerGroup = 16

	// The first 32 vectors are CPU-level (reset, INT1..INT14, NMI, ...).
	cpuVectors = 32
	Vectors    = cpuVectors + Groups*PerGroup
)

// Handler is an interrupt service routine.
type Handler func()

// Controller is the simulated interrupt path. The zero value matches reset:
// INTM set (all maskable interrupts disabled), PIE disabled, empty table.
type Controller struct {
	mu sync.Mutex

	intmClear bool // false means INTM=1 (masked)
	ier       uint16
	ifr       uint16

	enpie  bool
	pieier [Groups]uint16
	pieifr [Groups]uint16
	pieack uint16

	vectors    [Vectors]Handler
	dispatched uint64
}

func New() *Controller { return &Controller{} }

// DINT globally disables maskable CPU interrupts.
func (c *Controller) DINT() {
	c.mu.Lock()
	c.intmClear = false
	c.mu.Unlock()
}

// EINT globally enables maskable CPU interrupts.
func (c *Controller) EINT() {
	c.mu.Lock()
	c.intmClear = true
	c.mu.Unlock()
	c.service()
}

// InitPieCtrl disables the PIE and clears every PIEIER/PIEIFR register.
func (c *Controller) InitPieCtrl() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enpie = false
	for g := range c.pieier {
		c.pieier[g] = 0
		c.pieifr[g] = 0
	}
	c.pieack = 0
}

func (c *Controller) SetIER(v uint16) {
	c.mu.Lock()
	c.ier = v
	c.mu.Unlock()
	c.service()
}

// ClearIFR clears the CPU interrupt flags selected by mask.
func (c *Controller) ClearIFR(mask uint16) {
	c.mu.Lock()
	c.ifr &^= mask
	c.mu.Unlock()
}

// InitPieVectTable fills every vector with def and enables the PIE.
func (c *Controller) InitPieVectTable(def Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.vectors {
		c.vectors[i] = def
	}
	c.enpie = true
}

// SetVector installs h for PIE interrupt (group 1..12, intx 1..16).
func (c *Controller) SetVector(group, intx int, h Handler) error {
	idx, err := vectorIndex(group, intx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.vectors[idx] = h
	c.mu.Unlock()
	return nil
}

// EnablePIE sets PIEIER for (group, intx).
func (c *Controller) EnablePIE(group, intx int) error {
	if _, err := vectorIndex(group, intx); err != nil {
		return err
	}
	c.mu.Lock()
	c.pieier[group-1] |= 1 << (intx - 1)
	c.mu.Unlock()
	c.service()
	return nil
}

// Ack clears PIEACK for group so the next flag in it may reach the CPU.
func (c *Controller) Ack(group int) {
	if group < 1 || group > Groups {
		return
	}
	c.mu.Lock()
	c.pieack &^= 1 << (group - 1)
	c.mu.Unlock()
	c.service()
}

// Raise is a peripheral asserting interrupt (group, intx).
func (c *Controller) Raise(group, intx int) error {
	if _, err := vectorIndex(group, intx); err != nil {
		return err
	}
	c.mu.Lock()
	c.pieifr[group-1] |= 1 << (intx - 1)
	c.mu.Unlock()
	c.service()
	return nil
}

// Masked reports whether no maskable interrupt can reach the CPU.
func (c *Controller) Masked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.intmClear || c.ier == 0
}

// Pending reports the PIEIFR bits of group (1..12).
func (c *Controller) Pending(group int) uint16 {
	if group < 1 || group > Groups {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pieifr[group-1]
}

func (c *Controller) IER() uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ier
}

func (c *Controller) IFR() uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ifr
}

func (c *Controller) PIEEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enpie
}

// Dispatched counts ISRs the model has entered.
func (c *Controller) Dispatched() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dispatched
}

// service propagates PIE flags to the CPU and runs at most one ISR per
// call. Handlers run without the lock held.
func (c *Controller) service() {
	c.mu.Lock()
	if c.enpie {
		for g := 0; g < Groups; g++ {
			bit := uint16(1) << g
			if c.pieack&bit != 0 {
				continue
			}
			if c.pieifr[g]&c.pieier[g] != 0 {
				c.ifr |= bit
				c.pieack |= bit
			}
		}
	}
	if !c.intmClear {
		c.mu.Unlock()
		return
	}
	for g := 0; g < Groups; g++ {
		bit := uint16(1) << g
		if c.ifr&c.ier&bit == 0 {
			continue
		}
		c.ifr &^= bit
		active := c.pieifr[g] & c.pieier[g]
		if active == 0 {
			continue
		}
		x := lowestBit(active)
		c.pieifr[g] &^= 1 << x
		h := c.vectors[cpuVectors+g*PerGroup+x]
		c.dispatched++
		c.mu.Unlock()
		if h != nil {
			h()
		}
		return
	}
	c.mu.Unlock()
}

func vectorIndex(group, intx int) (int, error) {
	if group < 1 || group > Groups || intx < 1 || intx > PerGroup {
		return 0, errcode.InvalidParams
	}
	return cpuVectors + (group-1)*PerGroup + (intx - 1), nil
}

func lowestBit(v uint16) int {
	for i := 0; i < 16; i++ {
		if v&(1<<i) != 0 {
			return i
		}
	}
	return -1
}
