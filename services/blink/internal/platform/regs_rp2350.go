//go:build rp2350

package platform

const (
	ioBank0Base   uintptr = 0x40028000
	padsBank0Base uintptr = 0x40038000
	padISO                = 1 << 8 // pads power up isolated
)
