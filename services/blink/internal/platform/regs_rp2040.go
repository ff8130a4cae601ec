//go:build rp2040

package platform

const (
	ioBank0Base   uintptr = 0x40014000
	padsBank0Base uintptr = 0x4001c000
	padISO                = 0
)
