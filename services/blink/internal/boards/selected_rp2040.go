//go:build rp2040

package boards

const selectedName = "pico"
