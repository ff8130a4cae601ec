//go:build rp2350

package boards

const selectedName = "pico2"
