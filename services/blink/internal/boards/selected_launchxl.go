//go:build !board_controlcard && !rp2040 && !rp2350

package boards

const selectedName = "launchxl-f28379d"
