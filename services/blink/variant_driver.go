//go:build !gpio_regs

package blink

import "ledblink-go/services/blink/internal/core"

// BuildVariant drives the LEDs through the GPIO driver API.
const BuildVariant = core.VariantDriver
