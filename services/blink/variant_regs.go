//go:build gpio_regs

package blink

import "ledblink-go/services/blink/internal/core"

// BuildVariant writes the GPIO registers directly.
const BuildVariant = core.VariantRegister
