//go:build !tinygo

package strconvx

import "strconv"

func FormatUint(u uint64, base int) string { return strconv.FormatUint(u, base) }
