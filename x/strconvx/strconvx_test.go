package strconvx

import "testing"

func TestFormatUint(t *testing.T) {
	for _, c := range []struct {
		u    uint64
		base int
		want string
	}{
		{0, 10, "0"},
		{200_000_000, 10, "200000000"},
		{5, 2, "101"},
		{0xff, 16, "ff"},
	} {
		if got := FormatUint(c.u, c.base); got != c.want {
			t.Fatalf("FormatUint(%d,%d) = %q, want %q", c.u, c.base, got, c.want)
		}
	}
}
