package mi

import "testing"

func TestGdbVersionAtLeast(t *testing.T) {
	cases := []struct {
		v, want string
		at_least bool
	}{
		{"7.12", "7.8", true},
		{"8", "7.12", true},
		{"7.8.0", "7.8", true},
		{"7.7.9", "7.8", false},
		{"7.8", "7.8", true},
	}
	for _, c := range cases {
		if got := GdbVersionAtLeast(c.v, c.want); got != c.at_least {
			t.Errorf("GdbVersionAtLeast(%q, %q) = %v, want %v", c.v, c.want, got, c.at_least)
		}
	}
}

func TestParseGdbVersion(t *testing.T) {
	if got := ParseGdbVersion("GNU gdb (Ubuntu 12.1-0ubuntu1~22.04) 12.1"); got != "12.1" {
		t.Errorf("ParseGdbVersion = %q", got)
	}
}
