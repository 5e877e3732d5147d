package mi

import "testing"

func TestStandardEscape(t *testing.T) {
	cases := []struct {
		in          string
		forceQuotes bool
		want        string
	}{
		{"a b", false, `"a b"`},
		{`a\b`, false, `a\\b`},
		{"c", false, "c"},
		{"c", true, `"c"`},
		{`say "hi"`, false, `"say \"hi\""`},
	}
	for _, c := range cases {
		if got := StandardEscape(c.in, c.forceQuotes); got != c.want {
			t.Errorf("StandardEscape(%q, %v) = %q, want %q", c.in, c.forceQuotes, got, c.want)
		}
	}
}
