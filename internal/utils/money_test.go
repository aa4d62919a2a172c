package utils

import "testing"

func TestFormatKES(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "KSh 0.00"},
		{50, "KSh 0.50"},
		{100, "KSh 1.00"},
		{1234550, "KSh 12,345.50"},
		{100000000, "KSh 1,000,000.00"},
		{-150075, "-KSh 1,500.75"},
	}
	for _, c := range cases {
		if got := FormatKES(c.cents); got != c.want {
			t.Errorf("FormatKES(%d) = %q, want %q", c.cents, got, c.want)
		}
	}
}

func TestParseKESToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"KSh 1,500", 150000},
		{"1500.50", 150050},
		{"ksh 12,345.5", 1234550},
		{"0.99", 99},
		{"-20.25", -2025},
	}
	for _, c := range cases {
		got, err := ParseKESToCents(c.in)
		if err != nil {
			t.Errorf("ParseKESToCents(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseKESToCents(%q) = %d, want %d", c.in, got, c.want)
		}
	}

	for _, bad := range []string{"", "KSh", "abc"} {
		if _, err := ParseKESToCents(bad); err == nil {
			t.Errorf("ParseKESToCents(%q): expected error", bad)
		}
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, 99, 100, 12345, 999999999} {
		got, err := ParseKESToCents(FormatKES(cents))
		if err != nil {
			t.Fatalf("round trip %d: %v", cents, err)
		}
		if got != cents {
			t.Fatalf("round trip %d: got %d", cents, got)
		}
	}
}
