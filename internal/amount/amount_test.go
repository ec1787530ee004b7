package amount

import "testing"

func TestParseShorthand(t *testing.T) {
	cases := []struct {
		input    string
		expected float64
	}{
		{"50k", 50000},
		{"200k", 200000},
		{"1.5k", 1500},
		{"5m", 5000000},
		{"5m2", 5200000},
		{"12m", 12000000},
		{"5M2", 5200000},
		{" 50K ", 50000},
	}

	for _, tc := range cases {
		got := Parse(tc.input)
		if !got.Valid {
			t.Fatalf("Parse(%q) invalid, want %v", tc.input, tc.expected)
		}
		if got.Value != tc.expected {
			t.Fatalf("Parse(%q) = %v, want %v", tc.input, got.Value, tc.expected)
		}
	}
}

func TestParsePlainNumbers(t *testing.T) {
	cases := []struct {
		input    string
		expected float64
	}{
		{"50000", 50000},
		{"50.000", 50000},
		{"1,234,567", 1234567},
		{"96", 96},
	}

	for _, tc := range cases {
		got := Parse(tc.input)
		if !got.Valid || got.Value != tc.expected {
			t.Fatalf("Parse(%q) = %+v, want %v", tc.input, got, tc.expected)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	inputs := []string{
		"", "abc", "5m2k", "kk", "m", "k", "5mm", "bát phở",
		// ParseFloat syntax that is not money.
		"inf", "nan", "infk", "nanm", "1e9", "1e3k", "-5000", "+50k", "-2m",
		".5k", "5.k", "5m2.5",
	}

	for _, in := range inputs {
		if got := Parse(in); got.Valid {
			t.Fatalf("Parse(%q) = %+v, want invalid", in, got)
		}
		// Invalid must never surface a usable number.
		if got := Parse(in); got.Value != 0 {
			t.Fatalf("Parse(%q) invalid but value %v != 0", in, got.Value)
		}
	}
}
