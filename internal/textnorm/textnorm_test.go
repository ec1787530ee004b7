package textnorm

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"  Tổng hợp chi tiêu tháng này cho tôi  \n\n", "Tổng hợp chi tiêu tháng này cho tôi"},
		{"Cafe\t50k", "Cafe 50k"},
		{"a\r\nb\r\nc", "a b c"},
		{"   ", ""},
		{"", ""},
		{"Nhận   Lương 12 triệu", "Nhận Lương 12 triệu"},
	}

	for _, tc := range cases {
		if got := Normalize(tc.input); got != tc.expected {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"  nhiều   khoảng \t trắng  ",
		"Cafe 50k",
		"\n\n\n",
		"đã chuẩn rồi",
	}

	for _, s := range inputs {
		once := Normalize(s)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q != %q", s, twice, once)
		}
	}
}

func TestNormalizePreservesCase(t *testing.T) {
	if got := Normalize("Highlands Coffee 75K"); got != "Highlands Coffee 75K" {
		t.Fatalf("case not preserved: %q", got)
	}
}
