package hangulnum

import (
	"errors"
	"math"
	"testing"
)

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want uint64
	}{
		{"0", 0},
		{"12345", 12345},
		{"12,345", 12345},
		{" 1,000,000 \n", 1_000_000},
		{"18,446,744,073,709,551,615", math.MaxUint64},
		{"1,2,3", 123}, // 逗号只是被去掉，不校验分组位置
	}
	for _, tc := range cases {
		got, err := ParseNumber(tc.in)
		if err != nil {
			t.Fatalf("ParseNumber(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseNumber(%q): got %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseNumber_Invalid(t *testing.T) {
	for _, in := range []string{"", "  ", ",", "-1", "+1", "abc", "12a", "1.5", "18446744073709551616"} {
		if _, err := ParseNumber(in); !errors.Is(err, ErrInvalidNumber) {
			t.Fatalf("ParseNumber(%q): got %v, want ErrInvalidNumber", in, err)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in   uint64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{12345, "12,345"},
		{math.MaxUint64, "18,446,744,073,709,551,615"},
	}
	for _, tc := range cases {
		if got := FormatNumber(tc.in); got != tc.want {
			t.Fatalf("FormatNumber(%d): got %q, want %q", tc.in, got, tc.want)
		}
	}
}
