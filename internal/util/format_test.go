package util

import (
	"math"
	"testing"
)

func TestFormatPercent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		{0.25, "+25.00%"},
		{-0.1, "-10.00%"},
		{0, "0.00%"},
		{math.NaN(), "N/A"},
	}
	for _, tt := range tests {
		if got := FormatPercent(tt.in); got != tt.want {
			t.Fatalf("FormatPercent(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{999.5, "999.50"},
		{1234567.891, "1,234,567.89"},
		{-1000, "-1,000.00"},
	}
	for _, tt := range tests {
		if got := FormatAmount(tt.in); got != tt.want {
			t.Fatalf("FormatAmount(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
