package util

import (
	"math"
	"testing"
)

func TestFormatBitrate(t *testing.T) {
	tests := []struct {
		kbps float64
		want string
	}{
		{0, "0 kbps"},
		{107, "107 kbps"},
		{999, "999 kbps"},
		{1000, "1.00 Mbps"},
		{4121, "4.12 Mbps"},
		{-1, "n/a"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := FormatBitrate(tt.kbps)
			if got != tt.want {
				t.Errorf("FormatBitrate(%v) = %q, want %q", tt.kbps, got, tt.want)
			}
		})
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{6.743, "6.743s"},
		{0, "0.000s"},
		{math.Inf(1), "inf"},
		{math.NaN(), "n/a"},
	}

	for _, tt := range tests {
		if got := FormatSeconds(tt.seconds); got != tt.want {
			t.Errorf("FormatSeconds(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatPositions(t *testing.T) {
	if got := FormatPositions([]int{5, 2, 1}); got != "[5 2 1]" {
		t.Errorf("FormatPositions = %q", got)
	}
	if got := FormatPositions(nil); got != "none" {
		t.Errorf("FormatPositions(nil) = %q", got)
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		part, total int
		want        float64
	}{
		{1, 4, 25},
		{0, 0, 0},
		{3, 3, 100},
	}

	for _, tt := range tests {
		if got := Percent(tt.part, tt.total); got != tt.want {
			t.Errorf("Percent(%d, %d) = %v, want %v", tt.part, tt.total, got, tt.want)
		}
	}
}
