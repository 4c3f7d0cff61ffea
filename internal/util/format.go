// Package util provides formatting helpers shared by the reporters and CLI.
package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatBitrate formats a kbps value, switching to Mbps from 1000 kbps.
func FormatBitrate(kbps float64) string {
	switch {
	case math.IsNaN(kbps) || kbps < 0:
		return "n/a"
	case kbps >= 1000:
		return fmt.Sprintf("%.2f Mbps", kbps/1000)
	default:
		return fmt.Sprintf("%.0f kbps", kbps)
	}
}

// FormatSeconds formats a duration in seconds with millisecond precision.
func FormatSeconds(seconds float64) string {
	if math.IsInf(seconds, 1) {
		return "inf"
	}
	if math.IsNaN(seconds) {
		return "n/a"
	}
	return fmt.Sprintf("%.3fs", seconds)
}

// FormatPositions formats segment positions as "[5 2 1]", or "none".
func FormatPositions(positions []int) string {
	if len(positions) == 0 {
		return "none"
	}
	parts := make([]string, len(positions))
	for i, p := range positions {
		parts[i] = strconv.Itoa(p)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Percent returns part as a percentage of total, or 0 when total is 0.
func Percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
