// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatTasks formats a remaining-task count, dropping the fraction when the
// value is whole.
// e.g., 4 -> "4", 3.3333 -> "3.3"
func FormatTasks(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// FormatVariance formats actual-minus-ideal with an explicit sign.
// Positive means behind schedule.
func FormatVariance(v float64) string {
	if math.Abs(v) < 0.05 {
		return "0"
	}
	if v > 0 {
		return "+" + FormatTasks(v)
	}
	return "-" + FormatTasks(-v)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatSeries joins values as a bracketed list.
// e.g., [10 8 6] -> "[10, 8, 6]"
func FormatSeries(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = FormatTasks(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
