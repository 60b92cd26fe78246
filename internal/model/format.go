package model

import (
	"fmt"
	"strconv"
)

// FormatCount renders a counter with K/M magnitude suffixes.
// Values are not re-normalized across suffixes: 999999 renders as "1000.0K".
func FormatCount(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return strconv.FormatInt(n, 10)
	}
}
