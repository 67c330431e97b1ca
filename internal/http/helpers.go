package http

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseDate parses a YYYY-MM-DD form value in the given location. Missing
// or malformed values yield the zero time, which leaves that bound open.
func parseDate(v string, loc *time.Location) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation("2006-01-02", v, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// sanitizeInput removes potentially dangerous characters and trims whitespace
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	// Remove control characters except tab, newline, carriage return
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1 // remove character
		}
		return r
	}, s)
	return result
}

// formatUSD formats cents as a dollar string with thousands separators,
// e.g. "$1,234.56".
func formatUSD(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	dollars := cents / 100
	rem := cents % 100
	s := strconv.FormatInt(dollars, 10)
	// Insert thousands separators right to left
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	s = "$" + s + "." + fmt.Sprintf("%02d", rem)
	if neg {
		return "-" + s
	}
	return s
}
