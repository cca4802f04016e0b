package timeutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// DefaultWindow is the activity bucket used when none is configured.
const DefaultWindow = "1h"

const (
	day  = 24 * time.Hour
	week = 7 * day
)

// windowUnits is ordered largest first; the first alias is the canonical
// label used by FormatWindow.
var windowUnits = []struct {
	size    time.Duration
	aliases []string
}{
	{week, []string{"w", "wk", "wks", "week", "weeks"}},
	{day, []string{"d", "day", "days"}},
	{time.Hour, []string{"h", "hr", "hrs", "hour", "hours"}},
	{time.Minute, []string{"m", "min", "mins", "minute", "minutes"}},
	{time.Second, []string{"s", "sec", "secs", "second", "seconds"}},
}

func unitSize(name string) (time.Duration, bool) {
	for _, u := range windowUnits {
		for _, a := range u.aliases {
			if a == name {
				return u.size, true
			}
		}
	}
	return 0, false
}

// ParseWindow parses a window such as "1h", "3d" or "1w2d6h" and returns
// the duration with its compact label. Empty input means DefaultWindow.
func ParseWindow(input string) (time.Duration, string, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		s = DefaultWindow
	}

	var total time.Duration
	for s != "" {
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
		digits := len(s) - len(strings.TrimLeftFunc(s, unicode.IsDigit))
		if digits == 0 {
			return 0, "", fmt.Errorf("invalid duration segment %q", s)
		}
		n, err := strconv.ParseInt(s[:digits], 10, 64)
		if err != nil {
			return 0, "", fmt.Errorf("invalid duration value %q: %w", s[:digits], err)
		}
		s = strings.TrimLeftFunc(s[digits:], unicode.IsSpace)
		letters := len(s) - len(strings.TrimLeftFunc(s, unicode.IsLetter))
		if letters == 0 {
			return 0, "", fmt.Errorf("missing unit after %d", n)
		}
		size, ok := unitSize(s[:letters])
		if !ok {
			return 0, "", fmt.Errorf("unsupported duration unit %q", s[:letters])
		}
		total += time.Duration(n) * size
		s = strings.TrimSpace(s[letters:])
	}

	if total <= 0 {
		return 0, "", errors.New("duration must be greater than zero")
	}
	return total, FormatWindow(total), nil
}

// FormatWindow renders d with w/d/h/m/s tokens, largest first.
func FormatWindow(d time.Duration) string {
	var b strings.Builder
	for _, u := range windowUnits {
		if d < u.size {
			continue
		}
		fmt.Fprintf(&b, "%d%s", d/u.size, u.aliases[0])
		d %= u.size
	}
	if b.Len() == 0 {
		return "0s"
	}
	return b.String()
}
