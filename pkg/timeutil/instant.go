package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseInstant reads a point in time for --as-of style flags. Empty input or
// "live" means the present and yields nil. Accepted forms are unix
// milliseconds, RFC3339, "2006-01-02[ 15:04[:05]]" in local time, and a
// window such as "3d" or "2h30m ago" counted back from now.
func ParseInstant(input string, now time.Time) (*time.Time, error) {
	s := strings.TrimSpace(input)
	if s == "" || strings.EqualFold(s, "live") || strings.EqualFold(s, "now") {
		return nil, nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		ts := time.UnixMilli(ms).UTC()
		return &ts, nil
	}
	for _, layout := range instantLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &ts, nil
		}
	}
	window := strings.TrimSpace(strings.TrimSuffix(strings.ToLower(s), "ago"))
	if d, _, err := ParseWindow(window); err == nil && d > 0 {
		ts := now.Add(-d)
		return &ts, nil
	}
	return nil, fmt.Errorf("invalid instant %q (use unix ms, RFC3339, YYYY-MM-DD or a window like 3d)", s)
}
