package timeutil

import (
	"testing"
	"time"
)

func TestParseInstant(t *testing.T) {
	now := time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		in   string
		want *time.Time
		err  bool
	}{
		{in: "", want: nil},
		{in: "live", want: nil},
		{in: "1500", want: ptr(time.UnixMilli(1500).UTC())},
		{in: "2024-05-01T08:30:00Z", want: ptr(time.Date(2024, time.May, 1, 8, 30, 0, 0, time.UTC))},
		{in: "2024-05-01", want: ptr(time.Date(2024, time.May, 1, 0, 0, 0, 0, time.Local))},
		{in: "3d", want: ptr(now.Add(-72 * time.Hour))},
		{in: "2h30m ago", want: ptr(now.Add(-150 * time.Minute))},
		{in: "yesterday-ish", err: true},
	}
	for _, tt := range tests {
		got, err := ParseInstant(tt.in, now)
		if tt.err {
			if err == nil {
				t.Fatalf("%q: expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.in, err)
		}
		switch {
		case tt.want == nil && got != nil:
			t.Fatalf("%q: expected live, got %v", tt.in, got)
		case tt.want != nil && (got == nil || !got.Equal(*tt.want)):
			t.Fatalf("%q: got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func ptr(ts time.Time) *time.Time {
	return &ts
}
