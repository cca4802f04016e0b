package snake

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestParseBool(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{in: "yes", want: true},
		{in: "Y", want: true},
		{in: "1", want: true},
		{in: "no", want: false},
		{in: "F", want: false},
		{in: "maybe", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBool(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBool(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParseBool(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFlagArgs(t *testing.T) {
	fs := pflag.NewFlagSet("ui", pflag.ContinueOnError)
	fs.StringP("as-of", "a", "", "instant")
	fs.Bool("follow", false, "follow")

	if got := asFlags(fs.Lookup("as-of")); got != "--as-of, -a" {
		t.Fatalf("asFlags = %q", got)
	}
	if got := asFlags(fs.Lookup("follow")); got != "--follow" {
		t.Fatalf("asFlags = %q", got)
	}
	if got := valueArg("as-of", "3d ago"); got != "--as-of=3d ago" {
		t.Fatalf("valueArg = %q", got)
	}
	if got := boolArg("follow", true); got != "--follow=true" {
		t.Fatalf("boolArg = %q", got)
	}
}
