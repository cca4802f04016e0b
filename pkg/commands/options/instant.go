package options

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/codecanvas/pkg/timeutil"
)

// AsOfOptions selects the instant a command looks at.
type AsOfOptions struct {
	AsOf string
}

func AddAsOfArg(cmd *cobra.Command, o *AsOfOptions) {
	cmd.Flags().StringVar(&o.AsOf, "as-of", "",
		Wrap80(`Look at the tree as it was at this instant: unix ms, RFC3339, "2024-03-01 14:00", or a window such as "3d" counted back from now. Empty means live.`))
}

// GetAsOf parses the flag; nil means live.
func (o *AsOfOptions) GetAsOf() (*time.Time, error) {
	return timeutil.ParseInstant(o.AsOf, time.Now())
}
