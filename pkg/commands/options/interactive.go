package options

import (
	"github.com/spf13/cobra"
)

// InteractiveOptions holds the root -i flag, which walks the command tree
// and its flags with prompts instead of reading them from the command line.
type InteractiveOptions struct {
	Interactive bool
}

// AddInteractiveArg registers -i on cmd.
func AddInteractiveArg(cmd *cobra.Command, o *InteractiveOptions) {
	cmd.Flags().BoolVarP(&o.Interactive, "interactive", "i", false,
		`Pick the command and its flags from prompts.`)
}
