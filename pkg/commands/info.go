package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/codecanvas/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about settings and where the index is stored.",
		Example: `
codecanvas info
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, err := openSession(true)
			if err != nil {
				return err
			}
			defer s.Close()

			i := info.Info{
				Settings: s.Settings,
				Index:    s.Index,
				Out:      cmd.OutOrStdout(),
			}
			return i.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
