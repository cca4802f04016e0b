package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/codecanvas/pkg/commands/options"
	"tableflip.dev/codecanvas/pkg/runner/scan"
)

func addScan(topLevel *cobra.Command) {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "record changes under the tracked root",
		Long: options.Wrap80(`Walk the tracked root and record a revision for every new, changed or deleted file in the local index.`),
		Example: `
codecanvas scan
codecanvas scan --root ~/src/project --quiet
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			oo.Resolve(cmd)
			s, err := openSession(true)
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.Close()

			local, err := s.local("scan")
			if err != nil {
				return oo.HandleError(err)
			}
			r := scan.Scan{
				Index: local,
				JSON:  oo.JSON,
				Quiet: quiet,
				Out:   cmd.OutOrStdout(),
			}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, oo)
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print totals.")

	topLevel.AddCommand(cmd)
}
