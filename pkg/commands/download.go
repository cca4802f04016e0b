package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/codecanvas/pkg/commands/options"
	"tableflip.dev/codecanvas/pkg/runner/download"
)

func addDownload(topLevel *cobra.Command) {
	ao := &options.AsOfOptions{}
	var (
		dir     string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "download",
		Short: "write the tree as it was at a past instant",
		Example: `
codecanvas download --as-of 2024-03-01
codecanvas download --as-of 3d --dir /tmp/three-days-ago
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			oo.Resolve(cmd)
			asOf, err := ao.GetAsOf()
			if err != nil {
				return oo.HandleError(err)
			}
			s, err := openSession(true)
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.Close()

			r := download.Download{
				Index:   s.Index,
				AsOf:    asOf,
				Dir:     dir,
				Workers: workers,
				JSON:    oo.JSON,
				Out:     cmd.OutOrStdout(),
			}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}

	options.AddAsOfArg(cmd, ao)
	options.AddOutputArg(cmd, oo)
	cmd.Flags().StringVar(&dir, "dir", "", "Destination directory. Defaults to codecanvas-<timestamp>.")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent content fetches. Zero uses the default.")
	topLevel.AddCommand(cmd)
}
