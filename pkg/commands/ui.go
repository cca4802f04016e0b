package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/codecanvas/pkg/commands/options"
	"tableflip.dev/codecanvas/pkg/runner/ui"
	teaui "tableflip.dev/codecanvas/pkg/tui/app"
)

func addUI(topLevel *cobra.Command) {
	lo := &options.LayoutOptions{}
	var (
		follow      bool
		noScan      bool
		downloadDir string
	)

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the canvas",
		Long: options.Wrap80(`Open the zoomable canvas over the tracked tree. Scrub the timeline to look at the tree at any past instant, or stay live and watch files change.`),
		Example: `
codecanvas ui
codecanvas ui --mode treemap-flat --metric bytes --follow
codecanvas --remote http://build-box:7070 ui
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, err := openSession(false)
			if err != nil {
				return err
			}
			defer s.Close()

			mode, metric, err := lo.Resolve(s.Settings)
			if err != nil {
				return err
			}
			i := ui.UI{
				Index: s.Index,
				Options: teaui.Options{
					Mode:        mode,
					Metric:      metric,
					Follow:      follow || s.Settings.Follow,
					DownloadDir: downloadDir,
				},
				Scan: !noScan,
				Log:  s.Log,
			}
			return i.Do(cmd.Context())
		},
	}

	options.AddLayoutArgs(cmd, lo)
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Fly to each changed file while live.")
	cmd.Flags().BoolVar(&noScan, "no-scan", false, "Skip the scan of a local root before opening.")
	cmd.Flags().StringVar(&downloadDir, "download-dir", "", "Where historical snapshots are written. Defaults to the working directory.")

	topLevel.AddCommand(cmd)
}
