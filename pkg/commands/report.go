package commands

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/codecanvas/pkg/commands/options"
	"tableflip.dev/codecanvas/pkg/runner/report"
	"tableflip.dev/codecanvas/pkg/timeutil"
)

func addLayout(topLevel *cobra.Command) {
	ao := &options.AsOfOptions{}
	lo := &options.LayoutOptions{}

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "print the canvas rectangles",
		Example: `
codecanvas layout --mode treemap-flat --metric bytes
codecanvas layout --as-of 2024-03-01 --json
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

			mode, metric, err := lo.Resolve(s.Settings)
			if err != nil {
				return oo.HandleError(err)
			}
			r := report.Layout{
				Index:  s.Index,
				AsOf:   asOf,
				Mode:   mode,
				Metric: metric,
				JSON:   oo.JSON,
				Out:    cmd.OutOrStdout(),
			}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}

	options.AddAsOfArg(cmd, ao)
	options.AddLayoutArgs(cmd, lo)
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addActivity(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "print when the tree changed",
		Example: `
codecanvas activity
codecanvas activity --json
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

			r := report.Activity{Index: s.Index, JSON: oo.JSON, Out: cmd.OutOrStdout()}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addStats(topLevel *cobra.Command) {
	ao := &options.AsOfOptions{}
	var largest int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "print totals and the language mix",
		Example: `
codecanvas stats
codecanvas stats --as-of 30d --largest 20
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

			r := report.Stats{Index: s.Index, AsOf: asOf, Largest: largest, JSON: oo.JSON, Out: cmd.OutOrStdout()}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}

	options.AddAsOfArg(cmd, ao)
	options.AddOutputArg(cmd, oo)
	cmd.Flags().IntVar(&largest, "largest", 10, "How many of the largest files to list.")
	topLevel.AddCommand(cmd)
}

func addReport(topLevel *cobra.Command) {
	var last string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Display files changed recently, grouped by folder",
		Long: `Report lists the files added, updated or deleted within the specified time window.

Examples:
  codecanvas report
  codecanvas report --last 3d
  codecanvas report --last 1w2d`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			oo.Resolve(cmd)
			duration, label, err := timeutil.ParseWindow(last)
			if err != nil {
				return oo.HandleError(err)
			}
			s, err := openSession(true)
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.Close()

			r := report.Changes{
				Index: s.Index,
				Since: time.Now().Add(-duration),
				Label: label,
				JSON:  oo.JSON,
				Out:   cmd.OutOrStdout(),
			}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}

	cmd.Flags().StringVar(&last, "last", timeutil.DefaultWindow, "time window to include (for example 3d, 1w)")
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
