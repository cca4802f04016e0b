package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/codecanvas/pkg/config"
	"tableflip.dev/codecanvas/pkg/layout"
)

// LayoutOptions overrides the configured layout mode and size metric.
type LayoutOptions struct {
	Mode   string
	Metric string
}

func AddLayoutArgs(cmd *cobra.Command, o *LayoutOptions) {
	cmd.Flags().StringVarP(&o.Mode, "mode", "m", "",
		"Layout mode: hierarchical, treemap-flat or treemap-folders.")
	cmd.Flags().StringVarP(&o.Metric, "metric", "b", "",
		"Tile size metric: bytes or lines.")
}

// Resolve applies the flags over the settings.
func (o *LayoutOptions) Resolve(s *config.Settings) (layout.Mode, layout.Metric, error) {
	mode, metric := s.Layout, s.Metric
	var err error
	if o.Mode != "" {
		if mode, err = layout.ParseMode(o.Mode); err != nil {
			return mode, metric, err
		}
	}
	if o.Metric != "" {
		if metric, err = layout.ParseMetric(o.Metric); err != nil {
			return mode, metric, err
		}
	}
	return mode, metric, nil
}
