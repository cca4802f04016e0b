package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tableflip.dev/codecanvas/pkg/commands/options"
	"tableflip.dev/codecanvas/pkg/snake"
)

var (
	oo  = &options.OutputOptions{}
	so  = &options.SourceOptions{}
	cfg = viper.New()
)

func New() *cobra.Command {
	interactive := &options.InteractiveOptions{}

	cmd := &cobra.Command{
		Use:   "codecanvas",
		Short: options.Wrap80("Browse a code tree as a zoomable canvas, live or at any past instant."),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !interactive.Interactive {
				return cmd.Help()
			}
			next, err := snake.PromptNext(cmd)
			if err != nil {
				return err
			}
			cmd.SetArgs(next)
			return cmd.Execute()
		},
	}

	options.AddInteractiveArg(cmd, interactive)
	options.AddSourceArgs(cmd, so, cfg)
	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addScan(topLevel)
	addServe(topLevel)
	addMCP(topLevel)
	addLayout(topLevel)
	addActivity(topLevel)
	addStats(topLevel)
	addReport(topLevel)
	addDownload(topLevel)
	addSave(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}
