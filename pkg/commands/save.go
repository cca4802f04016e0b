package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/codecanvas/pkg/runner/save"
)

func addSave(topLevel *cobra.Command) {
	var file string

	cmd := &cobra.Command{
		Use:   "save <path>",
		Short: "write new content for a tracked file",
		Example: `
codecanvas save pkg/util.go --file /tmp/util.go
cat notes.md | codecanvas save docs/notes.md
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			s, err := openSession(true)
			if err != nil {
				return err
			}
			defer s.Close()

			r := save.Save{
				Index: s.Index,
				Path:  args[0],
				File:  file,
				In:    cmd.InOrStdin(),
				Out:   cmd.OutOrStdout(),
			}
			return r.Do(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&file, "file", "", `Read content from this file instead of stdin ("-").`)
	topLevel.AddCommand(cmd)
}
