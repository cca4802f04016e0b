package commands

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/codecanvas/pkg/commands/options"
	"tableflip.dev/codecanvas/pkg/runner/serve"
)

func addServe(topLevel *cobra.Command) {
	var (
		host   string
		port   int
		noScan bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the local index over HTTP",
		Long: options.Wrap80(`Expose the local index over HTTP so canvases on other machines can browse it with --remote. The tracked root is watched and changes are streamed to every connected canvas.`),
		Example: `
codecanvas serve
codecanvas serve --host 0.0.0.0 --port 7070
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			if port < 0 || port > 65535 {
				return fmt.Errorf("invalid port %d", port)
			}
			s, err := openSession(true)
			if err != nil {
				return err
			}
			defer s.Close()

			if _, err := s.local("serve"); err != nil {
				return err
			}
			h := strings.TrimSpace(host)
			if h == "" {
				h = "127.0.0.1"
			}
			r := serve.Serve{
				Index: s.Index,
				Addr:  net.JoinHostPort(h, strconv.Itoa(port)),
				Scan:  !noScan,
				Log:   s.Log,
				Out:   cmd.OutOrStdout(),
			}
			return r.Do(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "Host/interface to listen on.")
	cmd.Flags().IntVar(&port, "port", 7070, "Port to listen on (use 0 for random).")
	cmd.Flags().BoolVar(&noScan, "no-scan", false, "Skip the scan of the root before listening.")

	topLevel.AddCommand(cmd)
}
