package commands

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/codecanvas/pkg/runner/mcp"
)

type mcpFlags struct {
	transport string
	host      string
	port      int
	path      string
	tlsCert   string
	tlsKey    string
}

func addMCP(topLevel *cobra.Command) {
	f := mcpFlags{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the index to agents over the Model Context Protocol",
		Long: `Launch an MCP server that exposes the tracked files, their contents at any
instant, activity, language mix and canvas layouts.

Examples:
  codecanvas mcp
  codecanvas mcp --transport stdio
  codecanvas mcp --remote http://127.0.0.1:7070 --http-port 0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			runner, err := f.runner()
			if err != nil {
				return err
			}
			s, err := openSession(true)
			if err != nil {
				return err
			}
			defer s.Close()

			runner.Index = s.Index
			runner.Version = version
			if runner.Transport == mcp.TransportHTTP {
				scheme := "http"
				if runner.HTTPServerCert != "" && runner.HTTPServerKey != "" {
					scheme = "https"
				}
				runner.OnHTTPListening = func(a net.Addr) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on %s\n", listenURL(scheme, f.host, a, runner.HTTPEndpointPath))
				}
			}
			return runner.Do(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&f.transport, "transport", string(mcp.TransportHTTP), "Transport to use: http or stdio.")
	cmd.Flags().StringVar(&f.host, "http-host", "127.0.0.1", "Host/interface for the HTTP transport.")
	cmd.Flags().IntVar(&f.port, "http-port", 8080, "Port for the HTTP transport (use 0 for random).")
	cmd.Flags().StringVar(&f.path, "http-path", "/mcp", "HTTP endpoint path.")
	cmd.Flags().StringVar(&f.tlsCert, "http-tls-cert", "", "TLS certificate file for HTTPS.")
	cmd.Flags().StringVar(&f.tlsKey, "http-tls-key", "", "TLS private key file for HTTPS.")

	topLevel.AddCommand(cmd)
}

// runner validates the flags into a runner without an index.
func (f mcpFlags) runner() (mcp.Runner, error) {
	r := mcp.Runner{Name: "codecanvas"}
	switch strings.ToLower(strings.TrimSpace(f.transport)) {
	case "", string(mcp.TransportHTTP):
		r.Transport = mcp.TransportHTTP
	case string(mcp.TransportStdio):
		r.Transport = mcp.TransportStdio
		return r, nil
	default:
		return r, fmt.Errorf("unsupported transport %q (expected http or stdio)", f.transport)
	}

	if f.port < 0 || f.port > 65535 {
		return r, fmt.Errorf("invalid http-port %d", f.port)
	}
	host := strings.TrimSpace(f.host)
	if host == "" {
		host = "127.0.0.1"
	}
	r.HTTPListenAddr = net.JoinHostPort(host, strconv.Itoa(f.port))
	r.HTTPEndpointPath = endpointPath(f.path)
	r.HTTPServerCert = strings.TrimSpace(f.tlsCert)
	r.HTTPServerKey = strings.TrimSpace(f.tlsKey)
	return r, nil
}

func endpointPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/mcp"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// listenURL names the bound address, replacing a wildcard host with one a
// client can dial.
func listenURL(scheme, host string, a net.Addr, path string) string {
	tcp, ok := a.(*net.TCPAddr)
	if !ok {
		return scheme + "://" + a.String() + path
	}
	host = strings.TrimSpace(host)
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
		if tcp.IP != nil && !tcp.IP.IsUnspecified() {
			host = tcp.IP.String()
		}
	}
	u := url.URL{Scheme: scheme, Host: net.JoinHostPort(host, strconv.Itoa(tcp.Port)), Path: path}
	return u.String()
}
