package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shaderinc/internal/server"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags   resolveFlags
		addr    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the include resolver over HTTP",
		Long: `Run an HTTP API that resolves documents under the root directory, or
documents posted inline:

  GET  /healthz
  POST /v1/resolve   {"path": "main.frag", "files": {...}, "formats": ["dot"]}
  POST /v1/check     {"paths": ["a.frag", "b.frag"]}
  GET  /v1/stats`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			// The server resolves request paths itself; "." stands in for
			// the positional file the shared flags expect.
			opts, err := flags.options(cmd, cfg, ".")
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Server.Addr
			}

			runner, err := c.newRunner(ctx, cfg, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			stats := &server.Stats{}
			stats.Register()

			srv := server.New(runner, server.Options{
				Root:     opts.Root,
				Relative: opts.Relative,
				MaxDepth: opts.MaxDepth,
				Timeout:  timeout,
				Stats:    stats,
				Logger:   loggerFromContext(ctx),
			})
			return srv.ListenAndServe(ctx, addr)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address (default: config server.addr)")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "per-request resolution timeout")

	return cmd
}
