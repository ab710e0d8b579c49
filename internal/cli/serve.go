package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/folio/pkg/config"
	"github.com/matzehuels/folio/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		pf      projectFlags
		addr    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve project lists over HTTP",
		Long: `Serve project lists over HTTP until interrupted.

Routes:
  GET /healthz
  GET /v1/users/{user}/projects[?refresh=1]
  GET /v1/users/{user}/projects.{json,yaml,md,html}
  GET /v1/users/{user}/snapshot`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			pf.apply(cmd.Flags(), cfg)
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("timeout") {
				cfg.Server.Timeout = timeout
			}
			s, err := config.Resolve(*cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			b, err := c.open(ctx, s)
			if err != nil {
				return err
			}
			defer b.Close()

			st, err := c.openStore(ctx, s)
			if err != nil {
				return err
			}
			defer st.Close()

			printInfo("Serving on %s", StyleHighlight.Render(s.Addr))
			printDetail("cache: %s · store: %s", s.CacheBackend, s.StoreBackend)

			srv := server.New(server.Config{
				Runner:  b.runner,
				Store:   st,
				Options: s.Project,
				Timeout: s.ServerTimeout,
				Logger:  c.Logger,
			})
			return srv.Run(ctx, s.Addr)
		},
	}

	pf.register(cmd.Flags())
	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	cmd.Flags().DurationVar(&timeout, "timeout", config.DefaultServerTimeout, "per-request timeout")

	return cmd
}
