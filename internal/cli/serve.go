package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/lectura/mindmap/internal/server"
	apperr "github.com/lectura/mindmap/pkg/errors"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the mind map API over HTTP",
		Long: `Serve the mind map API over HTTP.

The cache, store and model endpoint come from the config file and MINDMAP_*
environment variables. Without an API key the server still lays out and
renders trees, but POST /api/mindmaps answers 501.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	cfg := server.Config{
		Runner:          runner,
		Store:           st,
		Logger:          c.Logger,
		DefaultWidth:    c.Config.Layout.Width,
		DefaultHeight:   c.Config.Layout.Height,
		MaxDepth:        c.Config.Layout.MaxDepth,
		ShutdownTimeout: c.Config.Server.ShutdownTimeout,
	}
	gen, err := c.newGenerator(ctx, noCache)
	switch {
	case apperr.Is(err, apperr.ErrCodeUnsupported):
		c.Logger.Warn("generation disabled", "reason", apperr.UserMessage(err))
	case err != nil:
		return err
	default:
		cfg.Generator = gen
		c.Logger.Info("generation enabled", "model", gen.Model())
	}

	c.Logger.Info("using backends", "cache", c.Config.Cache.Backend, "store", c.Config.Store.Backend)
	return server.New(cfg).Run(ctx, addr)
}

