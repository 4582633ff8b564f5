package cli

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/wdlkit/wdlkit/internal/server"
	"github.com/wdlkit/wdlkit/internal/source"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the wdlkit HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				cfg.Addr = addr
			}

			ctx := context.Background()
			src := source.NewDefaultResolver(ctx, cfg.SourceCacheDir, logger)
			srv := server.New(cfg, src, logger)

			logger.Info("starting server", "addr", cfg.Addr)
			fmt.Fprintf(cmd.OutOrStdout(), "listening on %s\n", cfg.Addr)
			return http.ListenAndServe(cfg.Addr, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	return cmd
}
