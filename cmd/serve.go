package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/C0n0r92/calc2/internal/api"
	"github.com/C0n0r92/calc2/internal/cache"
	"github.com/C0n0r92/calc2/internal/service"
	"github.com/C0n0r92/calc2/internal/tracing"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the calculator HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.setup(os.Stdout)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			shutdownTracing, err := tracing.InitTracing(ctx, cfg.OTELServiceName, cfg.OTELEndpoint, logger)
			if err != nil {
				return err
			}
			defer func() {
				flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdownTracing(flushCtx); err != nil {
					logger.Warn("tracing shutdown failed", "error", err)
				}
			}()

			store, err := cache.New(cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			if sqlite, ok := store.(*cache.SQLiteCache); ok {
				if n, err := sqlite.Prune(ctx); err != nil {
					logger.Warn("cache prune failed", "error", err)
				} else if n > 0 {
					logger.Info("pruned expired cache entries", "count", n)
				}
			}
			logger.Info("result cache ready", "backend", cfg.CacheBackend, "ttl", cfg.CacheTTL)

			svc := service.New(cfg, store, logger)
			return api.NewServer(cfg, svc, logger).Run(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Listen port; overrides PORT")
	return cmd
}
