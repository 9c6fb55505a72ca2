package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/storypdf/core/cache"
	"github.com/gaurav-prasanna/storypdf/core/render"
	"github.com/gaurav-prasanna/storypdf/web"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web UI",
	Long: `Serve starts the web UI on STORYPDF_SERVER_PORT. Finished PDFs are cached in
Redis when STORYPDF_REDIS_URL is set, otherwise in memory.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := newCache(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	p := newPipeline(cfg, render.NewPDFRenderer(render.DefaultPDFOptions()))
	srv := web.NewServer(ctx, net.JoinHostPort("", cfg.ServerPort), log, p, store)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	if err := srv.Shutdown(shutdownTimeout); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}

func newCache(ctx context.Context) (cache.Cache, func(), error) {
	if cfg.RedisURL == "" {
		log.Info().Msg("using in-memory cache")
		return cache.NewMemory(), func() {}, nil
	}

	client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	store := cache.NewRedis(client, cfg.CacheTTL)
	log.Info().Dur("ttl", cfg.CacheTTL).Msg("using redis cache")
	return store, func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("closing redis")
		}
	}, nil
}
