package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/topclip/tikfetch/internal/config"
	"github.com/topclip/tikfetch/internal/download"
	"github.com/topclip/tikfetch/internal/extractor"
	"github.com/topclip/tikfetch/internal/ratelimit"
	"github.com/topclip/tikfetch/internal/server"
	"github.com/topclip/tikfetch/internal/storage"
	"github.com/topclip/tikfetch/internal/video"
)

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP server that resolves TikTok URLs and serves downloads.

API Endpoints:
  GET  /health            # Health check
  POST /video/info        # Resolve metadata and available formats
  POST /video/download    # Download a chosen format
  GET  /downloads/<file>  # Completed artifacts (local storage backend)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "config.yml", "path to config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()

	engine := extractor.NewYTDLPEngine(cfg.Extractor.BinaryPath)
	adapter := extractor.NewAdapter(engine, cfg.Extractor.GetTimeout(), logger)

	var cache *video.Cache
	if cfg.Cache.Enabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		cache = video.NewCache(client, cfg.Cache.GetTTL())
		logger.Info("metadata cache enabled", zap.String("addr", cfg.Cache.Addr))
	}

	videos := video.NewService(adapter, cache, logger)

	backend, err := buildStorage(cfg)
	if err != nil {
		return err
	}

	manager, err := download.NewManager(videos, backend, cfg.Downloads.TempDir, cfg.Downloads.GetRetention(), logger)
	if err != nil {
		return err
	}

	limiter := ratelimit.New(cfg.RateLimit.Requests, cfg.RateLimit.GetWindow(), cfg.RateLimit.GetIdleTTL(), logger)

	srv := server.New(cfg.Server.Addr(), videos, manager, limiter, backend, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go limiter.Run(ctx)
	go manager.Run(ctx, cfg.Downloads.GetCleanupInterval())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("shutting down")
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown error", zap.Error(err))
		}
	}()

	color.Green("tikfetch listening on %s", cfg.Server.Addr())
	return srv.Start()
}

func buildStorage(cfg *config.Config) (storage.Backend, error) {
	switch cfg.Storage.Backend {
	case "s3":
		return storage.NewS3(context.Background(), &cfg.Storage.S3)
	case "local", "":
		return storage.NewLocal(cfg.Downloads.Dir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
