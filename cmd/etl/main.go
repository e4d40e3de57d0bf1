package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/precip-radial-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/precip-radial-etl/internal/adapter/kafka"
	"github.com/couchcryptid/precip-radial-etl/internal/adapter/siteinfo"
	"github.com/couchcryptid/precip-radial-etl/internal/config"
	"github.com/couchcryptid/precip-radial-etl/internal/domain"
	"github.com/couchcryptid/precip-radial-etl/internal/observability"
	"github.com/couchcryptid/precip-radial-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Initialize the site directory (feature-flagged via SITEINFO_ENABLED).
	var sites domain.SiteDirectory
	if cfg.SiteInfoEnabled {
		client := siteinfo.NewClient(cfg.SiteInfoBaseURL, cfg.SiteInfoTimeout, metrics, logger)
		sites = siteinfo.NewCachedDirectory(client, cfg.SiteInfoCacheSize, metrics)
		metrics.SiteLookupEnabled.Set(1)
		logger.Info("site enrichment enabled",
			"base_url", cfg.SiteInfoBaseURL,
			"cache_size", cfg.SiteInfoCacheSize,
			"timeout", cfg.SiteInfoTimeout)
	} else {
		logger.Info("site enrichment disabled")
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(sites, logger, metrics)

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start ETL pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
