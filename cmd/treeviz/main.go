package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/campus-tree-forest/internal/adapter/csvsource"
	"github.com/couchcryptid/campus-tree-forest/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/campus-tree-forest/internal/adapter/kafka"
	"github.com/couchcryptid/campus-tree-forest/internal/config"
	"github.com/couchcryptid/campus-tree-forest/internal/observability"
	"github.com/couchcryptid/campus-tree-forest/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	source := csvsource.NewSource(cfg.CSVSource, cfg.FetchTimeout, logger)

	// Publishing is feature-flagged via KAFKA_BROKERS.
	var (
		publisher pipeline.Publisher
		writer    *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("aggregate publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSinkTopic)
	} else {
		logger.Info("aggregate publishing disabled")
	}

	p := pipeline.New(source, publisher, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, cfg.VizOptions(), cfg.RenderCacheSize, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Load the census once. The server answers with an empty forest until
	// this finishes.
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
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
