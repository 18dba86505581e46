// Package main is the entry point for the tunegrab API server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tunegrab/tunegrab-api/internal/config"
	"github.com/tunegrab/tunegrab-api/internal/infra/artifacts"
	"github.com/tunegrab/tunegrab-api/internal/resolver"
	"github.com/tunegrab/tunegrab-api/internal/search"
	"github.com/tunegrab/tunegrab-api/internal/service/jobs"
	"github.com/tunegrab/tunegrab-api/internal/service/pipeline"
	"github.com/tunegrab/tunegrab-api/internal/service/queue"
	"github.com/tunegrab/tunegrab-api/internal/store"
	transport "github.com/tunegrab/tunegrab-api/internal/transport/http"
	"github.com/tunegrab/tunegrab-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Setup(&logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	// Storage
	var st store.JobStore
	if cfg.Store == "memory" {
		st = store.NewMemory()
	} else {
		sqlite, err := store.NewSQLite(cfg.DataDir)
		if err != nil {
			slog.Error("Failed to init store", "error", err)
			os.Exit(1)
		}
		st = sqlite
	}
	defer st.Close()

	// Artifact storage: R2 when configured, local dir otherwise.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var art artifacts.Store
	r2cfg := &artifacts.R2Config{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
	}
	if r2cfg.Configured() {
		r2, err := artifacts.NewR2(ctx, r2cfg)
		if err != nil {
			slog.Error("Failed to init R2", "error", err)
			os.Exit(1)
		}
		art = r2
	} else {
		local, err := artifacts.NewLocal(cfg.ArtifactsDir)
		if err != nil {
			slog.Error("Failed to init artifact storage", "error", err)
			os.Exit(1)
		}
		art = local
	}

	// Pipeline
	res := resolver.NewCached(resolver.NewMock(), cfg.MetadataCacheTTL, 10*time.Minute)
	engine := pipeline.NewSimulated(cfg.ScratchDir, cfg.StepDelay)
	processor := pipeline.NewProcessor(st, res, engine, art, cfg.JobTimeout)

	dispatcher := queue.NewDispatcher(cfg.MaxWorkers, cfg.MaxQueueSize, processor.Run)
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	cleaner := artifacts.NewCleaner(cfg.ScratchDir, cfg.ScratchMaxAge, cfg.CleanupInterval)
	cleaner.Start(ctx)
	defer cleaner.Stop()

	// API
	service := jobs.NewService(st, res, search.NewMock(), dispatcher)
	handlers := transport.NewHandlers(service, dispatcher, art)
	router := transport.NewRouter(cfg.AllowedOrigins, handlers)

	server := transport.NewServer(":"+cfg.Port, router)

	go func() {
		slog.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Forced shutdown", "error", err)
	}
}
