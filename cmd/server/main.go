package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/priyamehta/cddrisk/internal/config"
	"github.com/priyamehta/cddrisk/internal/docextract"
	"github.com/priyamehta/cddrisk/internal/docs"
	"github.com/priyamehta/cddrisk/internal/llm"
	"github.com/priyamehta/cddrisk/internal/logging"
	"github.com/priyamehta/cddrisk/internal/repository"
	"github.com/priyamehta/cddrisk/internal/scoring"
	"github.com/priyamehta/cddrisk/internal/server"
	"github.com/priyamehta/cddrisk/internal/service"
)

func main() {
	ctx := context.Background()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	store, err := repository.Open(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("failed to open customer store", "error", err, "path", cfg.Storage.DatabasePath)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing customer store failed", "error", err)
		}
	}()

	if err := store.EnsureSchema(ctx); err != nil {
		logger.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	files, err := service.NewFileStore(cfg.Storage.DocumentsDir)
	if err != nil {
		logger.Error("failed to prepare documents directory", "error", err, "dir", cfg.Storage.DocumentsDir)
		os.Exit(1)
	}

	logger.Info("training risk model",
		"seed", cfg.Model.Seed,
		"samples", cfg.Model.SampleCount,
		"rounds", cfg.Model.Rounds,
	)
	model := scoring.Train(cfg.Model)

	llmClient := llm.New(cfg.LLM)
	adjuster := scoring.NewAdjuster(llmClient, logger)
	extractor := &docextract.Extractor{}
	classifier := docs.NewClassifier(llmClient, logger)
	pdfClassifier := docs.NewPDFClassifier(extractor, classifier, logger)

	onboarding := service.NewOnboardingService(store, classifier, pdfClassifier, files, logger)
	review := service.NewReviewService(store, model, adjuster, extractor, logger)
	apiHandlers := server.NewAPIHandlers(logger, onboarding, review)

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           server.StoreHealthService{Store: store},
		API:              apiHandlers,
		AllowedOrigins:   parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	var origins []string
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
