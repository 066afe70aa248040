package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/priyamehta/cddrisk/internal/config"
	"github.com/priyamehta/cddrisk/internal/logging"
	"github.com/priyamehta/cddrisk/internal/repository"
	"github.com/priyamehta/cddrisk/internal/service"
)

var errMissingDataset = errors.New("dataset not found")

func main() {
	var (
		datasetDir    = flag.String("dataset-dir", "./seed-data", "Directory containing customers.json")
		customersPath = flag.String("customers", "", "Path to customers.json (overrides dataset-dir)")
		workers       = flag.Int("workers", 4, "Number of concurrent workers for seeding")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "seed")

	customersFile, err := resolveDatasetPath(*datasetDir, *customersPath)
	if err != nil {
		logger.Error("dataset resolution failed", "error", err)
		os.Exit(1)
	}

	customers, err := loadCustomerInputs(customersFile)
	if err != nil {
		logger.Error("failed to load customers", "error", err, "path", customersFile)
		os.Exit(1)
	}
	if len(customers) == 0 {
		logger.Error("customers dataset empty", "path", customersFile)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

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

	// Seeding registers records only; uploads never happen here, so the
	// classification and file-store dependencies stay nil.
	onboarding := service.NewOnboardingService(store, nil, nil, nil, logger)
	seeder := service.NewBulkSeeder(onboarding, *workers)

	start := time.Now()
	logger.Info("seeding customers", "count", len(customers), "workers", *workers)
	if err := seeder.SeedCustomers(ctx, customers); err != nil {
		logger.Error("customer seeding failed", "error", err)
		os.Exit(1)
	}

	logger.Info("seeding complete", "duration", time.Since(start).String(), "customers", len(customers))
}

func resolveDatasetPath(baseDir, explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("stat %s: %w", explicitPath, err)
		}
		return explicitPath, nil
	}
	path := filepath.Join(baseDir, "customers.json")
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s", errMissingDataset, path)
	}
	return path, nil
}

func loadCustomerInputs(path string) ([]service.CustomerInput, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	var customers []service.CustomerInput
	if err := json.NewDecoder(file).Decode(&customers); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return customers, nil
}
