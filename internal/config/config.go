package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP    HTTPConfig
	Storage StorageConfig
	LLM     LLMConfig
	Model   ModelConfig
	Logging LoggingConfig
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string
	Port              int
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	AllowedOriginsCSV string
}

// StorageConfig describes the customer store and the documents directory.
type StorageConfig struct {
	DatabasePath string
	DocumentsDir string
}

// LLMConfig describes connectivity to the local model endpoints. The text
// endpoint answers risk-adjustment prompts, the vision endpoint classifies
// document images; both share the same base URL.
type LLMConfig struct {
	BaseURL       string
	TextModel     string
	VisionModel   string
	TextTimeout   time.Duration
	VisionTimeout time.Duration
}

// ModelConfig controls training of the in-process risk model.
type ModelConfig struct {
	Seed         int64
	SampleCount  int
	Rounds       int
	MaxDepth     int
	LearningRate float64
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string
	Format        string // text|json
	IncludeCaller bool
}

const (
	defaultHost            = "0.0.0.0"
	defaultPort            = 8080
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultLoggingLevel    = "info"
	defaultLoggingFormat   = "text"

	defaultDatabasePath = "bank_onboarding.db"
	defaultDocumentsDir = "documents"

	defaultLLMBaseURL    = "http://localhost:11434"
	defaultTextModel     = "granite3.2:latest"
	defaultVisionModel   = "llava:7b"
	defaultTextTimeout   = 200 * time.Second
	defaultVisionTimeout = 30 * time.Second

	defaultModelSeed    = 42
	defaultSampleCount  = 100
	defaultRounds       = 100
	defaultMaxDepth     = 4
	defaultLearningRate = 0.3
)

// Load reads configuration from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		HTTP: HTTPConfig{
			Host:            valueOrDefault("SERVER_HOST", defaultHost),
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			IdleTimeout:     defaultIdleTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Storage: StorageConfig{
			DatabasePath: valueOrDefault("STORAGE_DATABASE_PATH", defaultDatabasePath),
			DocumentsDir: valueOrDefault("STORAGE_DOCUMENTS_DIR", defaultDocumentsDir),
		},
		LLM: LLMConfig{
			BaseURL:       valueOrDefault("LLM_BASE_URL", defaultLLMBaseURL),
			TextModel:     valueOrDefault("LLM_TEXT_MODEL", defaultTextModel),
			VisionModel:   valueOrDefault("LLM_VISION_MODEL", defaultVisionModel),
			TextTimeout:   defaultTextTimeout,
			VisionTimeout: defaultVisionTimeout,
		},
		Model: ModelConfig{
			Seed:         parseInt64WithDefault("MODEL_SEED", defaultModelSeed),
			SampleCount:  parseIntWithDefault("MODEL_SAMPLE_COUNT", defaultSampleCount),
			Rounds:       parseIntWithDefault("MODEL_ROUNDS", defaultRounds),
			MaxDepth:     parseIntWithDefault("MODEL_MAX_DEPTH", defaultMaxDepth),
			LearningRate: parseFloatWithDefault("MODEL_LEARNING_RATE", defaultLearningRate),
		},
		Logging: LoggingConfig{
			Level:         valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format:        valueOrDefault("LOG_FORMAT", defaultLoggingFormat),
			IncludeCaller: parseBoolWithDefault("LOG_INCLUDE_CALLER", false),
		},
	}

	port, err := parsePort("SERVER_PORT", defaultPort)
	if err != nil {
		return Config{}, err
	}
	cfg.HTTP.Port = port

	durations := []struct {
		key    string
		target *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", &cfg.HTTP.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout},
		{"LLM_TEXT_TIMEOUT", &cfg.LLM.TextTimeout},
		{"LLM_VISION_TIMEOUT", &cfg.LLM.VisionTimeout},
	}
	for _, d := range durations {
		if v := os.Getenv(d.key); v != "" {
			parsed, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, fmt.Errorf("invalid %s: %w", d.key, err)
			}
			*d.target = parsed
		}
	}

	cfg.HTTP.AllowedOriginsCSV = os.Getenv("SERVER_ALLOWED_ORIGINS")

	return cfg, nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}

func parseInt64WithDefault(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.ParseInt(v, 10, 64); err == nil {
			return val
		}
	}
	return fallback
}

func parseFloatWithDefault(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil {
			return val
		}
	}
	return fallback
}

func parsePort(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}
