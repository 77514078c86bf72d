package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the dashboard service.
type Config struct {
	// Server configuration
	Port string `env:"PORT,default=8982"`

	// Dataset sources. A URL, when set, wins over the local path.
	DatasetPath  string `env:"DATASET_PATH,default=public/energy_cons.json"`
	DatasetURL   string `env:"DATASET_URL"`
	NameMapPath  string `env:"NAME_MAP_PATH,default=public/iso_name_map.json"`
	NameMapURL   string `env:"NAME_MAP_URL"`
	WatchDataset bool   `env:"WATCH_DATASET,default=false"`

	// Year range
	MinYear     int `env:"MIN_YEAR,default=1985"`
	MaxYear     int `env:"MAX_YEAR,default=2021"`
	DefaultYear int `env:"DEFAULT_YEAR,default=2020"`

	// Snapshot storage
	StorageMode  string `env:"STORAGE_MODE,default=local"`
	ExportsDir   string `env:"EXPORTS_DIR,default=./exports"`
	GCPProjectID string `env:"GCP_PROJECT_ID"`
	GCSBucket    string `env:"GCS_BUCKET"`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=json"`
	LogFile     string `env:"LOG_FILE"`
}

// Load reads an optional .env file (ENV_FILE, default ".env") and then the
// environment. Variables already set in the environment win over the file.
func Load(ctx context.Context) (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the year range and storage settings.
func (c *Config) Validate() error {
	if c.MinYear > c.MaxYear {
		return fmt.Errorf("invalid year range: MIN_YEAR %d > MAX_YEAR %d", c.MinYear, c.MaxYear)
	}
	if c.DefaultYear < c.MinYear || c.DefaultYear > c.MaxYear {
		return fmt.Errorf("invalid DEFAULT_YEAR %d: outside %d..%d", c.DefaultYear, c.MinYear, c.MaxYear)
	}
	switch strings.ToLower(c.StorageMode) {
	case "local":
	case "gcs":
		if c.GCSBucket == "" {
			return errors.New("STORAGE_MODE=gcs requires GCS_BUCKET")
		}
	default:
		return fmt.Errorf("unknown STORAGE_MODE %q", c.StorageMode)
	}
	return nil
}

// IsProduction reports whether ENVIRONMENT is "production".
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
