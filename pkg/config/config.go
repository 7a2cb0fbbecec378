// Package config handles loading and managing spcalc configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/spcalc/spcalc/pkg/spcode"
)

// Catalog sources.
const (
	SourceFile     = "file"
	SourceLocal    = "local"
	SourceS3       = "s3"
	SourceGCS      = "gcs"
	SourcePostgres = "postgres"
)

// Config is the top-level configuration for spcalc.
type Config struct {
	Calculation CalculationConfig `yaml:"calculation"`
	Catalog     CatalogConfig     `yaml:"catalog"`
	Server      ServerConfig      `yaml:"server"`
}

// CalculationConfig controls the optimizer and how grades are shown.
type CalculationConfig struct {
	CreditCap  float64 `yaml:"credit_cap"`
	MaxModules int     `yaml:"max_modules"`
	Precision  int     `yaml:"precision"` // decimal places for display
}

// CatalogConfig says where the module catalog comes from.
type CatalogConfig struct {
	Source      string `yaml:"source"`   // file, local, s3, gcs, postgres
	Path        string `yaml:"path"`     // for file
	BaseDir     string `yaml:"base_dir"` // for local
	Bucket      string `yaml:"bucket"`   // for s3 and gcs
	Object      string `yaml:"object"`   // catalog name within the store
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint"` // S3-compatible endpoint, e.g. MinIO
	DatabaseURL string `yaml:"database_url"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Port            string  `yaml:"port"`
	APIKey          string  `yaml:"api_key"`
	RateLimit       float64 `yaml:"rate_limit"` // requests per second, 0 disables
	Burst           int     `yaml:"burst"`
	SearchCacheSize int     `yaml:"search_cache_size"`
	MaxBodyBytes    int64   `yaml:"max_body_bytes"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Calculation: CalculationConfig{
			CreditCap:  spcode.DefaultCreditCap,
			MaxModules: spcode.DefaultMaxModules,
			Precision:  spcode.DefaultPrecision,
		},
		Catalog: CatalogConfig{
			Source: SourceFile,
			Path:   "modules.json",
			Object: "modules",
		},
		Server: ServerConfig{
			Port:            "7800",
			RateLimit:       10,
			Burst:           20,
			SearchCacheSize: 256,
			MaxBodyBytes:    1 << 20,
		},
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the config for values the rest of the program cannot use.
func (c *Config) Validate() error {
	if err := c.Calculation.OptimizerConfig().Validate(); err != nil {
		return fmt.Errorf("calculation: %w", err)
	}
	if c.Calculation.Precision < 0 || c.Calculation.Precision > 6 {
		return fmt.Errorf("calculation: precision must be between 0 and 6, got %d", c.Calculation.Precision)
	}
	switch c.Catalog.Source {
	case SourceFile, SourceLocal, SourceS3, SourceGCS, SourcePostgres:
	default:
		return fmt.Errorf("catalog: unknown source %q", c.Catalog.Source)
	}
	if (c.Catalog.Source == SourceS3 || c.Catalog.Source == SourceGCS) && c.Catalog.Bucket == "" {
		return fmt.Errorf("catalog: bucket is required for source %q", c.Catalog.Source)
	}
	return nil
}

// OptimizerConfig converts the calculation section into optimizer settings.
func (c CalculationConfig) OptimizerConfig() spcode.Config {
	return spcode.Config{
		CreditCap:  c.CreditCap,
		MaxModules: c.MaxModules,
	}
}

// ApplyEnv overrides config values from environment variables. lookup is
// usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("PORT", &c.Server.Port)
	str("API_KEY", &c.Server.APIKey)
	str("DATABASE_URL", &c.Catalog.DatabaseURL)
	str("CATALOG_SOURCE", &c.Catalog.Source)
	str("CATALOG_PATH", &c.Catalog.Path)
	str("CATALOG_BASE_DIR", &c.Catalog.BaseDir)
	str("CATALOG_BUCKET", &c.Catalog.Bucket)
	str("CATALOG_OBJECT", &c.Catalog.Object)
	str("CATALOG_REGION", &c.Catalog.Region)
	str("CATALOG_ENDPOINT", &c.Catalog.Endpoint)

	if v, ok := lookup("CREDIT_CAP"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("CREDIT_CAP: %w", err)
		}
		c.Calculation.CreditCap = f
	}
	if v, ok := lookup("MAX_MODULES"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MAX_MODULES: %w", err)
		}
		c.Calculation.MaxModules = n
	}
	if v, ok := lookup("RATE_LIMIT"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT: %w", err)
		}
		c.Server.RateLimit = f
	}
	if v, ok := lookup("SEARCH_CACHE_SIZE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SEARCH_CACHE_SIZE: %w", err)
		}
		c.Server.SearchCacheSize = n
	}
	return c.Validate()
}

// FindConfigFile looks for .spcalc/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".spcalc", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// CacheDir returns the per-user cache directory, ~/.cache/spcalc.
func CacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to temp dir if HOME isn't available
		home = os.TempDir()
	}
	return filepath.Join(home, ".cache", "spcalc")
}

// CatalogDir returns where the local catalog store keeps its blobs when no
// base_dir is configured.
func CatalogDir() string {
	return filepath.Join(CacheDir(), "catalogs")
}
