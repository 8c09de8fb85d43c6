package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/ryanm101/gamehub/internal/logging"
	"github.com/ryanm101/gamehub/internal/tracing"
	"gopkg.in/yaml.v3"
)

// Source names.
const (
	SourceRAWG = "rawg"
	SourceIGDB = "igdb"
)

const (
	defaultDBPath   = "gamehub.db"
	defaultAddr     = ":8080"
	defaultPageSize = 20
	maxPageSize     = 40
	defaultRAWGURL  = "https://api.rawg.io/api"
)

// ErrInvalid is returned by Validate for unusable configuration.
var ErrInvalid = errors.New("invalid config")

// Config holds application configuration.
type Config struct {
	Source         string        `yaml:"source" env:"GAMEHUB_SOURCE"`
	PageSize       int           `yaml:"page_size" env:"GAMEHUB_PAGE_SIZE"`
	DBPath         string        `yaml:"db_path" env:"GAMEHUB_DB"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"GAMEHUB_REQUEST_TIMEOUT"`
	ReferenceTTL   time.Duration `yaml:"reference_ttl" env:"GAMEHUB_REFERENCE_TTL"`

	RAWG RAWGConfig `yaml:"rawg"`
	IGDB IGDBConfig `yaml:"igdb"`
	Web  WebConfig  `yaml:"web"`

	Logging logging.Config `yaml:"logging"`
	Tracing tracing.Config `yaml:"tracing"`
}

// RAWGConfig configures the RAWG source.
type RAWGConfig struct {
	BaseURL string `yaml:"base_url" env:"GAMEHUB_RAWG_BASE_URL"`
	APIKey  string `yaml:"api_key" env:"GAMEHUB_RAWG_API_KEY"`
}

// IGDBConfig configures the IGDB source.
type IGDBConfig struct {
	ClientID     string `yaml:"client_id" env:"GAMEHUB_IGDB_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"GAMEHUB_IGDB_CLIENT_SECRET"`
}

// WebConfig configures the web front end.
type WebConfig struct {
	Addr    string        `yaml:"addr" env:"GAMEHUB_ADDR"`
	ViewTTL time.Duration `yaml:"view_ttl" env:"GAMEHUB_VIEW_TTL"`
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Source:         SourceRAWG,
		PageSize:       defaultPageSize,
		DBPath:         defaultDBPath,
		RequestTimeout: 15 * time.Second,
		ReferenceTTL:   24 * time.Hour,
		RAWG:           RAWGConfig{BaseURL: defaultRAWGURL},
		Web:            WebConfig{Addr: defaultAddr, ViewTTL: 30 * time.Minute},
		Logging:        logging.DefaultConfig(),
		Tracing:        tracing.DefaultConfig(),
	}
}

// configPaths returns the list of paths to search for config file.
func configPaths() []string {
	paths := []string{
		".gamehub.yaml",
		".gamehub.yml",
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "gamehub", "config.yaml"),
			filepath.Join(home, ".config", "gamehub", "config.yml"),
			filepath.Join(home, ".gamehub.yaml"),
		)
	}

	return paths
}

// Load loads configuration from file or returns defaults.
// Priority: env GAMEHUB_CONFIG > search paths > defaults, then
// environment variable overrides.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if envPath := os.Getenv("GAMEHUB_CONFIG"); envPath != "" {
		if err := cfg.loadFromFile(envPath); err != nil {
			return nil, err
		}
		return cfg, cfg.applyEnvOverrides()
	}

	for _, path := range configPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := cfg.loadFromFile(path); err != nil {
				return nil, err
			}
			break
		}
	}

	return cfg, cfg.applyEnvOverrides()
}

// LoadFile loads defaults, the given file, and environment overrides.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.loadFromFile(path); err != nil {
		return nil, err
	}
	return cfg, cfg.applyEnvOverrides()
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // Path chosen by the operator
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if c.Tracing.Endpoint != "" && os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
		c.Tracing.Enabled = true
	}
	return nil
}

// Validate reports configuration the application cannot run with.
func (c *Config) Validate() error {
	switch c.Source {
	case SourceRAWG:
		if c.RAWG.APIKey == "" {
			return fmt.Errorf("%w: rawg.api_key is required (GAMEHUB_RAWG_API_KEY)", ErrInvalid)
		}
	case SourceIGDB:
		if c.IGDB.ClientID == "" || c.IGDB.ClientSecret == "" {
			return fmt.Errorf("%w: igdb.client_id and igdb.client_secret are required", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvalid, c.Source)
	}
	if c.PageSize < 1 || c.PageSize > maxPageSize {
		return fmt.Errorf("%w: page_size must be between 1 and %d", ErrInvalid, maxPageSize)
	}
	if r := c.Tracing.SampleRatio; r < 0 || r > 1 {
		return fmt.Errorf("%w: tracing.sample_ratio must be between 0 and 1", ErrInvalid)
	}
	return nil
}

// GetDBPath returns the database path, applying defaults.
func (c *Config) GetDBPath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return defaultDBPath
}

// GetAddr returns the web listen address, applying defaults.
func (c *Config) GetAddr() string {
	if c.Web.Addr != "" {
		return c.Web.Addr
	}
	return defaultAddr
}

// GetRAWGBaseURL returns the RAWG API base URL, applying defaults.
func (c *Config) GetRAWGBaseURL() string {
	if c.RAWG.BaseURL != "" {
		return c.RAWG.BaseURL
	}
	return defaultRAWGURL
}
