// Package config loads productsummary settings from YAML, .env files and
// PRODUCTSUMMARY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend kinds.
const (
	KindFixture  = "fixture"
	KindHTTP     = "http"
	KindGRPC     = "grpc"
	KindPostgres = "postgres"
)

// Output formats for the show command.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputPlain = "plain"
)

const (
	defaultRequestTimeout = 10 * time.Second
	defaultHTTPAddr       = "127.0.0.1:8080"
	defaultGRPCAddr       = "127.0.0.1:9090"
	configFileName        = "config.yaml"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full productsummary configuration.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Loader  LoaderConfig  `yaml:"loader"`
	Logging LoggingConfig `yaml:"logging"`
	Output  OutputConfig  `yaml:"output"`
	Server  ServerConfig  `yaml:"server"`

	// path is the file the config was read from, empty for defaults.
	path string
}

// BackendConfig selects where case records and product summaries come from.
type BackendConfig struct {
	Cases          string        `yaml:"cases"`
	Products       string        `yaml:"products"`
	HTTPURL        string        `yaml:"http_url"`
	GRPCAddr       string        `yaml:"grpc_addr"`
	PostgresDSN    string        `yaml:"postgres_dsn"`
	FixtureFile    string        `yaml:"fixture_file"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// LoaderConfig tunes the product summary loader.
type LoaderConfig struct {
	DiscardStaleResponses bool `yaml:"discard_stale_responses"`
}

// LoggingConfig is the logging section.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// OutputConfig is the output section.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	HTTPAddr    string `yaml:"http_addr"`
	GRPCAddr    string `yaml:"grpc_addr"`
	FixtureFile string `yaml:"fixture_file"`
}

// Defaults returns a Config with every field set to its default.
func Defaults() *Config {
	return &Config{
		Backend: BackendConfig{
			Cases:          KindFixture,
			Products:       KindFixture,
			RequestTimeout: defaultRequestTimeout,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Output: OutputConfig{DefaultFormat: OutputTable},
		Server: ServerConfig{
			HTTPAddr: defaultHTTPAddr,
			GRPCAddr: defaultGRPCAddr,
		},
	}
}

// New builds the effective configuration: defaults, then the config file
// (if present), then environment overrides. Load errors are ignored so a
// broken file never prevents the CLI from starting; use Load to see them.
func New() *Config {
	cfg, err := Load(ResolvePath(""))
	if err != nil {
		cfg = Defaults()
		_ = ApplyEnv(cfg)
	}
	return cfg
}

// Load reads path on top of the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path != "" {
		err := MergeYAML(cfg, path)
		switch {
		case err == nil:
			cfg.path = path
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, err
		}
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ResolvePath picks the config file: flagValue, then PRODUCTSUMMARY_CONFIG,
// then config.yaml in the config directory.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return env
	}
	dir, err := GetConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, configFileName)
}

// Path returns the file the configuration was read from.
func (c *Config) Path() string {
	return c.path
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	var errs []error

	switch c.Backend.Cases {
	case KindFixture, KindHTTP, KindGRPC, KindPostgres:
	default:
		errs = append(errs, fmt.Errorf("backend.cases: unknown kind %q", c.Backend.Cases))
	}
	switch c.Backend.Products {
	case KindFixture, KindHTTP, KindGRPC:
	default:
		errs = append(errs, fmt.Errorf("backend.products: unknown kind %q", c.Backend.Products))
	}

	uses := func(kind string) bool {
		return c.Backend.Cases == kind || c.Backend.Products == kind
	}
	if uses(KindHTTP) && c.Backend.HTTPURL == "" {
		errs = append(errs, errors.New("backend.http_url is required for the http backend"))
	}
	if uses(KindGRPC) && c.Backend.GRPCAddr == "" {
		errs = append(errs, errors.New("backend.grpc_addr is required for the grpc backend"))
	}
	if uses(KindPostgres) && c.Backend.PostgresDSN == "" {
		errs = append(errs, errors.New("backend.postgres_dsn is required for the postgres backend"))
	}
	if c.Backend.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("backend.request_timeout must be >= 0, got %s", c.Backend.RequestTimeout))
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", "console", "json", "text":
	default:
		errs = append(errs, fmt.Errorf("logging.format: unknown format %q", c.Logging.Format))
	}
	switch c.Output.DefaultFormat {
	case OutputTable, OutputJSON, OutputPlain:
	default:
		errs = append(errs, fmt.Errorf("output.default_format: unknown format %q", c.Output.DefaultFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Save writes the configuration as YAML to path, creating parent
// directories as needed.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}
	if err = os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err = os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	c.path = path
	return nil
}
