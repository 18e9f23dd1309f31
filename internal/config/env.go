package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables.
const (
	EnvHome                  = "PRODUCTSUMMARY_HOME"
	EnvConfig                = "PRODUCTSUMMARY_CONFIG"
	EnvCasesBackend          = "PRODUCTSUMMARY_CASES_BACKEND"
	EnvProductsBackend       = "PRODUCTSUMMARY_PRODUCTS_BACKEND"
	EnvHTTPURL               = "PRODUCTSUMMARY_HTTP_URL"
	EnvGRPCAddr              = "PRODUCTSUMMARY_GRPC_ADDR"
	EnvPostgresDSN           = "PRODUCTSUMMARY_POSTGRES_DSN"
	EnvFixtureFile           = "PRODUCTSUMMARY_FIXTURE_FILE"
	EnvRequestTimeout        = "PRODUCTSUMMARY_REQUEST_TIMEOUT"
	EnvDiscardStaleResponses = "PRODUCTSUMMARY_DISCARD_STALE_RESPONSES"
	EnvLogLevel              = "PRODUCTSUMMARY_LOG_LEVEL"
	EnvLogFormat             = "PRODUCTSUMMARY_LOG_FORMAT"
	EnvLogFile               = "PRODUCTSUMMARY_LOG_FILE"
	EnvOutputFormat          = "PRODUCTSUMMARY_OUTPUT_FORMAT"
)

// LoadDotEnv loads KEY=VALUE pairs from files (".env" when none are given)
// into the process environment. Variables already set are kept and missing
// files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg with PRODUCTSUMMARY_* variables.
func ApplyEnv(cfg *Config) error {
	strs := []struct {
		key string
		dst *string
	}{
		{EnvCasesBackend, &cfg.Backend.Cases},
		{EnvProductsBackend, &cfg.Backend.Products},
		{EnvHTTPURL, &cfg.Backend.HTTPURL},
		{EnvGRPCAddr, &cfg.Backend.GRPCAddr},
		{EnvPostgresDSN, &cfg.Backend.PostgresDSN},
		{EnvFixtureFile, &cfg.Backend.FixtureFile},
		{EnvLogLevel, &cfg.Logging.Level},
		{EnvLogFormat, &cfg.Logging.Format},
		{EnvLogFile, &cfg.Logging.File},
		{EnvOutputFormat, &cfg.Output.DefaultFormat},
	}
	for _, s := range strs {
		if v, ok := os.LookupEnv(s.key); ok && v != "" {
			*s.dst = v
		}
	}

	if v := os.Getenv(EnvRequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRequestTimeout, err)
		}
		cfg.Backend.RequestTimeout = d
	}
	if v := os.Getenv(EnvDiscardStaleResponses); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDiscardStaleResponses, err)
		}
		cfg.Loader.DiscardStaleResponses = b
	}
	return nil
}
