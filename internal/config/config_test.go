package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every PRODUCTSUMMARY_* variable for the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		EnvConfig, EnvCasesBackend, EnvProductsBackend, EnvHTTPURL, EnvGRPCAddr,
		EnvPostgresDSN, EnvFixtureFile, EnvRequestTimeout, EnvDiscardStaleResponses,
		EnvLogLevel, EnvLogFormat, EnvLogFile, EnvOutputFormat,
	} {
		t.Setenv(k, "")
	}
	t.Setenv(EnvHome, t.TempDir())
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, KindFixture, cfg.Backend.Cases)
	assert.Equal(t, KindFixture, cfg.Backend.Products)
	assert.False(t, cfg.Loader.DiscardStaleResponses)
	assert.Equal(t, 10*time.Second, cfg.Backend.RequestTimeout)
}

func TestLoad(t *testing.T) {
	t.Run("missing file uses defaults", func(t *testing.T) {
		clearEnv(t)
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Empty(t, cfg.Path())
		assert.Equal(t, KindFixture, cfg.Backend.Cases)
	})

	t.Run("file then env", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
backend:
  products: grpc
  grpc_addr: localhost:9000
logging:
  level: warn
`), 0600))
		t.Setenv(EnvLogLevel, "trace")
		t.Setenv(EnvDiscardStaleResponses, "true")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, path, cfg.Path())
		assert.Equal(t, KindGRPC, cfg.Backend.Products)
		assert.Equal(t, "localhost:9000", cfg.Backend.GRPCAddr)
		assert.Equal(t, "trace", cfg.Logging.Level)
		assert.True(t, cfg.Loader.DiscardStaleResponses)
	})

	t.Run("invalid result", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("backend:\n  cases: http\n"), 0600))
		_, err := Load(path)
		require.ErrorIs(t, err, ErrInvalidConfig)
		assert.Contains(t, err.Error(), "backend.http_url")
	})

	t.Run("bad env value", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvRequestTimeout, "forever")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), EnvRequestTimeout)
	})
}

func TestNewFallsBackOnBrokenFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: [broken"), 0600))
	t.Setenv(EnvConfig, path)
	t.Setenv(EnvLogLevel, "error")

	cfg := New()
	require.NotNil(t, cfg)
	assert.Equal(t, KindFixture, cfg.Backend.Cases)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestResolvePath(t *testing.T) {
	clearEnv(t)
	home := os.Getenv(EnvHome)

	assert.Equal(t, "flag.yaml", ResolvePath("flag.yaml"))
	assert.Equal(t, filepath.Join(home, "config.yaml"), ResolvePath(""))

	t.Setenv(EnvConfig, "env.yaml")
	assert.Equal(t, "env.yaml", ResolvePath(""))
	assert.Equal(t, "flag.yaml", ResolvePath("flag.yaml"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown cases kind", func(c *Config) { c.Backend.Cases = "ldap" }, "backend.cases"},
		{"postgres products rejected", func(c *Config) {
			c.Backend.Products = KindPostgres
		}, "backend.products"},
		{"grpc without addr", func(c *Config) { c.Backend.Products = KindGRPC }, "backend.grpc_addr"},
		{"postgres without dsn", func(c *Config) { c.Backend.Cases = KindPostgres }, "backend.postgres_dsn"},
		{"negative timeout", func(c *Config) { c.Backend.RequestTimeout = -time.Second }, "request_timeout"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad output", func(c *Config) { c.Output.DefaultFormat = "csv" }, "output.default_format"},
		{"valid http", func(c *Config) {
			c.Backend.Cases = KindHTTP
			c.Backend.HTTPURL = "http://x"
		}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("PRODUCTSUMMARY_HTTP_URL=http://from-dotenv\n"), 0600))
	require.NoError(t, os.Unsetenv(EnvHTTPURL))

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "http://from-dotenv", os.Getenv(EnvHTTPURL))

	// Existing values win.
	t.Setenv(EnvHTTPURL, "http://explicit")
	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "http://explicit", os.Getenv(EnvHTTPURL))
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Defaults()
	cfg.Backend.Products = KindHTTP
	cfg.Backend.HTTPURL = "http://crm.local"
	cfg.Backend.RequestTimeout = 2 * time.Second
	cfg.Loader.DiscardStaleResponses = true
	require.NoError(t, cfg.Save(path))
	assert.Equal(t, path, cfg.Path())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
