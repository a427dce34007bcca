package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "catalogdash/internal/errors"
)

// isolate runs the test from an empty directory so no stray config file is
// picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(originalDir) })
	t.Setenv(FileEnv, "")
	return dir
}

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "default configuration with no env vars",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, 1048576, cfg.Server.MaxHeaderBytes)
				assert.Equal(t, ":8080", cfg.Server.Addr())

				assert.Equal(t, []string{"http://localhost:8080"}, cfg.Security.AllowedOrigins)
				assert.True(t, cfg.Security.RateLimit.Enabled)

				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "console", cfg.Logging.Output)

				assert.Equal(t, int64(64<<20), cfg.Datasets.MaxUploadBytes)
				assert.Equal(t, 16, cfg.Datasets.MaxDatasets)
				assert.Equal(t, 5, cfg.Datasets.PreviewRows)
				assert.Equal(t, 100, cfg.Datasets.MaxPreviewRows)

				assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
				assert.Equal(t, "prometheus", cfg.Telemetry.MetricExporter)
				assert.Equal(t, AppName, cfg.Telemetry.ServiceName)

				assert.Equal(t, 30*time.Second, cfg.WebSocket.PingPeriod)
			},
		},
		{
			name: "custom environment variables",
			env: map[string]string{
				"CATALOG_SERVER_PORT":                "9090",
				"CATALOG_SERVER_READ_TIMEOUT":        "30s",
				"CATALOG_SECURITY_ALLOWED_ORIGINS":   "http://example.com,https://example.com",
				"CATALOG_LOGGING_LEVEL":              "debug",
				"CATALOG_LOGGING_FORMAT":             "text",
				"CATALOG_DATASETS_MAX_DATASETS":      "3",
				"CATALOG_TELEMETRY_TRACE_EXPORTER":   "stdout",
				"CATALOG_WEBSOCKET_READ_BUFFER_SIZE": "2048",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, []string{"http://example.com", "https://example.com"}, cfg.Security.AllowedOrigins)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format) // validate() forces json
				assert.Equal(t, 3, cfg.Datasets.MaxDatasets)
				assert.Equal(t, "stdout", cfg.Telemetry.TraceExporter)
				assert.Equal(t, 2048, cfg.WebSocket.ReadBufferSize)
			},
		},
		{
			name:    "invalid port number",
			env:     map[string]string{"CATALOG_SERVER_PORT": "99999"},
			wantErr: true,
		},
		{
			name:    "zero port number",
			env:     map[string]string{"CATALOG_SERVER_PORT": "0"},
			wantErr: true,
		},
		{
			name:    "negative timeout",
			env:     map[string]string{"CATALOG_SERVER_READ_TIMEOUT": "-5s"},
			wantErr: true,
		},
		{
			name:    "unknown logging output",
			env:     map[string]string{"CATALOG_LOGGING_OUTPUT": "syslog"},
			wantErr: true,
		},
		{
			name:    "preview rows above maximum",
			env:     map[string]string{"CATALOG_DATASETS_PREVIEW_ROWS": "500"},
			wantErr: true,
		},
		{
			name:    "unknown trace exporter",
			env:     map[string]string{"CATALOG_TELEMETRY_TRACE_EXPORTER": "jaeger"},
			wantErr: true,
		},
		{
			name:    "sample ratio out of range",
			env:     map[string]string{"CATALOG_TELEMETRY_SAMPLE_RATIO": "1.5"},
			wantErr: true,
		},
		{
			name:    "malformed env value",
			env:     map[string]string{"CATALOG_SERVER_PORT": "eighty"},
			wantErr: true,
		},
		{
			name: "config file with environment override",
			env: map[string]string{
				"CATALOG_SERVER_PORT":   "7070",
				"CATALOG_LOGGING_LEVEL": "warn",
			},
			file: `
server:
  port: 6060
  read_timeout: 20s
logging:
  level: error
datasets:
  preview_rows: 10
security:
  allowed_origins: ["http://file.example.com"]
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)     // from env
				assert.Equal(t, "warn", cfg.Logging.Level) // from env
				assert.Equal(t, 20*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 10, cfg.Datasets.PreviewRows)
				assert.Equal(t, []string{"http://file.example.com"}, cfg.Security.AllowedOrigins)
				assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout) // default kept
			},
		},
		{
			name:    "invalid YAML syntax",
			file:    "invalid: yaml: content: [unclosed",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if tt.file != "" {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(tt.file), 0o644))
			}

			cfg, err := Load()

			if tt.wantErr {
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig), "got %v", err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestLoadExplicitFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("datasets:\n  max_datasets: 2\n"), 0o644))
	t.Setenv(FileEnv, path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Datasets.MaxDatasets)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	t.Setenv(FileEnv, filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeConfig, appErr.Type)
	assert.Contains(t, appErr.Context["path"], "absent.yaml")
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestValidateFileLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Output = "both"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.validate())
	assert.Equal(t, "logs/app.log", cfg.Logging.FilePath)
}
