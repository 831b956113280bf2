package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teilomillet/lmbridge/config"
	"github.com/teilomillet/lmbridge/logging"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := config.NewConfig()

	assert.Empty(t, cfg.ServerURL)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
	assert.Equal(t, logging.LogLevelWarn, cfg.LogLevel)
	assert.ErrorIs(t, cfg.Validate(), config.ErrMissingServerURL)
}

func TestFromMap(t *testing.T) {
	cfg, err := config.FromMap(map[string]string{
		"server_url": "http://localhost:1234/",
		"model":      "m1",
		"api_key":    "secret",
		"timeout":    "5s",
		"log_level":  "debug",
		"unused":     "ignored",
	})
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:1234/", cfg.ServerURL)
	assert.Equal(t, "m1", cfg.Model)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, logging.LogLevelDebug, cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestFromMapInvalidValues(t *testing.T) {
	_, err := config.FromMap(map[string]string{"server_url": "http://x", "timeout": "soon"})
	assert.Error(t, err)

	_, err = config.FromMap(map[string]string{"server_url": "http://x", "log_level": "chatty"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name     string
		settings map[string]string
		wantErr  bool
	}{
		{name: "absent server url", settings: map[string]string{}, wantErr: true},
		{name: "empty server url", settings: map[string]string{"server_url": ""}, wantErr: true},
		{name: "blank server url", settings: map[string]string{"server_url": "   "}, wantErr: true},
		{name: "not a url", settings: map[string]string{"server_url": "no scheme here"}, wantErr: true},
		{name: "zero timeout", settings: map[string]string{"server_url": "http://x", "timeout": "0s"}, wantErr: true},
		{name: "minimal", settings: map[string]string{"server_url": "http://127.0.0.1:1234"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := config.FromMap(tc.settings)
			require.NoError(t, err)

			err = cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("LMSTUDIO_SERVER_URL", "http://lmstudio.local:1234")
	t.Setenv("LMSTUDIO_MODEL", "qwen2-7b")
	t.Setenv("LMSTUDIO_API_KEY", "env-key")
	t.Setenv("LMSTUDIO_TIMEOUT", "90s")
	t.Setenv("LMSTUDIO_LOG_LEVEL", "INFO")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://lmstudio.local:1234", cfg.ServerURL)
	assert.Equal(t, "qwen2-7b", cfg.Model)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.Equal(t, logging.LogLevelInfo, cfg.LogLevel)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lmstudio.yaml")
	content := "server_url: http://localhost:1234\nmodel: m1\ntimeout: 30s\nlog_level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:1234", cfg.ServerURL)
	assert.Equal(t, "m1", cfg.Model)
	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, logging.LogLevelError, cfg.LogLevel)
}

func TestMergeFileKeepsUnsetValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: from-file\n"), 0o600))

	cfg := config.NewConfig()
	config.ApplyOptions(cfg, config.SetServerURL("http://from-env"), config.SetAPIKey("k"))
	require.NoError(t, cfg.MergeFile(path))

	assert.Equal(t, "http://from-env", cfg.ServerURL)
	assert.Equal(t, "from-file", cfg.Model)
	assert.Equal(t, "k", cfg.APIKey)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeout: [not, a, duration]\n"), 0o600))
	_, err = config.LoadFile(path)
	assert.Error(t, err)
}

func TestApplyOptions(t *testing.T) {
	cfg := config.NewConfig()
	config.ApplyOptions(cfg,
		config.SetServerURL("http://localhost:1234"),
		config.SetModel("m2"),
		config.SetAPIKey("secret"),
		config.SetTimeout(10*time.Second),
		config.SetLogLevel(logging.LogLevelDebug),
	)

	assert.Equal(t, "http://localhost:1234", cfg.ServerURL)
	assert.Equal(t, "m2", cfg.Model)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, logging.LogLevelDebug, cfg.LogLevel)

	clone := cfg.Clone()
	clone.Model = "other"
	assert.Equal(t, "m2", cfg.Model)
}
