package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clouddrop/clouddrop/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, int64(0), cfg.Server.MaxUploadSize)
	assert.Equal(t, 30, cfg.Service.CleanupTimeout)
	assert.Equal(t, "./data", cfg.Storage.Path)
	assert.Equal(t, "clouddrop.db", cfg.Index.DSN)
	assert.Equal(t, "clouddrop_objects", cfg.Index.Table)
	assert.Empty(t, cfg.Auth.Secret, "secret has no default")
	assert.True(t, cfg.CORS.Enabled)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 86400, cfg.CORS.MaxAge)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9090
auth:
  secret: from-file
storage:
  path: /srv/clouddrop
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))

	cfg, err := config.Load([]string{file}, nil)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "from-file", cfg.Auth.Secret)
	assert.Equal(t, "/srv/clouddrop", cfg.Storage.Path)
	assert.Equal(t, "clouddrop.db", cfg.Index.DSN, "unset keys keep defaults")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("server:\n  port: 9090\n"), 0o644))

	t.Setenv("CLOUDDROP_SERVER_PORT", "7070")
	t.Setenv("CLOUDDROP_AUTH_SECRET", "from-env")

	cfg, err := config.Load([]string{file}, nil)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Auth.Secret)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("CLOUDDROP_SERVER_PORT", "7070")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 0, "")
	flags.String("storage-path", "", "")
	require.NoError(t, flags.Parse([]string{"--port=6060", "--storage-path=/tmp/files"}))

	cfg, err := config.Load(nil, flags)
	require.NoError(t, err)

	assert.Equal(t, 6060, cfg.Server.Port)
	assert.Equal(t, "/tmp/files", cfg.Storage.Path)
}

func TestLoad_ValidationFailure(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad log level", env: map[string]string{"CLOUDDROP_LOG_LEVEL": "loud"}},
		{name: "port out of range", env: map[string]string{"CLOUDDROP_SERVER_PORT": "99999"}},
		{name: "bad table name", env: map[string]string{"CLOUDDROP_INDEX_TABLE": "Objects; DROP"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.Load(nil, nil)
			assert.Error(t, err)
		})
	}
}

func TestWithContext_FromContext(t *testing.T) {
	cfg := &config.Config{}
	ctx := config.WithContext(context.Background(), cfg)

	got, err := config.FromContext(ctx)
	require.NoError(t, err)
	assert.Same(t, cfg, got)
}

func TestFromContext_Missing(t *testing.T) {
	_, err := config.FromContext(context.Background())
	assert.Error(t, err)
}
