package clientcli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clouddrop/clouddrop/clientcli"
)

func TestConfigFile_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".clouddrop", "config.yaml")

	cfg := &clientcli.ConfigFile{
		Profiles: []clientcli.Profile{
			{Name: "home", Endpoint: "http://localhost:8080", Secret: "home-secret", Default: true},
			{Name: "remote", Endpoint: "https://drop.example.com", Secret: "remote-secret"},
		},
	}
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := clientcli.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Profiles, loaded.Profiles)
}

func TestConfigFile_GetProfile(t *testing.T) {
	cfg := &clientcli.ConfigFile{
		Profiles: []clientcli.Profile{
			{Name: "first", Endpoint: "http://a"},
			{Name: "second", Endpoint: "http://b", Default: true},
		},
	}

	t.Run("by name", func(t *testing.T) {
		p, err := cfg.GetProfile("first")
		require.NoError(t, err)
		assert.Equal(t, "first", p.Name)
	})

	t.Run("empty name returns default", func(t *testing.T) {
		p, err := cfg.GetProfile("")
		require.NoError(t, err)
		assert.Equal(t, "second", p.Name)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := cfg.GetProfile("nope")
		assert.ErrorIs(t, err, clientcli.ErrProfileNotFound)
	})

	t.Run("no profiles", func(t *testing.T) {
		empty := &clientcli.ConfigFile{}
		_, err := empty.GetProfile("")
		assert.ErrorIs(t, err, clientcli.ErrNoProfiles)
	})
}

func TestConfigFile_GetDefaultProfile_FallsBackToFirst(t *testing.T) {
	cfg := &clientcli.ConfigFile{
		Profiles: []clientcli.Profile{
			{Name: "only", Endpoint: "http://a"},
		},
	}

	p, err := cfg.GetDefaultProfile()
	require.NoError(t, err)
	assert.Equal(t, "only", p.Name)
}

func TestConfigFile_AddUpdateRemove(t *testing.T) {
	cfg := &clientcli.ConfigFile{}

	require.NoError(t, cfg.AddProfile(clientcli.Profile{Name: "home", Endpoint: "http://a"}))
	assert.ErrorIs(t, cfg.AddProfile(clientcli.Profile{Name: "home"}), clientcli.ErrProfileExists)

	require.NoError(t, cfg.UpdateProfile(clientcli.Profile{Name: "home", Endpoint: "http://b"}))
	p, err := cfg.GetProfile("home")
	require.NoError(t, err)
	assert.Equal(t, "http://b", p.Endpoint)

	assert.ErrorIs(t, cfg.UpdateProfile(clientcli.Profile{Name: "nope"}), clientcli.ErrProfileNotFound)

	require.NoError(t, cfg.RemoveProfile("home"))
	assert.ErrorIs(t, cfg.RemoveProfile("home"), clientcli.ErrProfileNotFound)
}

func TestConfigFile_SetDefault(t *testing.T) {
	cfg := &clientcli.ConfigFile{
		Profiles: []clientcli.Profile{
			{Name: "a", Default: true},
			{Name: "b"},
		},
	}

	require.NoError(t, cfg.SetDefault("b"))

	assert.False(t, cfg.Profiles[0].Default)
	assert.True(t, cfg.Profiles[1].Default)

	assert.ErrorIs(t, cfg.SetDefault("nope"), clientcli.ErrProfileNotFound)
}

func TestMergeConfig(t *testing.T) {
	base := &clientcli.Config{Endpoint: "http://base", Secret: "base-secret"}
	override := &clientcli.Config{Secret: "override-secret"}

	merged := clientcli.MergeConfig(base, override, nil)

	assert.Equal(t, "http://base", merged.Endpoint, "empty values do not override")
	assert.Equal(t, "override-secret", merged.Secret)
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := (&clientcli.Config{}).WithDefaults()
	assert.Equal(t, clientcli.DefaultEndpoint, cfg.Endpoint)

	custom := (&clientcli.Config{Endpoint: "http://custom"}).WithDefaults()
	assert.Equal(t, "http://custom", custom.Endpoint)
}

func TestConfig_ValidateWithAuth(t *testing.T) {
	assert.ErrorIs(t, (&clientcli.Config{}).ValidateWithAuth(), clientcli.ErrSecretRequired)
	assert.NoError(t, (&clientcli.Config{Secret: "s"}).ValidateWithAuth())
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("CLOUDDROP_ENDPOINT", "http://env")
	t.Setenv("CLOUDDROP_SECRET", "env-secret")

	cfg := clientcli.ConfigFromEnv()
	assert.Equal(t, "http://env", cfg.Endpoint)
	assert.Equal(t, "env-secret", cfg.Secret)
}
