package web

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestServerConfigFromEnv(t *testing.T) {
	t.Setenv(EnvListenAddr, "")
	t.Setenv(EnvDevMode, "")
	t.Setenv(EnvPublicURL, "")

	cfg, err := DefaultServerConfigFromEnv(":8080")
	require.NoError(t, err)
	require.Equal(t, ServerConfig{ListenAddr: ":8080"}, cfg)

	t.Setenv(EnvListenAddr, "127.0.0.1:9000")
	t.Setenv(EnvDevMode, "true")
	t.Setenv(EnvPublicURL, "https://obs.example.com")
	cfg, err = DefaultServerConfigFromEnv(":8080")
	require.NoError(t, err)
	require.Equal(t, ServerConfig{ListenAddr: "127.0.0.1:9000", DevMode: true, PublicURL: "https://obs.example.com"}, cfg)

	t.Setenv(EnvDevMode, "sometimes")
	_, err = DefaultServerConfigFromEnv(":8080")
	require.Error(t, err)
}

func TestLoadServerConfig(t *testing.T) {
	t.Setenv(EnvListenAddr, "")
	t.Setenv(EnvDevMode, "")
	t.Setenv(EnvPublicURL, "")

	path := filepath.Join(t.TempDir(), "bannercast.yml")
	require.NoError(t, os.WriteFile(path, []byte("dev: true\npublicURL: http://studio.lan:8080\n"), 0o644))

	cfg, err := LoadServerConfig(path, ":8080")
	require.NoError(t, err)
	require.Equal(t, ServerConfig{ListenAddr: ":8080", DevMode: true, PublicURL: "http://studio.lan:8080"}, cfg)

	// environment wins over the file
	t.Setenv(EnvListenAddr, ":9999")
	cfg, err = LoadServerConfig(path, ":8080")
	require.NoError(t, err)
	require.Equal(t, ":9999", cfg.ListenAddr)

	require.NoError(t, os.WriteFile(path, []byte("listne: typo\n"), 0o644))
	_, err = LoadServerConfig(path, ":8080")
	require.Error(t, err)

	_, err = LoadServerConfig(filepath.Join(t.TempDir(), "missing.yml"), ":8080")
	require.Error(t, err)
}
