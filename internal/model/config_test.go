package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.ListenAddr)
	assert.Equal(t, "http://localhost:8080", cfg.Client.ServerURL)
	assert.Equal(t, "local_user", cfg.Client.Owner)
	assert.Empty(t, cfg.Enrichment.WebhookURL)
}

func TestSaveAndLoadConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	want := &AppConfig{
		Server: ServerConfig{
			ListenAddr: ":9090",
			DBPath:     "/tmp/tasks.db",
		},
		Enrichment: EnrichmentConfig{
			WebhookURL: "https://hooks.example.com/enhance",
		},
		Client: ClientConfig{
			ServerURL: "http://localhost:9090",
			Owner:     "alice",
		},
	}

	require.NoError(t, SaveConfig(path, want))

	got, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, want.Server, got.Server)
	assert.Equal(t, want.Enrichment, got.Enrichment)
	assert.Equal(t, want.Client, got.Client)
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  listen_addr: \":7070\"\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.ListenAddr)
	assert.Equal(t, "local_user", cfg.Client.Owner)
}
