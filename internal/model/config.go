package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ServerConfig holds settings for the taskflowd HTTP server.
type ServerConfig struct {
	// ListenAddr is the address the API listens on (e.g. ":8080").
	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr"`

	// DBPath is the SQLite database file path.
	DBPath string `mapstructure:"db_path" yaml:"db_path"`
}

// EnrichmentConfig holds settings for the external title-enhancement
// webhook. An empty WebhookURL disables enrichment entirely.
type EnrichmentConfig struct {
	WebhookURL string `mapstructure:"webhook_url" yaml:"webhook_url"`

	// Token is an optional bearer token for the webhook. Prefer storing
	// it in the system keyring; this field is a fallback for setups
	// without one.
	Token string `mapstructure:"token" yaml:"token"`
}

// ClientConfig holds settings for the taskflow terminal client.
type ClientConfig struct {
	// ServerURL is the base URL of the taskflowd API.
	ServerURL string `mapstructure:"server_url" yaml:"server_url"`

	// Owner is the user identity tasks are created under.
	Owner string `mapstructure:"owner" yaml:"owner"`
}

// AppConfig is the top-level application configuration shared by the
// server and the terminal client.
type AppConfig struct {
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Enrichment EnrichmentConfig `mapstructure:"enrichment" yaml:"enrichment"`
	Client     ClientConfig     `mapstructure:"client" yaml:"client"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/taskflow/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "taskflow", "config.yaml")
}

// defaultDBPath places the database next to the config file.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "taskflow.db")
	}
	return filepath.Join(home, ".config", "taskflow", "taskflow.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			ListenAddr: ":8080",
			DBPath:     defaultDBPath(),
		},
		Client: ClientConfig{
			ServerURL: "http://localhost:8080",
			Owner:     "local_user",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("server.listen_addr", ":8080")
	v.SetDefault("server.db_path", defaultDBPath())
	v.SetDefault("client.server_url", "http://localhost:8080")
	v.SetDefault("client.owner", "local_user")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("server", cfg.Server)
	v.Set("enrichment", cfg.Enrichment)
	v.Set("client", cfg.Client)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
