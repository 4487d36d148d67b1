// Package config provides application configuration management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	Vault  VaultConfig
	Chat   ChatConfig
	Log    LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
}

// VaultConfig holds secret storage settings.
type VaultConfig struct {
	// DataDir holds the settings database and, unless overridden,
	// the key material.
	DataDir string
	// Key is an explicit 64-character hex encryption key. When set it
	// takes precedence over the passphrase and key file.
	Key string
	// Passphrase derives the key with Argon2id when no explicit key
	// is configured.
	Passphrase string
	// KeyFile stores the generated or derived key material. Defaults
	// to vault.key inside DataDir.
	KeyFile string
}

// ChatConfig holds streamed completion settings.
type ChatConfig struct {
	APIKey string
	Model  string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from the environment with the ENVDECK prefix,
// layered over an optional YAML config file. ENVDECK_CONFIG names the file
// explicitly; otherwise config.yaml inside the data directory is used when
// present. Environment variables override file values.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("envdeck")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path := os.Getenv("ENVDECK_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.AddConfigPath(defaultDataDir())
		v.SetConfigType("yaml")
		v.SetConfigName("config")
		// Load config file if it exists.
		_ = v.ReadInConfig()
	}

	cfg := &Config{}

	cfg.Server = ServerConfig{
		Host:           v.GetString("server.host"),
		Port:           v.GetInt("server.port"),
		ReadTimeout:    v.GetDuration("server.read_timeout"),
		IdleTimeout:    v.GetDuration("server.idle_timeout"),
		RequestTimeout: v.GetDuration("server.request_timeout"),
	}

	cfg.Vault = VaultConfig{
		DataDir:    v.GetString("data.dir"),
		Key:        v.GetString("encryption.key"),
		Passphrase: v.GetString("encryption.passphrase"),
		KeyFile:    v.GetString("encryption.key_file"),
	}
	if cfg.Vault.KeyFile == "" {
		cfg.Vault.KeyFile = filepath.Join(cfg.Vault.DataDir, "vault.key")
	}

	cfg.Chat = ChatConfig{
		APIKey: v.GetString("chat.api_key"),
		Model:  v.GetString("chat.model"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.request_timeout", 30*time.Second)

	v.SetDefault("data.dir", defaultDataDir())

	v.SetDefault("chat.model", "gemini-2.0-flash")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// defaultDataDir places application data under the user config
// directory, falling back to a dotted directory in the working
// directory when it cannot be determined.
func defaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".envdeck"
	}
	return filepath.Join(base, "envdeck")
}

// Validate checks that all required configuration is present and
// consistent.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Vault.DataDir == "" {
		return fmt.Errorf("data directory is required")
	}
	if c.Vault.Key != "" {
		if len(c.Vault.Key) != 64 {
			return fmt.Errorf("ENVDECK_ENCRYPTION_KEY must be 64 hex characters (got %d). Generate with: openssl rand -hex 32", len(c.Vault.Key))
		}
		if c.Vault.Passphrase != "" {
			return fmt.Errorf("ENVDECK_ENCRYPTION_KEY and ENVDECK_ENCRYPTION_PASSPHRASE are mutually exclusive")
		}
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// StorePath returns the settings database path inside the data
// directory.
func (c *Config) StorePath() string {
	return filepath.Join(c.Vault.DataDir, "settings.db")
}

// ServerAddr returns the full server address.
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
