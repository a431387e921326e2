package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

const (
	envPrefix       = "TVTOOLS"
	defaultDebounce = "10s"
)

// Config holds the persisted tvtools settings
type Config struct {
	TMDB    TMDBConfig    `toml:"tmdb" mapstructure:"tmdb"`
	Watch   WatchConfig   `toml:"watch" mapstructure:"watch"`
	Logging LoggingConfig `toml:"logging" mapstructure:"logging"`
}

// TMDBConfig holds the metadata service credentials
type TMDBConfig struct {
	Key      string `toml:"key" mapstructure:"key"`
	Token    string `toml:"token" mapstructure:"token"`
	Language string `toml:"language" mapstructure:"language"`
}

// WatchConfig drives tvtoolsd
type WatchConfig struct {
	Paths    []string `toml:"paths" mapstructure:"paths"`
	Debounce string   `toml:"debounce" mapstructure:"debounce"` // Go duration, e.g. "10s"
	Options  []string `toml:"options" mapstructure:"options"`   // same names as -options:
}

type LoggingConfig struct {
	Level string `toml:"level" mapstructure:"level"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		TMDB: TMDBConfig{
			Language: "en-US",
		},
		Watch: WatchConfig{
			Paths:    []string{},
			Debounce: defaultDebounce,
			Options:  []string{},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ConfigPath returns the path to the settings file
func ConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(configDir, "tvtools", "config.toml"), nil
}

// Load reads the settings file from its default location
func Load() (*Config, error) {
	configFile, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(configFile)
}

// LoadFile reads settings from path on top of the defaults. A missing file
// yields the defaults; keys unknown to Config are ignored and keys absent from
// the file keep their default value. TVTOOLS_TMDB_KEY and TVTOOLS_TMDB_TOKEN
// override the file.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range []string{"tmdb.key", "tmdb.token"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return cfg, nil
}

// Save writes the settings to their default location
func Save(cfg *Config) error {
	configFile, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(cfg, configFile)
}

// SaveFile writes the settings as TOML, creating the parent directory
func SaveFile(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := cfg.WriteTOML(f); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// WriteTOML encodes the settings to w
func (c *Config) WriteTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Redacted returns a copy with credentials masked, for display
func (c *Config) Redacted() *Config {
	out := *c
	out.TMDB.Key = mask(c.TMDB.Key)
	out.TMDB.Token = mask(c.TMDB.Token)
	return &out
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(secret)-4) + secret[len(secret)-4:]
}

// HasTMDBCredentials reports whether a key or a token is configured
func (c *Config) HasTMDBCredentials() bool {
	return c.TMDB.Key != "" || c.TMDB.Token != ""
}

// SetTMDBCredentials stores the non-empty values of key and token
func (c *Config) SetTMDBCredentials(key, token string) error {
	if key == "" && token == "" {
		return fmt.Errorf("a TMDB key or token is required")
	}
	if key != "" {
		c.TMDB.Key = key
	}
	if token != "" {
		c.TMDB.Token = token
	}
	return nil
}

// DebounceDuration parses watch.debounce, falling back to the default
func (c *Config) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(defaultDebounce)
	}
	return d
}

// WatchOptions builds the run options used by the daemon
func (c *Config) WatchOptions() (Options, []string) {
	return DefaultOptions().WithFlags(c.Watch.Options)
}

// Validate checks the settings needed by the daemon
func (c *Config) Validate() error {
	if c.Watch.Debounce != "" {
		if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
			return fmt.Errorf("invalid watch debounce %q: %w", c.Watch.Debounce, err)
		}
	}

	if len(c.Watch.Paths) == 0 {
		return fmt.Errorf("no watch paths configured")
	}

	for _, path := range c.Watch.Paths {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("watch path %s: %w", path, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("watch path %s is not a directory", path)
		}
	}

	if _, unknown := c.WatchOptions(); len(unknown) > 0 {
		return fmt.Errorf("unknown watch options: %s", strings.Join(unknown, ", "))
	}

	return nil
}
