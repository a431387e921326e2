package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.TMDB.Language != "en-US" {
		t.Errorf("expected language 'en-US', got '%s'", cfg.TMDB.Language)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got '%s'", cfg.Logging.Level)
	}
	if cfg.DebounceDuration() != 10*time.Second {
		t.Errorf("expected 10s debounce, got %s", cfg.DebounceDuration())
	}
	if cfg.HasTMDBCredentials() {
		t.Error("expected no credentials by default")
	}
}

func TestLoadFileMissing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFileMergesKnownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[tmdb]
key = "abc123"

[watch]
paths = ["/srv/tv/incoming"]

[plex]
url = "http://localhost:32400"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "abc123", cfg.TMDB.Key)
	assert.Equal(t, "en-US", cfg.TMDB.Language, "missing keys keep their default")
	assert.Equal(t, []string{"/srv/tv/incoming"}, cfg.Watch.Paths)
	assert.Equal(t, "10s", cfg.Watch.Debounce)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFileEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[tmdb]\nkey = \"from-file\"\n"), 0644))

	t.Setenv("TVTOOLS_TMDB_KEY", "from-env")
	t.Setenv("TVTOOLS_TMDB_TOKEN", "bearer-env")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.TMDB.Key)
	assert.Equal(t, "bearer-env", cfg.TMDB.Token)
}

func TestLoadFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[tmdb\nkey = "), 0644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestSaveFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := DefaultConfig()
	require.NoError(t, cfg.SetTMDBCredentials("key-1", ""))
	cfg.Watch.Paths = []string{"/srv/tv"}
	cfg.Watch.Options = []string{"print"}
	require.NoError(t, SaveFile(cfg, path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSetTMDBCredentials(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.SetTMDBCredentials("", ""))

	require.NoError(t, cfg.SetTMDBCredentials("", "tok"))
	assert.Equal(t, "tok", cfg.TMDB.Token)
	assert.Empty(t, cfg.TMDB.Key)
	assert.True(t, cfg.HasTMDBCredentials())
}

func TestRedacted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TMDB.Key = "0123456789"
	cfg.TMDB.Token = "abc"

	redacted := cfg.Redacted()
	assert.Equal(t, "******6789", redacted.TMDB.Key)
	assert.Equal(t, "****", redacted.TMDB.Token)
	assert.Equal(t, "0123456789", cfg.TMDB.Key, "original must be untouched")

	var buf bytes.Buffer
	require.NoError(t, redacted.WriteTOML(&buf))
	assert.Contains(t, buf.String(), "******6789")
	assert.NotContains(t, buf.String(), "0123456789")
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	assert.Error(t, cfg.Validate(), "no watch paths")

	cfg.Watch.Paths = []string{dir}
	assert.NoError(t, cfg.Validate())

	cfg.Watch.Debounce = "soon"
	assert.Error(t, cfg.Validate())
	assert.Equal(t, 10*time.Second, cfg.DebounceDuration())

	cfg.Watch.Debounce = "2s"
	cfg.Watch.Options = []string{"print", "turbo"}
	assert.Error(t, cfg.Validate())

	cfg.Watch.Options = []string{"print"}
	cfg.Watch.Paths = []string{filepath.Join(dir, "missing")}
	assert.Error(t, cfg.Validate())
}
