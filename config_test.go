package toolmeta

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SITE_URL", "")
	t.Setenv("TOOLMETA_SITE_URL", "")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSiteURL, cfg.URL)
	assert.Equal(t, "UtilityKit", cfg.Name)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, "/og-image.png", cfg.DefaultImage)
	assert.Equal(t, 120, cfg.RateLimitRequests)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.RegistryPath)
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("SITE_URL", "")
	t.Setenv("TOOLMETA_SITE_URL", "")

	path := filepath.Join(t.TempDir(), "toolmeta.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
site:
  url: https://tools.example.test/
  name: Example Tools
  twitter_handle: "@example"
server:
  addr: ":8080"
registry:
  path: data/registry.yaml
  watch: true
ratelimit:
  requests: 10
  window: 30s
log:
  format: console
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://tools.example.test", cfg.URL)
	assert.Equal(t, "Example Tools", cfg.Name)
	assert.Equal(t, "@example", cfg.TwitterHandle)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "data/registry.yaml", cfg.RegistryPath)
	assert.True(t, cfg.RegistryWatch)
	assert.Equal(t, 10, cfg.RateLimitRequests)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("TOOLMETA_SITE_URL", "")
	t.Setenv("SITE_URL", "https://legacy.example.test")
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "https://legacy.example.test", cfg.URL)

	t.Setenv("TOOLMETA_SITE_URL", "https://new.example.test")
	t.Setenv("TOOLMETA_SERVER_ADDR", ":9000")
	cfg, err = LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "https://new.example.test", cfg.URL)
	assert.Equal(t, ":9000", cfg.Addr)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Setenv("TOOLMETA_SITE_URL", "")
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	t.Setenv("SITE_URL", "ftp://example.test")
	_, err = LoadConfig("")
	require.Error(t, err)
}

func TestSiteConfigValidate(t *testing.T) {
	tests := []struct {
		url string
		ok  bool
	}{
		{"https://www.utilitykit.app", true},
		{"http://localhost:3000", true},
		{"www.utilitykit.app", false},
		{"https://www.utilitykit.app/base", false},
		{"https://www.utilitykit.app?x=1", false},
	}
	for _, tt := range tests {
		cfg := SiteConfig{URL: tt.url}
		cfg.setDefaults()
		err := cfg.Validate()
		if tt.ok {
			assert.NoError(t, err, tt.url)
		} else {
			assert.Error(t, err, tt.url)
		}
	}
}

func TestNewLogger(t *testing.T) {
	l, err := NewLogger("debug", "console")
	require.NoError(t, err)
	assert.NotNil(t, l)

	_, err = NewLogger("loud", "json")
	require.Error(t, err)
}
