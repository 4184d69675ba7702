package toolmeta

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/eringen/toolmeta/registry"
)

// DefaultSiteURL is the production origin used when no base URL is configured.
const DefaultSiteURL = "https://www.utilitykit.app"

// SiteConfig holds all configuration for a toolmeta server.
type SiteConfig struct {
	Name          string // Site name (default "UtilityKit")
	URL           string // Canonical origin (default DefaultSiteURL)
	DefaultImage  string // Default Open Graph image path or URL (default "/og-image.png")
	TwitterHandle string // Twitter/X handle for twitter:site
	OGImageSource string // Optional source image scaled into the default OG card

	Addr string // Listen address (default ":3000")

	RegistryPath   string // YAML registry file; empty means the embedded registry
	RegistryDBPath string // SQLite snapshot, used when RegistryPath is empty
	RegistryWatch  bool   // Reload RegistryPath on change

	LogLevel  string // zap level (default "info")
	LogFormat string // "json" or "console" (default "json")

	RateLimitRequests int           // API requests per IP per window (default 120)
	RateLimitWindow   time.Duration // default 1min

	MetadataCacheSize int // Memoized metadata results kept per registry generation (default 4096)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "UtilityKit"
	}
	if c.URL == "" {
		c.URL = DefaultSiteURL
	}
	c.URL = strings.TrimRight(strings.TrimSpace(c.URL), "/")
	if c.DefaultImage == "" {
		c.DefaultImage = "/og-image.png"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "json"
	}
	if c.RateLimitRequests == 0 {
		c.RateLimitRequests = 120
	}
	if c.RateLimitWindow == 0 {
		c.RateLimitWindow = time.Minute
	}
	if c.MetadataCacheSize == 0 {
		c.MetadataCacheSize = 4096
	}
}

// Validate checks the values setDefaults cannot repair.
func (c SiteConfig) Validate() error {
	u, err := url.Parse(c.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("toolmeta: site.url %q must be an absolute http(s) origin", c.URL)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("toolmeta: site.url %q must not carry a path, query or fragment", c.URL)
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("toolmeta: log.format %q must be json or console", c.LogFormat)
	}
	if c.RateLimitRequests < 0 || c.RateLimitWindow < 0 {
		return errors.New("toolmeta: ratelimit values must not be negative")
	}
	return nil
}

type fileConfig struct {
	Site struct {
		URL           string `mapstructure:"url"`
		Name          string `mapstructure:"name"`
		DefaultImage  string `mapstructure:"default_image"`
		TwitterHandle string `mapstructure:"twitter_handle"`
		OGImageSource string `mapstructure:"og_image_source"`
	} `mapstructure:"site"`
	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`
	Registry struct {
		Path   string `mapstructure:"path"`
		DBPath string `mapstructure:"db_path"`
		Watch  bool   `mapstructure:"watch"`
	} `mapstructure:"registry"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
	RateLimit struct {
		Requests int           `mapstructure:"requests"`
		Window   time.Duration `mapstructure:"window"`
	} `mapstructure:"ratelimit"`
	Cache struct {
		Size int `mapstructure:"size"`
	} `mapstructure:"cache"`
}

// LoadConfig reads configuration from an optional YAML file and the
// environment. Environment keys use the TOOLMETA_ prefix with dots replaced
// by underscores (TOOLMETA_SITE_URL); SITE_URL is accepted for the base URL.
func LoadConfig(path string) (SiteConfig, error) {
	v := viper.New()

	v.SetDefault("site.url", DefaultSiteURL)
	v.SetDefault("site.name", "UtilityKit")
	v.SetDefault("site.default_image", "/og-image.png")
	v.SetDefault("site.twitter_handle", "")
	v.SetDefault("site.og_image_source", "")
	v.SetDefault("server.addr", ":3000")
	v.SetDefault("registry.path", "")
	v.SetDefault("registry.db_path", "")
	v.SetDefault("registry.watch", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("ratelimit.requests", 120)
	v.SetDefault("ratelimit.window", time.Minute)
	v.SetDefault("cache.size", 4096)

	v.SetEnvPrefix("TOOLMETA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("site.url", "TOOLMETA_SITE_URL", "SITE_URL"); err != nil {
		return SiteConfig{}, fmt.Errorf("toolmeta: bind env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return SiteConfig{}, fmt.Errorf("toolmeta: read config %q: %w", path, err)
		}
	}

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return SiteConfig{}, fmt.Errorf("toolmeta: decode config: %w", err)
	}

	cfg := SiteConfig{
		Name:              fc.Site.Name,
		URL:               fc.Site.URL,
		DefaultImage:      fc.Site.DefaultImage,
		TwitterHandle:     fc.Site.TwitterHandle,
		OGImageSource:     fc.Site.OGImageSource,
		Addr:              fc.Server.Addr,
		RegistryPath:      fc.Registry.Path,
		RegistryDBPath:    fc.Registry.DBPath,
		RegistryWatch:     fc.Registry.Watch,
		LogLevel:          fc.Log.Level,
		LogFormat:         fc.Log.Format,
		RateLimitRequests: fc.RateLimit.Requests,
		RateLimitWindow:   fc.RateLimit.Window,
		MetadataCacheSize: fc.Cache.Size,
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return SiteConfig{}, err
	}
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithLogger replaces the logger built from LogLevel and LogFormat.
func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithRegistry serves h instead of loading a registry from the configured source.
func WithRegistry(h *registry.Handle) Option {
	return func(a *App) {
		a.Registry = h
	}
}

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}
