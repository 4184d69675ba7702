// Package toolmeta serves page metadata for a multilingual tools site. It
// wires the tool registry, the metadata generator and an Echo server that
// exposes resolved metadata, <head> fragments, the inventory report and a
// sitemap with hreflang alternates.
package toolmeta

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/toolmeta/metadata"
	"github.com/eringen/toolmeta/registry"
)

// App is the central toolmeta application. It wires together the registry
// handle, generator, cache, handlers and middleware.
type App struct {
	Config    SiteConfig
	Echo      *echo.Echo
	Registry  *registry.Handle
	Generator *metadata.Generator
	Cache     *MetadataCache
	Logger    *zap.Logger

	limiter      *RateLimiter
	ogImage      []byte
	customRoutes []func(*App)
	stopWatch    context.CancelFunc
	ready        bool
}

// New creates a new App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	a := &App{
		Config: cfg,
		Echo:   e,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Init loads the registry, builds the generator and registers middleware
// and routes. Start calls it; tests call it directly and drive a.Echo.
func (a *App) Init() error {
	if a.ready {
		return nil
	}
	if err := a.Config.Validate(); err != nil {
		return err
	}
	if a.Logger == nil {
		logger, err := NewLogger(a.Config.LogLevel, a.Config.LogFormat)
		if err != nil {
			return err
		}
		a.Logger = logger
	}

	if a.Registry == nil {
		reg, err := LoadRegistry(a.Config)
		if err != nil {
			return err
		}
		a.Registry = registry.NewHandle(reg)
	}
	reg := a.Registry.Load()
	issues := reg.Validate()
	errs, warnings := registry.Count(issues)
	a.Logger.Info("registry.loaded",
		zap.Int("tools", reg.Len()),
		zap.Int("locales", reg.Table().Len()),
		zap.Int("errors", errs),
		zap.Int("warnings", warnings),
	)
	for _, i := range issues {
		if i.Severity == registry.SeverityError {
			a.Logger.Warn("registry.issue", zap.String("issue", i.String()))
		}
	}

	if a.Config.RegistryWatch && a.Config.RegistryPath != "" {
		ctx, cancel := context.WithCancel(context.Background())
		if err := registry.Watch(ctx, a.Config.RegistryPath, a.Registry, nil, a.Logger); err != nil {
			cancel()
			return fmt.Errorf("toolmeta: %w", err)
		}
		a.stopWatch = cancel
	}

	a.Generator = metadata.New(a.Registry, metadata.Config{
		BaseURL:       a.Config.URL,
		SiteName:      a.Config.Name,
		DefaultImage:  a.Config.DefaultImage,
		TwitterHandle: a.Config.TwitterHandle,
	})
	a.Cache = NewMetadataCache(a.Registry, a.Generator, a.Config.MetadataCacheSize)
	a.limiter = NewRateLimiter(a.Config.RateLimitRequests, a.Config.RateLimitWindow)

	host := a.Config.URL
	if u, err := url.Parse(a.Config.URL); err == nil {
		host = u.Host
	}
	img, err := renderOGImage(a.Config.Name, host, a.Config.OGImageSource)
	if err != nil {
		return err
	}
	a.ogImage = img

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.ready = true
	return nil
}

// LoadRegistry loads the registry named by cfg: the YAML file when
// RegistryPath is set, else the SQLite snapshot when RegistryDBPath is set,
// else the embedded registry.
func LoadRegistry(cfg SiteConfig) (*registry.Registry, error) {
	switch {
	case cfg.RegistryPath != "":
		return registry.LoadFile(cfg.RegistryPath, nil)
	case cfg.RegistryDBPath != "":
		store, err := registry.NewStore(cfg.RegistryDBPath)
		if err != nil {
			return nil, fmt.Errorf("toolmeta: open snapshot: %w", err)
		}
		defer store.Close()
		return store.Load(nil)
	default:
		return registry.Builtin()
	}
}

// Start initializes the app and serves until the server is shut down.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	a.Logger.Info("server.start", zap.String("addr", a.Config.Addr), zap.String("url", a.Config.URL))
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/og-image.png", a.handleOGImage)
	e.GET("/healthz", a.handleHealth)

	api := e.Group("/api")
	api.GET("/metadata/:id", a.handleToolMetadata)
	api.GET("/head/:id", a.handleToolHead)
	api.GET("/category/:id", a.handleCategoryMetadata)
	api.GET("/registry", a.handleRegistry)
	api.GET("/locales", a.handleLocales)
}

// Shutdown gracefully stops the server and releases resources.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Echo.Shutdown(ctx)
	a.Close()
	return err
}

// Close stops the registry watcher and the limiter. Call this when the app
// is shutting down.
func (a *App) Close() error {
	if a.stopWatch != nil {
		a.stopWatch()
	}
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	return nil
}
