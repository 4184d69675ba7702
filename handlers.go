package toolmeta

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/toolmeta/metadata"
)

func metadataOptions(c echo.Context) metadata.Options {
	return metadata.Options{
		Locale:   strings.TrimSpace(c.QueryParam("locale")),
		Pathname: c.QueryParam("pathname"),
	}
}

func (a *App) handleToolMetadata(c echo.Context) error {
	return renderMetadata(c, a.Cache.Tool(c.Param("id"), metadataOptions(c)), false)
}

func (a *App) handleToolHead(c echo.Context) error {
	return renderMetadata(c, a.Cache.Tool(c.Param("id"), metadataOptions(c)), true)
}

func (a *App) handleCategoryMetadata(c echo.Context) error {
	return renderMetadata(c, a.Cache.Category(c.Param("id"), metadataOptions(c)), false)
}

func (a *App) handleRegistry(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Registry.Load().Inventory())
}

func (a *App) handleLocales(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Registry.Load().Table().Locales())
}

func (a *App) handleHealth(c echo.Context) error {
	reg, gen := a.Registry.Current()
	return c.JSON(http.StatusOK, map[string]any{
		"status":     "ok",
		"generation": gen,
		"tools":      reg.Len(),
	})
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c, a.Registry.Load())
}

func (a *App) handleRobots(c echo.Context) error {
	body := "User-agent: *\nAllow: /\nDisallow: /api/\n\nSitemap: " + a.Config.URL + "/sitemap.xml\n"
	return c.String(http.StatusOK, body)
}

func (a *App) handleOGImage(c echo.Context) error {
	return c.Blob(http.StatusOK, "image/png", a.ogImage)
}

// httpErrorHandler answers every error with {"error": message}.
func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	}
	if code >= 500 {
		a.Logger.Error("server error",
			zap.String("method", c.Request().Method),
			zap.String("uri", c.Request().RequestURI),
			zap.Error(err),
		)
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, map[string]string{"error": msg})
}
