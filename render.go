package toolmeta

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/toolmeta/metadata"
)

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// renderMetadata writes m as JSON, or as a <head> fragment when head is set.
// Pages that do not exist are answered with 404 and the not-found metadata.
func renderMetadata(c echo.Context, m metadata.Metadata, head bool) error {
	code := http.StatusOK
	if !m.Found {
		code = http.StatusNotFound
	}
	c.Response().Header().Set("Content-Language", m.HTMLLang)
	if head {
		return RenderStatus(c, code, metadata.Head(m))
	}
	return c.JSON(code, m)
}
