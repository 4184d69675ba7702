package toolmeta

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/toolmeta/metadata"
	"github.com/eringen/toolmeta/registry"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	XHTML   string       `xml:"xmlns:xhtml,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc   string        `xml:"loc"`
	Links []sitemapLink `xml:"xhtml:link"`
}

type sitemapLink struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// buildSitemap lists the home page, every category and every tool once per
// locale. Each URL carries the full hreflang set, x-default included.
func buildSitemap(reg *registry.Registry, base string) sitemapURLSet {
	table := reg.Table()
	pages := []string{"/"}
	for _, c := range reg.Categories() {
		pages = append(pages, c.Path)
	}
	for _, id := range reg.IDs() {
		if e, ok := reg.Entry(id); ok {
			pages = append(pages, e.Path)
		}
	}

	seen := make(map[string]bool)
	var urls []sitemapURL
	for _, p := range pages {
		links := metadata.HreflangLinks(base, table, p)
		alternates := make([]sitemapLink, len(links))
		for i, l := range links {
			alternates[i] = sitemapLink{Rel: "alternate", Hreflang: l.Hreflang, Href: l.Href}
		}
		for _, code := range table.Codes() {
			loc := metadata.CanonicalURL(base, table, p, code)
			if seen[loc] {
				continue
			}
			seen[loc] = true
			urls = append(urls, sitemapURL{Loc: loc, Links: alternates})
		}
	}
	return sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		XHTML: "http://www.w3.org/1999/xhtml",
		URLs:  urls,
	}
}

func (a *App) renderSitemap(c echo.Context, reg *registry.Registry) error {
	sitemap := buildSitemap(reg, a.Config.URL)
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
