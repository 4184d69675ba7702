package metadata

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

// Head renders the <head> tags for m: title, description, keywords,
// canonical and alternate links, Open Graph, Twitter and the JSON-LD script.
func Head(m Metadata) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<title>" + templ.EscapeString(m.Title) + "</title>\n")
		meta(&b, "name", "description", m.Description)
		if len(m.Keywords) > 0 {
			meta(&b, "name", "keywords", strings.Join(m.Keywords, ", "))
		}
		link(&b, `rel="canonical"`, m.Canonical)
		for _, alt := range m.AlternateLinks {
			link(&b, `rel="alternate" hreflang="`+templ.EscapeString(alt.Hreflang)+`"`, alt.Href)
		}

		og := m.OpenGraph
		meta(&b, "property", "og:title", og.Title)
		meta(&b, "property", "og:description", og.Description)
		meta(&b, "property", "og:type", og.Type)
		meta(&b, "property", "og:url", og.URL)
		meta(&b, "property", "og:site_name", og.SiteName)
		meta(&b, "property", "og:locale", og.Locale)
		for _, l := range og.AlternateLocale {
			meta(&b, "property", "og:locale:alternate", l)
		}
		for _, img := range og.Images {
			meta(&b, "property", "og:image", img.URL)
			if img.Width > 0 && img.Height > 0 {
				meta(&b, "property", "og:image:width", strconv.Itoa(img.Width))
				meta(&b, "property", "og:image:height", strconv.Itoa(img.Height))
			}
			if img.Alt != "" {
				meta(&b, "property", "og:image:alt", img.Alt)
			}
		}

		tw := m.Twitter
		meta(&b, "name", "twitter:card", tw.Card)
		meta(&b, "name", "twitter:title", tw.Title)
		meta(&b, "name", "twitter:description", tw.Description)
		if tw.Site != "" {
			meta(&b, "name", "twitter:site", tw.Site)
		}
		for _, img := range tw.Images {
			meta(&b, "name", "twitter:image", img)
		}

		if m.JSONLD != nil {
			b.WriteString(`<script type="application/ld+json">` + m.JSONLD.String() + "</script>\n")
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func meta(b *strings.Builder, attr, key, content string) {
	if content == "" {
		return
	}
	b.WriteString(`<meta ` + attr + `="` + templ.EscapeString(key) + `" content="` + templ.EscapeString(content) + "\">\n")
}

func link(b *strings.Builder, attrs, href string) {
	if href == "" {
		return
	}
	b.WriteString(`<link ` + attrs + ` href="` + templ.EscapeString(href) + "\">\n")
}
