// Package metadata assembles page metadata for tool and category pages:
// canonical and hreflang URLs, Open Graph and Twitter cards, and JSON-LD.
//
// Every function here is total. Unknown tool ids, unknown locales and
// malformed paths degrade to documented defaults instead of errors.
package metadata

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/eringen/toolmeta/locale"
	"github.com/eringen/toolmeta/registry"
)

const (
	// NotFoundTitle and NotFoundDescription replace the content of unknown tools.
	NotFoundTitle       = "Tool Not Found"
	NotFoundDescription = "The requested tool could not be found. It may have been moved or removed."

	DefaultSiteName  = "UtilityKit"
	DefaultImagePath = "/og-image.png"

	// CategoryNotFoundTitle and CategoryNotFoundDescription replace the
	// content of unknown categories.
	CategoryNotFoundTitle       = "Category Not Found"
	CategoryNotFoundDescription = "The requested category could not be found. It may have been moved or removed."

	// EmptyCategoryDescription describes a known category with no tools.
	EmptyCategoryDescription = "No tools are listed in this category yet."

	ImageWidth  = 1200
	ImageHeight = 630
)

// Config holds the site-wide values every page shares.
type Config struct {
	BaseURL       string
	SiteName      string
	DefaultImage  string
	TwitterHandle string
}

// Options selects the page being described. Locale may be empty, in which
// case it is read from Pathname. Pathname may be empty, in which case the
// tool's own path is used.
type Options struct {
	Locale   string
	Pathname string
}

// AlternateLink is one hreflang alternate.
type AlternateLink struct {
	Hreflang string `json:"hreflang"`
	Href     string `json:"href"`
}

// Alternates mirrors AlternateLinks keyed by hreflang value.
type Alternates struct {
	Canonical string            `json:"canonical"`
	Languages map[string]string `json:"languages"`
}

type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Alt    string `json:"alt,omitempty"`
}

type OpenGraph struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Type            string   `json:"type"`
	Locale          string   `json:"locale"`
	AlternateLocale []string `json:"alternateLocale,omitempty"`
	URL             string   `json:"url"`
	SiteName        string   `json:"siteName"`
	Images          []Image  `json:"images"`
}

type Twitter struct {
	Card        string   `json:"card"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Site        string   `json:"site,omitempty"`
	Images      []string `json:"images"`
}

// Metadata is the fully resolved metadata for one page. URLs are absolute.
type Metadata struct {
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Keywords       []string        `json:"keywords"`
	Locale         string          `json:"locale"`
	HTMLLang       string          `json:"htmlLang"`
	Canonical      string          `json:"canonical"`
	AlternateLinks []AlternateLink `json:"alternateLinks"`
	Alternates     Alternates      `json:"alternates"`
	OpenGraph      OpenGraph       `json:"openGraph"`
	Twitter        Twitter         `json:"twitter"`
	JSONLD         *Object         `json:"jsonLd,omitempty"`
	Found          bool            `json:"found"`
}

// Generator builds Metadata against the registry currently installed in a
// handle. Each call reads one snapshot, so a concurrent reload never mixes
// two registries in one result.
type Generator struct {
	handle *registry.Handle
	cfg    Config
}

// New returns a Generator. Empty config fields fall back to package defaults.
func New(handle *registry.Handle, cfg Config) *Generator {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.SiteName == "" {
		cfg.SiteName = DefaultSiteName
	}
	if cfg.DefaultImage == "" {
		cfg.DefaultImage = DefaultImagePath
	}
	if h := strings.TrimSpace(cfg.TwitterHandle); h != "" && !strings.HasPrefix(h, "@") {
		cfg.TwitterHandle = "@" + h
	}
	return &Generator{handle: handle, cfg: cfg}
}

// CanonicalPath applies the locale prefix for code to pathname. It is the
// only place outside the locale package that turns a bare path into a
// localized one; hreflang, sitemap and Open Graph URLs all go through it.
func CanonicalPath(table *locale.Table, pathname, code string) string {
	return table.Localize(pathname, code)
}

// AbsoluteURL joins base with an absolute path. Values that are already
// absolute URLs are returned unchanged.
func AbsoluteURL(base, p string) string {
	if strings.HasPrefix(p, "https://") || strings.HasPrefix(p, "http://") {
		return p
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.TrimRight(base, "/") + p
}

// CanonicalURL is the absolute form of CanonicalPath.
func CanonicalURL(base string, table *locale.Table, pathname, code string) string {
	return AbsoluteURL(base, CanonicalPath(table, pathname, code))
}

// HreflangLinks returns one alternate per locale in table order followed by
// the x-default alternate, which points at the default locale's URL.
func HreflangLinks(base string, table *locale.Table, pathname string) []AlternateLink {
	locales := table.Locales()
	out := make([]AlternateLink, 0, len(locales)+1)
	for _, l := range locales {
		out = append(out, AlternateLink{
			Hreflang: l.HTMLLang,
			Href:     CanonicalURL(base, table, pathname, l.Code),
		})
	}
	return append(out, AlternateLink{
		Hreflang: locale.XDefault,
		Href:     CanonicalURL(base, table, pathname, table.DefaultCode()),
	})
}

// CanonicalURL resolves pathname for code against the current locale table.
func (g *Generator) CanonicalURL(pathname, code string) string {
	table := g.handle.Load().Table()
	return CanonicalURL(g.cfg.BaseURL, table, pathname, table.Normalize(code))
}

// HreflangLinks returns the alternates for pathname against the current locale table.
func (g *Generator) HreflangLinks(pathname string) []AlternateLink {
	return HreflangLinks(g.cfg.BaseURL, g.handle.Load().Table(), pathname)
}

// Generate builds the metadata for the tool page id.
func (g *Generator) Generate(id string, opts Options) Metadata {
	reg := g.handle.Load()
	table := reg.Table()

	pathname := opts.Pathname
	code := resolveLocale(table, opts)
	loc, found := reg.Localized(id, code)
	if pathname == "" {
		pathname = "/"
		if found {
			pathname = loc.Path
		}
	}

	title, description := NotFoundTitle, NotFoundDescription
	keywords := []string{}
	if found {
		title, description = loc.Title, loc.ShortDescription
		if len(loc.Keywords) > 0 {
			keywords = loc.Keywords
		}
	}

	m := g.page(table, code, pathname, title, description, loc.Image)
	m.Keywords = keywords
	m.Found = found
	if found && loc.Schema != nil {
		m.JSONLD = buildToolJSONLD(ldInput{
			name:        title,
			description: description,
			url:         m.Canonical,
			lang:        m.HTMLLang,
			schema:      loc.Schema,
		})
	}
	return m
}

// GenerateCategory builds the metadata for a category landing page. The
// title is derived from the category id and the description lists the
// localized titles of the tools filed under it. Unknown categories get the
// not-found title and description, an empty keyword list and no JSON-LD.
func (g *Generator) GenerateCategory(categoryID string, opts Options) Metadata {
	reg := g.handle.Load()
	table := reg.Table()

	code := resolveLocale(table, opts)
	cat, found := reg.Category(categoryID)
	pathname := opts.Pathname
	if pathname == "" {
		pathname = "/"
		if found {
			pathname = cat.Path
		}
	}

	if !found {
		m := g.page(table, code, pathname, CategoryNotFoundTitle, CategoryNotFoundDescription, "")
		m.Keywords = []string{}
		return m
	}

	l, _ := table.Lookup(code)
	title := categoryTitle(categoryID, l.HTMLLang)
	var items []listItem
	keywords := []string{}
	for _, id := range reg.InCategory(categoryID) {
		tool, ok := reg.Localized(id, code)
		if !ok || tool.Title == "" {
			continue
		}
		items = append(items, listItem{
			name: tool.Title,
			url:  CanonicalURL(g.cfg.BaseURL, table, tool.Path, code),
		})
		keywords = append(keywords, tool.Title)
	}
	description := EmptyCategoryDescription
	if len(keywords) > 0 {
		description = strings.Join(keywords, ", ")
	}

	m := g.page(table, code, pathname, title, description, "")
	m.Keywords = keywords
	m.Found = true
	m.JSONLD = buildCategoryJSONLD(ldInput{
		name:        title,
		description: description,
		url:         m.Canonical,
		lang:        m.HTMLLang,
	}, items)
	return m
}

// page fills the URL, Open Graph and Twitter parts shared by every page type.
func (g *Generator) page(table *locale.Table, code, pathname, title, description, image string) Metadata {
	l, _ := table.Lookup(code)
	canonical := CanonicalURL(g.cfg.BaseURL, table, pathname, code)
	links := HreflangLinks(g.cfg.BaseURL, table, pathname)
	languages := make(map[string]string, len(links))
	for _, link := range links {
		languages[link.Hreflang] = link.Href
	}

	if image == "" {
		image = g.cfg.DefaultImage
	}
	imageURL := AbsoluteURL(g.cfg.BaseURL, image)

	var alternateLocales []string
	for _, other := range table.Locales() {
		if other.Code != code {
			alternateLocales = append(alternateLocales, OGLocale(other.HTMLLang))
		}
	}

	return Metadata{
		Title:          title,
		Description:    description,
		Locale:         code,
		HTMLLang:       l.HTMLLang,
		Canonical:      canonical,
		AlternateLinks: links,
		Alternates:     Alternates{Canonical: canonical, Languages: languages},
		OpenGraph: OpenGraph{
			Title:           title,
			Description:     description,
			Type:            "website",
			Locale:          OGLocale(l.HTMLLang),
			AlternateLocale: alternateLocales,
			URL:             canonical,
			SiteName:        g.cfg.SiteName,
			Images:          []Image{{URL: imageURL, Width: ImageWidth, Height: ImageHeight, Alt: title}},
		},
		Twitter: Twitter{
			Card:        "summary_large_image",
			Title:       title,
			Description: description,
			Site:        g.cfg.TwitterHandle,
			Images:      []string{imageURL},
		},
	}
}

func resolveLocale(table *locale.Table, opts Options) string {
	if opts.Locale != "" {
		return table.Normalize(opts.Locale)
	}
	return table.FromPathname(opts.Pathname)
}

// OGLocale converts an HTML lang tag to the language_TERRITORY form Open
// Graph expects. Missing regions are filled with the most likely one.
func OGLocale(htmlLang string) string {
	tag, err := language.Parse(htmlLang)
	if err != nil {
		return strings.ReplaceAll(htmlLang, "-", "_")
	}
	base, _ := tag.Base()
	region, _ := tag.Region()
	if region.String() == "ZZ" {
		return base.String()
	}
	return base.String() + "_" + region.String()
}

// categoryTitle turns a category id such as "image-tools" into "Image Tools"
// using the casing rules of the page language.
func categoryTitle(id, htmlLang string) string {
	tag, err := language.Parse(htmlLang)
	if err != nil {
		tag = language.English
	}
	return cases.Title(tag).String(strings.ReplaceAll(id, "-", " "))
}
