package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/toolmeta/locale"
	"github.com/eringen/toolmeta/registry"
)

const base = "https://example.test"

func testTable(t *testing.T) *locale.Table {
	t.Helper()
	tbl, err := locale.NewTable([]locale.Locale{
		{Code: "en", DisplayName: "English", HTMLLang: "en", IsDefault: true},
		{Code: "de", DisplayName: "Deutsch", HTMLLang: "de"},
		{Code: "ru", DisplayName: "Русский", HTMLLang: "ru"},
	}, locale.DefaultReservedSegments)
	require.NoError(t, err)
	return tbl
}

func testGenerator(t *testing.T) *Generator {
	t.Helper()
	reg := registry.New(testTable(t),
		[]registry.Category{
			{ID: "text", Path: "/category/text"},
			{ID: "hash", Path: "/category/hash"},
		},
		[]registry.Entry{
			{
				ID:       "uppercase",
				Category: "text",
				Path:     "/tools/uppercase",
				LocalizedContent: map[string]registry.Content{
					"en": {Title: "Uppercase Converter", ShortDescription: "Convert text to UPPERCASE.", Keywords: []string{"uppercase"}},
					"de": {Title: "Großbuchstaben", ShortDescription: "Text in GROSSBUCHSTABEN umwandeln."},
				},
				Schema: &registry.Schema{
					Type:                "WebApplication",
					ApplicationCategory: "UtilitiesApplication",
					Features:            []string{"Unicode aware", " "},
					AggregateRating:     &registry.Rating{Value: 4.5, Count: 10},
					Extra: map[string]any{
						"browserRequirements": "Requires JavaScript",
						"name":                "ignored",
						"empty":               "",
						"nothing":             nil,
					},
				},
			},
			{
				ID:       "md5-hash",
				Category: "hash",
				Path:     "/tools/md5-hash",
				Image:    "/img/md5.png",
				LocalizedContent: map[string]registry.Content{
					"en": {Title: "MD5 Hash Generator", ShortDescription: "Generate MD5 digests."},
				},
			},
		})
	return New(registry.NewHandle(reg), Config{BaseURL: base + "/", TwitterHandle: "utilitykit"})
}

func TestGenerateLocalizedTool(t *testing.T) {
	g := testGenerator(t)
	m := g.Generate("uppercase", Options{Locale: "de", Pathname: "/de/tools/uppercase"})

	assert.True(t, m.Found)
	assert.Equal(t, "Großbuchstaben", m.Title)
	assert.Equal(t, "Text in GROSSBUCHSTABEN umwandeln.", m.Description)
	assert.Equal(t, base+"/de/tools/uppercase", m.Canonical)
	assert.Equal(t, m.Canonical, m.Alternates.Canonical)
	assert.Equal(t, map[string]string{
		"en":        base + "/tools/uppercase",
		"de":        base + "/de/tools/uppercase",
		"ru":        base + "/ru/tools/uppercase",
		"x-default": base + "/tools/uppercase",
	}, m.Alternates.Languages)

	// keywords fall back to the default locale
	assert.Equal(t, []string{"uppercase"}, m.Keywords)

	assert.Equal(t, "de_DE", m.OpenGraph.Locale)
	assert.Equal(t, []string{"en_US", "ru_RU"}, m.OpenGraph.AlternateLocale)
	assert.Equal(t, "website", m.OpenGraph.Type)
	assert.Equal(t, DefaultSiteName, m.OpenGraph.SiteName)
	require.Len(t, m.OpenGraph.Images, 1)
	assert.Equal(t, base+DefaultImagePath, m.OpenGraph.Images[0].URL)

	assert.Equal(t, "summary_large_image", m.Twitter.Card)
	assert.Equal(t, "@utilitykit", m.Twitter.Site)
	assert.Equal(t, []string{base + DefaultImagePath}, m.Twitter.Images)
}

func TestGenerateDetectsLocaleFromPath(t *testing.T) {
	g := testGenerator(t)

	m := g.Generate("uppercase", Options{Pathname: "/de/tools/uppercase"})
	assert.Equal(t, "de", m.Locale)
	assert.Equal(t, "Großbuchstaben", m.Title)

	m = g.Generate("uppercase", Options{Locale: "xx", Pathname: "/tools/uppercase"})
	assert.Equal(t, "en", m.Locale)
	assert.Equal(t, "Uppercase Converter", m.Title)
	assert.Equal(t, base+"/tools/uppercase", m.Canonical)
}

func TestGenerateFallsBackToDefaultContent(t *testing.T) {
	g := testGenerator(t)
	m := g.Generate("md5-hash", Options{Locale: "ru"})

	assert.Equal(t, "MD5 Hash Generator", m.Title)
	assert.Equal(t, base+"/ru/tools/md5-hash", m.Canonical)
	assert.Equal(t, "ru", m.HTMLLang)
	assert.Equal(t, base+"/img/md5.png", m.OpenGraph.Images[0].URL)
	assert.NotNil(t, m.Keywords)
	assert.Empty(t, m.Keywords)
	assert.Nil(t, m.JSONLD)
}

func TestGenerateUnknownTool(t *testing.T) {
	g := testGenerator(t)
	m := g.Generate("does-not-exist", Options{Pathname: "/de/tools/does-not-exist"})

	assert.False(t, m.Found)
	assert.Equal(t, NotFoundTitle, m.Title)
	assert.Equal(t, NotFoundDescription, m.Description)
	assert.NotNil(t, m.Keywords)
	assert.Empty(t, m.Keywords)
	assert.Nil(t, m.JSONLD)
	assert.Equal(t, base+"/de/tools/does-not-exist", m.Canonical)
	assert.Len(t, m.AlternateLinks, 4)

	m = g.Generate("", Options{})
	assert.Equal(t, base+"/", m.Canonical)
}

func TestHreflangLinksCompleteness(t *testing.T) {
	tbl := testTable(t)
	paths := []string{"", "/", "/de", "/de/", "/tools/uppercase", "//ru//tools//x?y=1", "/en/de/ru", "weird path"}
	for _, p := range paths {
		links := HreflangLinks(base, tbl, p)
		require.Len(t, links, tbl.Len()+1, "pathname %q", p)

		seen := make(map[string]bool)
		for _, l := range links {
			assert.False(t, seen[l.Hreflang], "duplicate hreflang %q for %q", l.Hreflang, p)
			seen[l.Hreflang] = true
		}
		last := links[len(links)-1]
		assert.Equal(t, locale.XDefault, last.Hreflang)
		assert.Equal(t, links[0].Href, last.Href, "x-default points at the default locale")
	}

	links := HreflangLinks(base, tbl, "/ru/")
	assert.Equal(t, []AlternateLink{
		{Hreflang: "en", Href: base + "/"},
		{Hreflang: "de", Href: base + "/de"},
		{Hreflang: "ru", Href: base + "/ru"},
		{Hreflang: "x-default", Href: base + "/"},
	}, links)
}

func TestCanonicalURL(t *testing.T) {
	g := testGenerator(t)
	assert.Equal(t, base+"/de/tools/uppercase", g.CanonicalURL("/tools/uppercase", "de"))
	assert.Equal(t, base+"/tools/uppercase", g.CanonicalURL("/de/tools/uppercase/", "unknown"))
	assert.Equal(t, base+"/", g.CanonicalURL("/en", "en"))
	assert.Equal(t, "https://cdn.example.test/a.png", AbsoluteURL(base, "https://cdn.example.test/a.png"))
	assert.Equal(t, base+"/a.png", AbsoluteURL(base+"/", "a.png"))
}

func TestToolJSONLDOrder(t *testing.T) {
	g := testGenerator(t)
	m := g.Generate("uppercase", Options{Locale: "en"})
	require.NotNil(t, m.JSONLD)

	assert.Equal(t, []string{
		"@context", "@type", "name", "description", "url", "inLanguage",
		"applicationCategory", "featureList", "aggregateRating", "browserRequirements",
	}, m.JSONLD.Keys())

	want := `{"@context":"https://schema.org","@type":"WebApplication","name":"Uppercase Converter",` +
		`"description":"Convert text to UPPERCASE.","url":"https://example.test/tools/uppercase","inLanguage":"en",` +
		`"applicationCategory":"UtilitiesApplication","featureList":["Unicode aware"],` +
		`"aggregateRating":{"@type":"AggregateRating","ratingValue":4.5,"ratingCount":10},` +
		`"browserRequirements":"Requires JavaScript"}`
	assert.Equal(t, want, m.JSONLD.String())
}

func TestToolRulesOmitMissingFields(t *testing.T) {
	obj := buildToolJSONLD(ldInput{schema: &registry.Schema{}})
	assert.Equal(t, []string{"@context", "@type"}, obj.Keys())
	typ, _ := obj.Get("@type")
	assert.Equal(t, "WebApplication", typ)

	obj = buildToolJSONLD(ldInput{schema: &registry.Schema{
		Type:            "SoftwareApplication",
		Offers:          &registry.Offer{Price: "0", Currency: "USD"},
		AggregateRating: &registry.Rating{Value: 3, Count: 0},
	}})
	assert.Equal(t, []string{"@context", "@type", "offers"}, obj.Keys())
	assert.Equal(t, `{"@context":"https://schema.org","@type":"SoftwareApplication","offers":{"@type":"Offer","price":"0","priceCurrency":"USD"}}`, obj.String())
}

func TestExtraPrunesNestedEmpties(t *testing.T) {
	obj := buildToolJSONLD(ldInput{schema: &registry.Schema{Extra: map[string]any{
		"author": map[string]any{"name": nil},
		"publisher": map[string]any{
			"@type": "Organization",
			"name":  "UtilityKit",
			"logo":  map[string]any{"url": ""},
		},
		"sameAs":   []any{nil, "", "https://example.test/about", []any{}},
		"keywords": []string{" ", ""},
		"isFree":   false,
		"version":  0,
	}}})

	assert.Equal(t, []string{"@context", "@type", "isFree", "publisher", "sameAs", "version"}, obj.Keys())
	assert.Equal(t, `{"@context":"https://schema.org","@type":"WebApplication","isFree":false,`+
		`"publisher":{"@type":"Organization","name":"UtilityKit"},`+
		`"sameAs":["https://example.test/about"],"version":0}`, obj.String())
	assert.NotContains(t, obj.String(), "null")
}

func TestObjectReplaceKeepsPosition(t *testing.T) {
	o := NewObject().Set("a", 1).Set("b", 2).Set("a", 3)
	assert.Equal(t, []string{"a", "b"}, o.Keys())
	assert.Equal(t, `{"a":3,"b":2}`, o.String())

	b, err := json.Marshal(map[string]any{"nested": NewObject().Set("z", "<x>")})
	require.NoError(t, err)
	assert.Equal(t, `{"nested":{"z":"\u003cx\u003e"}}`, string(b))

	var nilObj *Object
	assert.Zero(t, nilObj.Len())
}

func TestGenerateCategory(t *testing.T) {
	g := testGenerator(t)
	m := g.GenerateCategory("text", Options{Locale: "de"})

	assert.True(t, m.Found)
	assert.Equal(t, "Text", m.Title)
	assert.Equal(t, base+"/de/category/text", m.Canonical)
	assert.Equal(t, []string{"Großbuchstaben"}, m.Keywords)
	require.NotNil(t, m.JSONLD)
	typ, _ := m.JSONLD.Get("@type")
	assert.Equal(t, "CollectionPage", typ)
	assert.Contains(t, m.JSONLD.String(), `"url":"https://example.test/de/tools/uppercase"`)

	missing := g.GenerateCategory("no-such-thing", Options{Locale: "de"})
	assert.False(t, missing.Found)
	assert.Equal(t, CategoryNotFoundTitle, missing.Title)
	assert.Equal(t, CategoryNotFoundDescription, missing.Description)
	assert.Equal(t, CategoryNotFoundTitle, missing.OpenGraph.Title)
	assert.Equal(t, base+"/de", missing.Canonical)
	assert.Nil(t, missing.JSONLD)
	assert.Equal(t, []string{}, missing.Keywords)
}

func TestGenerateCategoryWithoutTools(t *testing.T) {
	reg := registry.New(testTable(t), []registry.Category{{ID: "image", Path: "/category/image"}}, nil)
	g := New(registry.NewHandle(reg), Config{BaseURL: base})

	m := g.GenerateCategory("image", Options{})
	assert.True(t, m.Found)
	assert.Equal(t, "Image", m.Title)
	assert.Equal(t, EmptyCategoryDescription, m.Description)
	assert.Equal(t, EmptyCategoryDescription, m.Twitter.Description)
	assert.Equal(t, []string{}, m.Keywords)
	require.NotNil(t, m.JSONLD)
	_, hasList := m.JSONLD.Get("mainEntity")
	assert.False(t, hasList)
}

func TestOGLocale(t *testing.T) {
	tests := map[string]string{
		"en":    "en_US",
		"de":    "de_DE",
		"pt-BR": "pt_BR",
		"en-GB": "en_GB",
	}
	for in, want := range tests {
		assert.Equal(t, want, OGLocale(in), "OGLocale(%q)", in)
	}
}

func TestHeadRendersTags(t *testing.T) {
	g := testGenerator(t)
	m := g.Generate("uppercase", Options{Locale: "de", Pathname: "/de/tools/uppercase"})

	var buf bytes.Buffer
	require.NoError(t, Head(m).Render(context.Background(), &buf))
	html := buf.String()

	assert.Contains(t, html, "<title>Großbuchstaben</title>")
	assert.Contains(t, html, `<link rel="canonical" href="https://example.test/de/tools/uppercase">`)
	assert.Contains(t, html, `<link rel="alternate" hreflang="x-default" href="https://example.test/tools/uppercase">`)
	assert.Contains(t, html, `<meta property="og:locale" content="de_DE">`)
	assert.Contains(t, html, `<meta name="twitter:card" content="summary_large_image">`)
	assert.Contains(t, html, `<script type="application/ld+json">{"@context":"https://schema.org"`)
}

func TestHeadEscapes(t *testing.T) {
	var buf bytes.Buffer
	m := Metadata{Title: `A & "B"`, Description: "<script>"}
	require.NoError(t, Head(m).Render(context.Background(), &buf))
	html := buf.String()

	assert.Contains(t, html, "<title>A &amp; &#34;B&#34;</title>")
	assert.Contains(t, html, `content="&lt;script&gt;"`)
	assert.NotContains(t, html, "application/ld+json")
}
