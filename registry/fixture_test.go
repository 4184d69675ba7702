package registry

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eringen/toolmeta/locale"
)

func fixtureTable(t *testing.T) *locale.Table {
	t.Helper()
	tbl, err := locale.NewTable([]locale.Locale{
		{Code: "en", DisplayName: "English", HTMLLang: "en", IsDefault: true},
		{Code: "de", DisplayName: "Deutsch", HTMLLang: "de"},
		{Code: "ru", DisplayName: "Русский", HTMLLang: "ru"},
	}, locale.DefaultReservedSegments)
	require.NoError(t, err)
	return tbl
}

func fixtureCategories() []Category {
	return []Category{
		{ID: "text", Path: "/category/text"},
		{ID: "hash", Path: "/category/hash"},
	}
}

func fixtureEntries() []Entry {
	return []Entry{
		{
			ID:       "uppercase",
			Category: "text",
			Path:     "/tools/uppercase",
			LocalizedContent: map[string]Content{
				"en": {
					Title:            "Uppercase Converter",
					ShortDescription: "Convert text to UPPERCASE.",
					LongDescription:  "Turns every letter into its capital form.",
					Keywords:         []string{"uppercase", "caps"},
				},
				"de": {
					Title:            "Großbuchstaben",
					ShortDescription: "Text in GROSSBUCHSTABEN umwandeln.",
					LongDescription:  "Jeder Buchstabe wird groß.",
					Keywords:         []string{"großbuchstaben"},
				},
			},
			Schema: &Schema{
				Type:                "WebApplication",
				ApplicationCategory: "UtilitiesApplication",
				Features:            []string{"Unicode aware"},
				AggregateRating:     &Rating{Value: 4.5, Count: 10},
			},
		},
		{
			ID:       "md5-hash",
			Category: "hash",
			Path:     "/tools/md5-hash",
			LocalizedContent: map[string]Content{
				"en": {Title: "MD5 Hash Generator", ShortDescription: "Generate MD5 digests."},
			},
		},
	}
}

func fixtureRegistry(t *testing.T) *Registry {
	t.Helper()
	return New(fixtureTable(t), fixtureCategories(), fixtureEntries())
}
