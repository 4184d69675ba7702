package registry

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
locales:
  - code: en
    displayName: English
    htmlLangCode: en-US
    isDefault: true
  - code: de
    displayName: Deutsch
    htmlLangCode: de-DE
categories:
  - id: text
    path: /category/text
tools:
  - id: uppercase
    category: text
    path: /tools/uppercase
    localizedContent:
      en:
        title: Uppercase Converter
        shortDescription: Convert text to UPPERCASE.
      de:
        title: Großbuchstaben
        shortDescription: Text in GROSSBUCHSTABEN umwandeln.
    schema:
      type: WebApplication
      extra:
        browserRequirements: Requires JavaScript
`

func TestParseUsesDocumentLocales(t *testing.T) {
	reg, err := Parse([]byte(sampleYAML), nil)
	require.NoError(t, err)

	l, ok := reg.Table().Lookup("en")
	require.True(t, ok)
	assert.Equal(t, "en-US", l.HTMLLang)
	assert.Equal(t, 1, reg.Len())

	got, ok := reg.Localized("uppercase", "de")
	require.True(t, ok)
	assert.Equal(t, "Großbuchstaben", got.Title)
	assert.Equal(t, "Requires JavaScript", got.Schema.Extra["browserRequirements"])
	assert.Empty(t, reg.Validate())
}

func TestParseExplicitTableWins(t *testing.T) {
	reg, err := Parse([]byte(sampleYAML), fixtureTable(t))
	require.NoError(t, err)
	l, _ := reg.Table().Lookup("en")
	assert.Equal(t, "en", l.HTMLLang)
	assert.True(t, reg.Table().Has("ru"))
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("tools:\n  - id: x\n    titel: typo\n"), nil)
	require.Error(t, err)
}

func TestParseEmptyDocument(t *testing.T) {
	reg, err := Parse(nil, nil)
	require.NoError(t, err)
	assert.Zero(t, reg.Len())
	assert.Equal(t, "en", reg.Table().DefaultCode())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	reg, err := LoadFile(path, nil)
	require.NoError(t, err)
	assert.True(t, reg.Has("uppercase"))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registry: open")
}

func TestEncodeRoundTrip(t *testing.T) {
	reg := fixtureRegistry(t)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, reg))
	assert.True(t, strings.Contains(buf.String(), "localizedContent:"))

	back, err := Parse(buf.Bytes(), nil)
	require.NoError(t, err)
	assert.Equal(t, reg.Entries(), back.Entries())
	assert.Equal(t, reg.Table().Codes(), back.Table().Codes())
	assert.Empty(t, back.Validate())
}

func TestBuiltinLoadsOnce(t *testing.T) {
	a, err := Builtin()
	require.NoError(t, err)
	b, err := Builtin()
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.True(t, a.Has("uppercase"))

	got, ok := a.Localized("uppercase", "de")
	require.True(t, ok)
	assert.Equal(t, "Großbuchstaben", got.Title)
}
