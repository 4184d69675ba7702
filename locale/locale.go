// Package locale holds the site's locale table and the codec that maps
// request paths to (locale, bare path) pairs.
package locale

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoDefaultLocale is returned when a table has no locale marked default.
	ErrNoDefaultLocale = errors.New("locale: no default locale")
	// ErrMultipleDefaults is returned when more than one locale is marked default.
	ErrMultipleDefaults = errors.New("locale: more than one default locale")
	// ErrDuplicateCode is returned when two locales share a code.
	ErrDuplicateCode = errors.New("locale: duplicate locale code")
	// ErrReservedCode is returned when a locale code collides with a reserved first path segment.
	ErrReservedCode = errors.New("locale: code collides with reserved path segment")
	// ErrDuplicateHTMLLang is returned when two locales share an HTML lang tag,
	// which would produce duplicate hreflang alternates.
	ErrDuplicateHTMLLang = errors.New("locale: duplicate html lang code")
)

// XDefault is the hreflang value reserved for the default-locale alternate.
const XDefault = "x-default"

// Locale describes one supported site language.
type Locale struct {
	Code        string `json:"code" yaml:"code"`
	DisplayName string `json:"displayName" yaml:"displayName"`
	HTMLLang    string `json:"htmlLangCode" yaml:"htmlLangCode"`
	IsDefault   bool   `json:"isDefault" yaml:"isDefault"`
}

// Table is an immutable, ordered set of locales with exactly one default.
type Table struct {
	locales  []Locale
	index    map[string]int
	def      int
	reserved map[string]struct{}
}

// DefaultReservedSegments lists first path segments that belong to site
// sections and therefore can never be locale codes.
var DefaultReservedSegments = []string{"tools", "category", "admin", "api", "public"}

// NewTable builds a Table. Order is preserved and drives every ordered output
// (hreflang links, sitemap alternates).
func NewTable(locales []Locale, reserved []string) (*Table, error) {
	langs := make(map[string]string, len(locales))
	t := &Table{
		locales:  make([]Locale, 0, len(locales)),
		index:    make(map[string]int, len(locales)),
		def:      -1,
		reserved: make(map[string]struct{}, len(reserved)),
	}
	for _, seg := range reserved {
		t.reserved[strings.ToLower(strings.Trim(seg, "/"))] = struct{}{}
	}
	for _, l := range locales {
		l.Code = strings.TrimSpace(l.Code)
		if l.Code == "" || strings.Contains(l.Code, "/") {
			return nil, fmt.Errorf("locale: invalid code %q", l.Code)
		}
		if _, dup := t.index[l.Code]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCode, l.Code)
		}
		if _, bad := t.reserved[strings.ToLower(l.Code)]; bad {
			return nil, fmt.Errorf("%w: %q", ErrReservedCode, l.Code)
		}
		if l.HTMLLang == "" {
			l.HTMLLang = l.Code
		}
		if l.DisplayName == "" {
			l.DisplayName = l.Code
		}
		lang := strings.ToLower(l.HTMLLang)
		if other, dup := langs[lang]; dup || lang == XDefault {
			return nil, fmt.Errorf("%w: %q (%s, %s)", ErrDuplicateHTMLLang, l.HTMLLang, other, l.Code)
		}
		langs[lang] = l.Code
		if l.IsDefault {
			if t.def >= 0 {
				return nil, fmt.Errorf("%w: %q and %q", ErrMultipleDefaults, t.locales[t.def].Code, l.Code)
			}
			t.def = len(t.locales)
		}
		t.index[l.Code] = len(t.locales)
		t.locales = append(t.locales, l)
	}
	if t.def < 0 {
		return nil, ErrNoDefaultLocale
	}
	return t, nil
}

// MustNewTable is like NewTable but panics on error. Intended for static tables.
func MustNewTable(locales []Locale, reserved []string) *Table {
	t, err := NewTable(locales, reserved)
	if err != nil {
		panic(err)
	}
	return t
}

var defaultTable = MustNewTable([]Locale{
	{Code: "en", DisplayName: "English", HTMLLang: "en", IsDefault: true},
	{Code: "de", DisplayName: "Deutsch", HTMLLang: "de"},
	{Code: "es", DisplayName: "Español", HTMLLang: "es"},
	{Code: "fr", DisplayName: "Français", HTMLLang: "fr"},
	{Code: "ru", DisplayName: "Русский", HTMLLang: "ru"},
	{Code: "pt", DisplayName: "Português", HTMLLang: "pt-BR"},
	{Code: "zh", DisplayName: "中文", HTMLLang: "zh-Hans"},
}, DefaultReservedSegments)

// DefaultTable returns the site's locale table.
func DefaultTable() *Table {
	return defaultTable
}

// Default returns the default locale.
func (t *Table) Default() Locale {
	return t.locales[t.def]
}

// DefaultCode returns the default locale's code.
func (t *Table) DefaultCode() string {
	return t.locales[t.def].Code
}

// Lookup returns the locale with the given code.
func (t *Table) Lookup(code string) (Locale, bool) {
	i, ok := t.index[code]
	if !ok {
		return Locale{}, false
	}
	return t.locales[i], true
}

// Has reports whether code is a known locale code.
func (t *Table) Has(code string) bool {
	_, ok := t.index[code]
	return ok
}

// Normalize maps unknown or empty codes to the default code.
func (t *Table) Normalize(code string) string {
	if t.Has(code) {
		return code
	}
	return t.DefaultCode()
}

// IsDefault reports whether code is the default locale's code.
func (t *Table) IsDefault(code string) bool {
	return code == t.DefaultCode()
}

// Locales returns a copy of the locales in table order.
func (t *Table) Locales() []Locale {
	out := make([]Locale, len(t.locales))
	copy(out, t.locales)
	return out
}

// Codes returns locale codes in table order.
func (t *Table) Codes() []string {
	out := make([]string, len(t.locales))
	for i, l := range t.locales {
		out[i] = l.Code
	}
	return out
}

// Len returns the number of locales.
func (t *Table) Len() int {
	return len(t.locales)
}

// Reserved reports whether seg is a reserved first path segment.
func (t *Table) Reserved(seg string) bool {
	_, ok := t.reserved[strings.ToLower(seg)]
	return ok
}
