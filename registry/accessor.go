package registry

import (
	"sort"
	"strings"
)

// Localized is a tool entry with content resolved for one locale.
// Optional fields absent from every locale in the fallback chain stay empty.
type Localized struct {
	ID               string   `json:"id"`
	Category         string   `json:"category"`
	Path             string   `json:"path"`
	Image            string   `json:"image,omitempty"`
	Locale           string   `json:"locale"`
	Title            string   `json:"title"`
	ShortDescription string   `json:"shortDescription"`
	LongDescription  string   `json:"longDescription,omitempty"`
	Keywords         []string `json:"keywords,omitempty"`
	Schema           *Schema  `json:"schema,omitempty"`
}

// Summary is the flat projection of an entry used by inventory reports.
type Summary struct {
	ID               string   `json:"id"`
	Category         string   `json:"category"`
	Path             string   `json:"path"`
	AvailableLocales []string `json:"availableLocales"`
}

// FallbackChain returns the ordered locales tried when resolving content for
// code: the requested locale if it is known, then the default locale.
func (r *Registry) FallbackChain(code string) []string {
	def := r.table.DefaultCode()
	if code == def || !r.table.Has(code) {
		return []string{def}
	}
	return []string{code, def}
}

// Localized resolves the entry for id in the given locale. It returns false
// for unknown ids; callers decide what to render in that case.
// Each field takes the first non-empty value along the fallback chain.
func (r *Registry) Localized(id, code string) (Localized, bool) {
	i, ok := r.index[id]
	if !ok {
		return Localized{}, false
	}
	e := r.entries[i]
	out := Localized{
		ID:       e.ID,
		Category: e.Category,
		Path:     e.Path,
		Image:    e.Image,
		Locale:   r.table.Normalize(code),
		Schema:   e.Schema.clone(),
	}
	for _, c := range r.FallbackChain(code) {
		content, ok := e.LocalizedContent[c]
		if !ok {
			continue
		}
		if out.Title == "" {
			out.Title = strings.TrimSpace(content.Title)
		}
		if out.ShortDescription == "" {
			out.ShortDescription = strings.TrimSpace(content.ShortDescription)
		}
		if out.LongDescription == "" {
			out.LongDescription = strings.TrimSpace(content.LongDescription)
		}
		if out.Keywords == nil && len(content.Keywords) > 0 {
			out.Keywords = cloneStrings(content.Keywords)
		}
	}
	return out, true
}

// Entries returns the flat list of entries ordered by id ascending.
// Duplicate ids are kept, in load order, so drift stays visible.
func (r *Registry) Entries() []Summary {
	out := make([]Summary, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, Summary{
			ID:               e.ID,
			Category:         e.Category,
			Path:             e.Path,
			AvailableLocales: r.availableLocales(e),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// availableLocales lists content keys in table order followed by any
// unknown keys in lexical order.
func (r *Registry) availableLocales(e Entry) []string {
	out := make([]string, 0, len(e.LocalizedContent))
	for _, code := range r.table.Codes() {
		if _, ok := e.LocalizedContent[code]; ok {
			out = append(out, code)
		}
	}
	var unknown []string
	for code := range e.LocalizedContent {
		if !r.table.Has(code) {
			unknown = append(unknown, code)
		}
	}
	sort.Strings(unknown)
	return append(out, unknown...)
}
