// Package registry holds the tool metadata registry: an immutable table of
// tool entries resolved against a locale table, plus the loaders, validator
// and copy-on-write handle built around it.
package registry

import (
	"errors"
	"sort"

	"github.com/eringen/toolmeta/locale"
)

var (
	// ErrUnknownTool is returned by callers that require an existing tool id.
	ErrUnknownTool = errors.New("registry: unknown tool")
	// ErrUnknownCategory is returned by callers that require an existing category id.
	ErrUnknownCategory = errors.New("registry: unknown category")
)

// Registry is an immutable snapshot of tool entries and categories. It is
// safe for concurrent use by any number of readers.
type Registry struct {
	table      *locale.Table
	categories []Category
	entries    []Entry
	index      map[string]int
	catIndex   map[string]int
}

// New builds a Registry. Entries keep their load order, duplicates included,
// so the validator can report them; lookups by id resolve to the first entry.
// A nil table means locale.DefaultTable().
func New(table *locale.Table, categories []Category, entries []Entry) *Registry {
	if table == nil {
		table = locale.DefaultTable()
	}
	r := &Registry{
		table:      table,
		categories: make([]Category, len(categories)),
		entries:    make([]Entry, len(entries)),
		index:      make(map[string]int, len(entries)),
		catIndex:   make(map[string]int, len(categories)),
	}
	copy(r.categories, categories)
	for i, c := range r.categories {
		if _, ok := r.catIndex[c.ID]; !ok {
			r.catIndex[c.ID] = i
		}
	}
	for i, e := range entries {
		r.entries[i] = e.clone()
		if _, ok := r.index[e.ID]; !ok {
			r.index[e.ID] = i
		}
	}
	return r
}

// Table returns the locale table the registry resolves against.
func (r *Registry) Table() *locale.Table {
	return r.table
}

// Len returns the number of entries, duplicates included.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Has reports whether a tool with the given id exists.
func (r *Registry) Has(id string) bool {
	_, ok := r.index[id]
	return ok
}

// Entry returns a copy of the entry for id.
func (r *Registry) Entry(id string) (Entry, bool) {
	i, ok := r.index[id]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i].clone(), true
}

// RawEntries returns copies of every entry in load order.
func (r *Registry) RawEntries() []Entry {
	out := make([]Entry, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.clone()
	}
	return out
}

// Categories returns the categories in load order.
func (r *Registry) Categories() []Category {
	out := make([]Category, len(r.categories))
	copy(out, r.categories)
	return out
}

// Category returns the category with the given id.
func (r *Registry) Category(id string) (Category, bool) {
	i, ok := r.catIndex[id]
	if !ok {
		return Category{}, false
	}
	return r.categories[i], true
}

// IDs returns the distinct tool ids in ascending order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.index))
	for id := range r.index {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// InCategory returns the ids of the tools filed under the category, in
// ascending order.
func (r *Registry) InCategory(categoryID string) []string {
	var ids []string
	for id, i := range r.index {
		if r.entries[i].Category == categoryID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
