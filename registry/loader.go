package registry

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/eringen/toolmeta/locale"
)

// Document is the on-disk registry format.
type Document struct {
	Locales    []locale.Locale `yaml:"locales,omitempty"`
	Categories []Category      `yaml:"categories"`
	Tools      []Entry         `yaml:"tools"`
}

// Decode parses a registry document. Unknown keys are rejected so typos in
// field names surface at load time instead of silently dropping data.
func Decode(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("registry: decode: %w", err)
	}
	return &doc, nil
}

// Build turns a document into a Registry. When table is nil the document's
// own locales are used, falling back to locale.DefaultTable().
func (d *Document) Build(table *locale.Table) (*Registry, error) {
	if table == nil && len(d.Locales) > 0 {
		t, err := locale.NewTable(d.Locales, locale.DefaultReservedSegments)
		if err != nil {
			return nil, fmt.Errorf("registry: locales: %w", err)
		}
		table = t
	}
	return New(table, d.Categories, d.Tools), nil
}

// Parse decodes data and builds a Registry.
func Parse(data []byte, table *locale.Table) (*Registry, error) {
	doc, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return doc.Build(table)
}

// LoadFile reads and builds the registry stored at path.
func LoadFile(path string, table *locale.Table) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("registry: open %q: %w", path, err)
	}
	defer f.Close()
	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("registry: %q: %w", path, err)
	}
	return doc.Build(table)
}

// Encode writes reg as a registry document.
func Encode(w io.Writer, reg *Registry) error {
	doc := Document{
		Locales:    reg.Table().Locales(),
		Categories: reg.Categories(),
		Tools:      reg.RawEntries(),
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("registry: encode: %w", err)
	}
	return enc.Close()
}

//go:embed data/registry.yaml
var embeddedRegistry []byte

var builtin struct {
	once sync.Once
	reg  *Registry
	err  error
}

// Builtin returns the registry shipped with the binary, resolved against
// locale.DefaultTable(). It is parsed once; later calls share the result.
func Builtin() (*Registry, error) {
	builtin.once.Do(func() {
		builtin.reg, builtin.err = Parse(embeddedRegistry, locale.DefaultTable())
	})
	return builtin.reg, builtin.err
}
