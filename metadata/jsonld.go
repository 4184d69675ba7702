package metadata

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/eringen/toolmeta/registry"
)

const schemaContext = "https://schema.org"

// Object is a JSON object that marshals its keys in insertion order, so
// JSON-LD output is byte-stable across runs.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Set stores v under key. Replacing an existing key keeps its position.
func (o *Object) Set(key string, v any) *Object {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
	return o
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// MarshalJSON implements json.Marshaler. HTML-sensitive characters are
// escaped, so the output is safe inside a <script> element.
func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// String returns the JSON encoding, or "{}" if a passthrough value cannot
// be encoded.
func (o *Object) String() string {
	b, err := o.MarshalJSON()
	if err != nil {
		return "{}"
	}
	return string(b)
}

type ldInput struct {
	name        string
	description string
	url         string
	lang        string
	schema      *registry.Schema
}

// ldRule contributes one optional key. A rule that reports false leaves the
// key out entirely; emitted JSON-LD never carries empty or null values.
type ldRule struct {
	key   string
	value func(in ldInput) (any, bool)
}

// toolRules run in order after @context and @type.
var toolRules = []ldRule{
	{"name", func(in ldInput) (any, bool) { return in.name, in.name != "" }},
	{"description", func(in ldInput) (any, bool) { return in.description, in.description != "" }},
	{"url", func(in ldInput) (any, bool) { return in.url, in.url != "" }},
	{"inLanguage", func(in ldInput) (any, bool) { return in.lang, in.lang != "" }},
	{"applicationCategory", func(in ldInput) (any, bool) {
		v := strings.TrimSpace(in.schema.ApplicationCategory)
		return v, v != ""
	}},
	{"operatingSystem", func(in ldInput) (any, bool) {
		v := strings.TrimSpace(in.schema.OperatingSystem)
		return v, v != ""
	}},
	{"featureList", func(in ldInput) (any, bool) {
		var out []string
		for _, f := range in.schema.Features {
			if f = strings.TrimSpace(f); f != "" {
				out = append(out, f)
			}
		}
		return out, len(out) > 0
	}},
	{"offers", func(in ldInput) (any, bool) {
		o := in.schema.Offers
		if o == nil || strings.TrimSpace(o.Price) == "" {
			return nil, false
		}
		obj := NewObject().Set("@type", "Offer").Set("price", o.Price)
		if o.Currency != "" {
			obj.Set("priceCurrency", o.Currency)
		}
		return obj, true
	}},
	{"aggregateRating", func(in ldInput) (any, bool) {
		r := in.schema.AggregateRating
		if r == nil || r.Count <= 0 {
			return nil, false
		}
		obj := NewObject().
			Set("@type", "AggregateRating").
			Set("ratingValue", r.Value).
			Set("ratingCount", r.Count)
		if r.Best != 0 {
			obj.Set("bestRating", r.Best)
		}
		if r.Worst != 0 {
			obj.Set("worstRating", r.Worst)
		}
		return obj, true
	}},
}

func buildToolJSONLD(in ldInput) *Object {
	typ := strings.TrimSpace(in.schema.Type)
	if typ == "" {
		typ = "WebApplication"
	}
	obj := NewObject().Set("@context", schemaContext).Set("@type", typ)
	for _, r := range toolRules {
		if v, ok := r.value(in); ok {
			obj.Set(r.key, v)
		}
	}
	applyExtra(obj, in.schema.Extra)
	return obj
}

// applyExtra copies passthrough schema keys in key order. Keys already set
// by a typed rule win. Values are pruned first, and keys left empty are skipped.
func applyExtra(obj *Object, extra map[string]any) {
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k == "" || k == "@context" || k == "@type" {
			continue
		}
		if _, taken := obj.Get(k); taken {
			continue
		}
		if v, ok := prune(extra[k]); ok {
			obj.Set(k, v)
		}
	}
}

// prune drops nulls, blank strings and empty containers from a passthrough
// value at every depth. ok is false when nothing is left.
func prune(v any) (any, bool) {
	switch x := v.(type) {
	case nil:
		return nil, false
	case string:
		return x, strings.TrimSpace(x) != ""
	case []string:
		out := make([]string, 0, len(x))
		for _, s := range x {
			if strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		return out, len(out) > 0
	case []any:
		out := make([]any, 0, len(x))
		for _, e := range x {
			if pv, ok := prune(e); ok {
				out = append(out, pv)
			}
		}
		return out, len(out) > 0
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			if pv, ok := prune(e); ok {
				out[k] = pv
			}
		}
		return out, len(out) > 0
	}
	return v, true
}

type listItem struct {
	name string
	url  string
}

func buildCategoryJSONLD(in ldInput, items []listItem) *Object {
	obj := NewObject().Set("@context", schemaContext).Set("@type", "CollectionPage")
	for _, r := range toolRules[:4] {
		if v, ok := r.value(in); ok {
			obj.Set(r.key, v)
		}
	}
	if len(items) == 0 {
		return obj
	}
	elements := make([]*Object, len(items))
	for i, it := range items {
		elements[i] = NewObject().
			Set("@type", "ListItem").
			Set("position", i+1).
			Set("name", it.name).
			Set("url", it.url)
	}
	obj.Set("mainEntity", NewObject().
		Set("@type", "ItemList").
		Set("numberOfItems", len(items)).
		Set("itemListElement", elements))
	return obj
}
