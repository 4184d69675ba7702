package toolmeta

import (
	"sync"

	"github.com/eringen/toolmeta/metadata"
	"github.com/eringen/toolmeta/registry"
)

type cacheKey struct {
	kind     byte
	id       string
	locale   string
	pathname string
}

const (
	kindTool     = 't'
	kindCategory = 'c'
)

// MetadataCache memoizes generated metadata per registry generation. A
// registry swap discards every entry; nothing else expires.
type MetadataCache struct {
	mu      sync.RWMutex
	gen     uint64
	entries map[cacheKey]metadata.Metadata
	max     int

	handle    *registry.Handle
	generator *metadata.Generator
}

// NewMetadataCache creates a cache holding at most max results per generation.
func NewMetadataCache(h *registry.Handle, g *metadata.Generator, max int) *MetadataCache {
	return &MetadataCache{
		handle:    h,
		generator: g,
		max:       max,
		entries:   make(map[cacheKey]metadata.Metadata),
	}
}

// Tool returns the metadata for a tool page.
func (c *MetadataCache) Tool(id string, opts metadata.Options) metadata.Metadata {
	return c.get(cacheKey{kindTool, id, opts.Locale, opts.Pathname}, func() metadata.Metadata {
		return c.generator.Generate(id, opts)
	})
}

// Category returns the metadata for a category page.
func (c *MetadataCache) Category(id string, opts metadata.Options) metadata.Metadata {
	return c.get(cacheKey{kindCategory, id, opts.Locale, opts.Pathname}, func() metadata.Metadata {
		return c.generator.GenerateCategory(id, opts)
	})
}

// get reads the generation before generating, so a result built from a newer
// registry may land under an older generation, which is dropped on the next
// read. A result from an older registry never lands under a newer one.
func (c *MetadataCache) get(key cacheKey, build func() metadata.Metadata) metadata.Metadata {
	gen := c.handle.Generation()

	c.mu.RLock()
	if c.gen == gen {
		if m, ok := c.entries[key]; ok {
			c.mu.RUnlock()
			return m
		}
	}
	c.mu.RUnlock()

	m := build()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		if gen < c.gen {
			return m
		}
		c.gen = gen
		c.entries = make(map[cacheKey]metadata.Metadata)
	}
	if c.max > 0 && len(c.entries) >= c.max {
		c.entries = make(map[cacheKey]metadata.Metadata)
	}
	c.entries[key] = m
	return m
}

// Len returns the number of cached results for the current generation.
func (c *MetadataCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Invalidate clears the cache.
func (c *MetadataCache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[cacheKey]metadata.Metadata)
	c.mu.Unlock()
}
