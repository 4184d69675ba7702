package registry

import "sync/atomic"

// Handle holds the current registry. Readers load an immutable snapshot;
// reloads build a new Registry and swap the pointer. Nothing is mutated in place.
type Handle struct {
	cur atomic.Pointer[snapshot]
}

type snapshot struct {
	reg *Registry
	gen uint64
}

// NewHandle returns a handle whose first generation is reg.
func NewHandle(reg *Registry) *Handle {
	h := &Handle{}
	h.cur.Store(&snapshot{reg: reg, gen: 1})
	return h
}

// Load returns the current registry.
func (h *Handle) Load() *Registry {
	return h.cur.Load().reg
}

// Current returns the current registry and its generation.
func (h *Handle) Current() (*Registry, uint64) {
	s := h.cur.Load()
	return s.reg, s.gen
}

// Generation returns the number of registries installed so far.
func (h *Handle) Generation() uint64 {
	return h.cur.Load().gen
}

// Swap installs reg and returns its generation.
func (h *Handle) Swap(reg *Registry) uint64 {
	for {
		old := h.cur.Load()
		next := &snapshot{reg: reg, gen: old.gen + 1}
		if h.cur.CompareAndSwap(old, next) {
			return next.gen
		}
	}
}
