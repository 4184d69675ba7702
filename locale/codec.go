package locale

import (
	"path"
	"strings"
)

// Trailing-slash policy: codec output never ends in "/" except the
// default-locale root, which is exactly "/". Non-default roots are "/{code}".
// Repeated slashes collapse, "." and ".." segments are resolved, query
// strings and fragments are dropped, and every leading locale segment (including the default code) is stripped
// before a prefix is applied. All functions here are total.

// FromPathname returns the locale code encoded in the first path segment,
// or the default code when the first segment is not a non-default locale.
func (t *Table) FromPathname(pathname string) string {
	segs := segments(pathname)
	if len(segs) > 0 && t.Has(segs[0]) && !t.IsDefault(segs[0]) {
		return segs[0]
	}
	return t.DefaultCode()
}

// Strip removes any leading locale segments and returns the bare path.
func (t *Table) Strip(pathname string) string {
	return join(t.bare(segments(pathname)))
}

// Split returns the detected locale code and the bare path.
func (t *Table) Split(pathname string) (string, string) {
	return t.FromPathname(pathname), t.Strip(pathname)
}

// Localize rewrites pathname for target. Unknown targets are treated as the
// default locale. Localize(Localize(p, l), l) == Localize(p, l).
func (t *Table) Localize(pathname, target string) string {
	target = t.Normalize(target)
	segs := t.bare(segments(pathname))
	if !t.IsDefault(target) {
		segs = append([]string{target}, segs...)
	}
	return join(segs)
}

func (t *Table) bare(segs []string) []string {
	for len(segs) > 0 && t.Has(segs[0]) {
		segs = segs[1:]
	}
	return segs
}

func segments(pathname string) []string {
	if i := strings.IndexAny(pathname, "?#"); i >= 0 {
		pathname = pathname[:i]
	}
	parts := strings.Split(path.Clean("/"+pathname), "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func join(segs []string) string {
	if len(segs) == 0 {
		return "/"
	}
	return "/" + strings.Join(segs, "/")
}
