package catalog

import (
	"maps"
	"strings"

	"github.com/samber/lo"
)

// WithPrefix returns a copy of the catalog in which every function keyed
// under CanonicalPrefix is renamed to prefix + the rest of its canonical
// name. The new name is always derived from the canonical one, so repeated
// rewrites with the same prefix are idempotent and rewriting with
// CanonicalPrefix restores the original names.
func (c *Catalog) WithPrefix(prefix string) *Catalog {
	if prefix == c.prefix {
		return c
	}

	out := &Catalog{
		typedefs:   c.typedefs,
		byIdent:    c.byIdent,
		prototypes: make(map[string]Prototype, len(c.prototypes)),
		canonical:  make(map[string]string, len(c.canonical)),
		order:      c.order,
		prefix:     prefix,
	}

	for _, canonical := range c.order {
		p := c.prototypes[c.canonical[canonical]]
		p.Name = renamed(canonical, prefix)
		out.prototypes[p.Name] = p
		out.canonical[canonical] = p.Name
	}
	return out
}

// Rename maps canonical function names to the names this catalog emits,
// keeping their relative order. Unknown names pass through unchanged.
func (c *Catalog) Rename(names []string) []string {
	return lo.Map(names, func(n string, _ int) string {
		if current, ok := c.canonical[n]; ok {
			return current
		}
		return n
	})
}

// Renamed reports which canonical names changed under the catalog prefix,
// as a canonical -> current map.
func (c *Catalog) Renamed() map[string]string {
	changed := maps.Clone(c.canonical)
	maps.DeleteFunc(changed, func(k, v string) bool { return k == v })
	return changed
}

func renamed(canonical, prefix string) string {
	if rest, ok := strings.CutPrefix(canonical, CanonicalPrefix); ok {
		return prefix + rest
	}
	return canonical
}
