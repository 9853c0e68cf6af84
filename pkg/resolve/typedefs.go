package resolve

import (
	"strings"

	"github.com/samber/lo"

	"github.com/Sh0ckFR/SysWhispers2/pkg/catalog"
	"github.com/Sh0ckFR/SysWhispers2/pkg/errors"
)

type mark uint8

const (
	unvisited mark = iota
	visiting
	done
)

type typedefResolver struct {
	c     *catalog.Catalog
	marks map[int]mark
	path  []int
	order []int
}

// Typedefs returns the definitions the parameters of names need, each once,
// every definition after the ones it depends on.
//
// Parameter types with no definition are primitives and are skipped. A
// dependency with no definition is a CatalogInconsistency and a dependency
// cycle is a DependencyCycle; both fail the whole resolution.
func Typedefs(c *catalog.Catalog, names []string) ([]catalog.TypeDefinition, error) {
	roots, err := Roots(c, names)
	if err != nil {
		return nil, err
	}

	r := &typedefResolver{
		c:     c,
		marks: make(map[int]mark),
	}
	for _, root := range roots {
		if err := r.visit(root); err != nil {
			return nil, err
		}
	}

	return lo.Map(r.order, func(i int, _ int) catalog.TypeDefinition {
		return c.Typedef(i)
	}), nil
}

// Roots returns the indices of the definitions directly referenced by the
// parameters of names, in first-discovery order.
func Roots(c *catalog.Catalog, names []string) ([]int, error) {
	var roots []int
	for _, name := range names {
		p, ok := c.Prototype(name)
		if !ok {
			return nil, errors.Newf(errors.UnknownFunction, "prototypes are not available for %s", name)
		}
		for _, param := range p.Params {
			if i, ok := c.TypedefFor(param.Type); ok {
				roots = append(roots, i)
			}
		}
	}
	return lo.Uniq(roots), nil
}

// visit emits i after all of its dependencies (post-order).
func (r *typedefResolver) visit(i int) error {
	switch r.marks[i] {
	case done:
		return nil
	case visiting:
		return errors.Newf(errors.DependencyCycle, "%s", r.cycleFrom(i))
	}

	r.marks[i] = visiting
	r.path = append(r.path, i)

	td := r.c.Typedef(i)
	for _, dep := range td.Dependencies {
		j, ok := r.c.TypedefFor(dep)
		if !ok {
			return errors.Newf(errors.CatalogInconsistency, "%s depends on %s, which has no definition", label(td), dep)
		}
		if err := r.visit(j); err != nil {
			return err
		}
	}

	r.path = r.path[:len(r.path)-1]
	r.marks[i] = done
	r.order = append(r.order, i)
	return nil
}

func (r *typedefResolver) cycleFrom(i int) string {
	start := lo.IndexOf(r.path, i)
	cycle := append(lo.Map(r.path[start:], func(j int, _ int) string {
		return label(r.c.Typedef(j))
	}), label(r.c.Typedef(i)))
	return strings.Join(cycle, " -> ")
}

func label(td catalog.TypeDefinition) string {
	return td.Identifiers[0]
}
