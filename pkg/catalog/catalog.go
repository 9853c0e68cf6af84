// Package catalog holds the typedef and prototype tables the generator reads.
//
// A Catalog is immutable once loaded. Renaming functions for a custom prefix
// produces a new Catalog (see WithPrefix) and leaves the receiver untouched.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/Sh0ckFR/SysWhispers2/data"
	"github.com/Sh0ckFR/SysWhispers2/pkg/errors"
)

// CanonicalPrefix is the prefix every catalog function is keyed under.
const CanonicalPrefix = "Nt"

// Direction is the SAL-style direction of a parameter.
type Direction int

const (
	None Direction = iota
	In
	Out
	InOut
)

func (d Direction) String() string {
	switch d {
	case In:
		return "IN"
	case Out:
		return "OUT"
	case InOut:
		return "IN OUT"
	}
	return ""
}

// TypeDefinition is a reusable C type declaration.
type TypeDefinition struct {
	Identifiers  []string `json:"identifiers"`
	Dependencies []string `json:"dependencies"`
	Definition   string   `json:"definition"`
}

// Satisfies reports whether typeName is one of the definition's identifiers.
func (t TypeDefinition) Satisfies(typeName string) bool {
	return slices.Contains(t.Identifiers, typeName)
}

type Parameter struct {
	Type     string `json:"type"`
	In       bool   `json:"in"`
	Out      bool   `json:"out"`
	Optional bool   `json:"optional"`
	Name     string `json:"name"`
}

func (p Parameter) Direction() Direction {
	switch {
	case p.In && p.Out:
		return InOut
	case p.In:
		return In
	case p.Out:
		return Out
	}
	return None
}

// Prototype is a native function signature. Canonical is the Nt name the
// function is keyed under in the data set; Name is what gets emitted.
type Prototype struct {
	Name      string
	Canonical string
	Params    []Parameter
}

type prototypeJSON struct {
	Params []Parameter `json:"params"`
}

type Catalog struct {
	typedefs   []TypeDefinition
	byIdent    map[string]int
	prototypes map[string]Prototype
	canonical  map[string]string // canonical name -> current name
	order      []string          // canonical names in data order
	prefix     string
}

// Default loads the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Load(data.Typedefs, data.Prototypes)
}

// Load parses the typedef list and the prototype object. Prototype order
// follows the key order of the JSON document.
func Load(typedefsJSON, prototypesJSON []byte) (*Catalog, error) {
	var typedefs []TypeDefinition
	if err := json.Unmarshal(typedefsJSON, &typedefs); err != nil {
		return nil, errors.Wrap(errors.CatalogInconsistency, err, "decode typedefs")
	}

	c := &Catalog{
		typedefs:   typedefs,
		byIdent:    make(map[string]int),
		prototypes: make(map[string]Prototype),
		canonical:  make(map[string]string),
		prefix:     CanonicalPrefix,
	}

	for i, td := range typedefs {
		if len(td.Identifiers) == 0 {
			return nil, errors.Newf(errors.CatalogInconsistency, "typedef %d has no identifiers", i)
		}
		for _, ident := range td.Identifiers {
			// first definition wins, later duplicates are unreachable
			if _, ok := c.byIdent[ident]; !ok {
				c.byIdent[ident] = i
			}
		}
	}

	dec := json.NewDecoder(bytes.NewReader(prototypesJSON))
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(errors.CatalogInconsistency, err, "decode prototypes")
		}
		name, ok := tok.(string)
		if !ok {
			return nil, errors.Newf(errors.CatalogInconsistency, "unexpected token %v in prototypes", tok)
		}
		var p prototypeJSON
		if err := dec.Decode(&p); err != nil {
			return nil, errors.Wrap(errors.CatalogInconsistency, err, fmt.Sprintf("decode prototype %s", name))
		}
		if _, dup := c.prototypes[name]; dup {
			return nil, errors.Newf(errors.CatalogInconsistency, "duplicate prototype %s", name)
		}
		c.prototypes[name] = Prototype{Name: name, Canonical: name, Params: p.Params}
		c.canonical[name] = name
		c.order = append(c.order, name)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}

	return c, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(errors.CatalogInconsistency, err, "decode prototypes")
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return errors.Newf(errors.CatalogInconsistency, "prototypes: expected %q, got %v", want, tok)
	}
	return nil
}

// Prefix is the function prefix the catalog's names currently use.
func (c *Catalog) Prefix() string { return c.prefix }

// Typedefs returns the typedef table. Callers must not modify it.
func (c *Catalog) Typedefs() []TypeDefinition { return c.typedefs }

// Typedef returns the definition at index i.
func (c *Catalog) Typedef(i int) TypeDefinition { return c.typedefs[i] }

// TypedefFor returns the index of the definition satisfying typeName.
func (c *Catalog) TypedefFor(typeName string) (int, bool) {
	i, ok := c.byIdent[typeName]
	return i, ok
}

// Prototype looks a function up by its current name.
func (c *Catalog) Prototype(name string) (Prototype, bool) {
	p, ok := c.prototypes[name]
	return p, ok
}

// Names returns the current function names in data order.
func (c *Catalog) Names() []string {
	return lo.Map(c.order, func(canonical string, _ int) string {
		return c.canonical[canonical]
	})
}

// CanonicalNames returns the Nt names in data order.
func (c *Catalog) CanonicalNames() []string {
	return slices.Clone(c.order)
}

// Require fails with UnknownFunction naming every requested function the
// catalog does not know.
func (c *Catalog) Require(names []string) error {
	missing := lo.Uniq(lo.Filter(names, func(n string, _ int) bool {
		_, ok := c.prototypes[n]
		return !ok
	}))
	if len(missing) > 0 {
		return errors.Newf(errors.UnknownFunction, "prototypes are not available for %s", strings.Join(missing, ", "))
	}
	return nil
}
