package prebuild

import (
	"context"
	"fmt"
	"regexp"

	"github.com/samber/lo"

	"github.com/Sh0ckFR/SysWhispers2/pkg/catalog"
	"github.com/Sh0ckFR/SysWhispers2/pkg/errors"
	"github.com/Sh0ckFR/SysWhispers2/pkg/obf"
	"github.com/Sh0ckFR/SysWhispers2/pkg/resolve"
	"github.com/Sh0ckFR/SysWhispers2/pkg/syscall"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Generator turns a function selection into header, C and assembly
// artifacts. A Generator holds no session state and may be reused.
type Generator struct {
	opts options
}

func New(opts ...Option) (*Generator, error) {
	o := defaults()
	for _, opt := range opts {
		opt(&o)
	}

	if !identifier.MatchString(o.prefix) {
		return nil, errors.Newf(errors.Configuration, "invalid function prefix %q", o.prefix)
	}
	if o.variant == nil {
		return nil, errors.Newf(errors.Configuration, "no architecture selected")
	}
	if o.catalog == nil {
		c, err := catalog.Default()
		if err != nil {
			return nil, err
		}
		o.catalog = c
	}
	// callers may hand in an already prefixed catalog
	o.catalog = o.catalog.WithPrefix(catalog.CanonicalPrefix)

	return &Generator{opts: o}, nil
}

// Artifacts is one rendered session, not yet written anywhere.
type Artifacts struct {
	Seed      uint32
	Prefix    string
	Variant   syscall.Variant
	Functions []obf.Entry
	Typedefs  []catalog.TypeDefinition

	Header   string
	Source   string
	Assembly string
}

// Build resolves, hashes and renders names (canonical Nt names) without
// touching the filesystem. Every session gets its own seed unless one was
// pinned with WithSeed.
func (g *Generator) Build(ctx context.Context, names []string, basename string) (*Artifacts, error) {
	if basename == "" {
		return nil, errors.Newf(errors.Configuration, "no output path given")
	}
	names = lo.Uniq(names)
	if len(names) == 0 {
		return nil, errors.Newf(errors.Configuration, "no functions requested")
	}
	if err := g.opts.catalog.Require(names); err != nil {
		return nil, err
	}

	seed := g.opts.seed
	if seed == 0 {
		var err error
		if seed, err = obf.NewSeed(); err != nil {
			return nil, err
		}
	}
	log := g.opts.log.WithSession(seed, g.opts.variant.Name())

	cat := g.opts.catalog.WithPrefix(g.opts.prefix)
	funcs := cat.Rename(names)

	typedefs, err := resolve.Typedefs(cat, funcs)
	log.LogResolve(ctx, len(funcs), len(typedefs), err)
	if err != nil {
		return nil, err
	}

	prototypes := lo.Map(funcs, func(name string, _ int) catalog.Prototype {
		p, _ := cat.Prototype(name)
		return p
	})

	table := obf.NewTable(obf.Hasher{Seed: seed, Prefix: g.opts.prefix})
	for _, name := range funcs {
		hash, err := table.Add(name)
		if err != nil {
			return nil, err
		}
		log.LogHash(ctx, name, table.Hasher().ExportName(name), hash)
	}

	if g.opts.ntdll != "" {
		exports, err := resolve.Exports(g.opts.ntdll)
		if err != nil {
			return nil, err
		}
		if err := resolve.CheckExports(table, exports); err != nil {
			return nil, err
		}
		log.DebugContext(ctx, "hashes checked against image", "path", g.opts.ntdll, "exports", len(exports))
	}

	entries := table.Entries()
	return &Artifacts{
		Seed:      seed,
		Prefix:    g.opts.prefix,
		Variant:   g.opts.variant,
		Functions: entries,
		Typedefs:  typedefs,
		Header:    Header(seed, typedefs, prototypes),
		Source:    Source(basename),
		Assembly:  Assembly(g.opts.variant, entries),
	}, nil
}

// Result is a session whose artifacts are on disk.
type Result struct {
	*Artifacts
	Paths Paths
}

// Generate builds the artifacts for names and writes them next to basename:
// the header first, then the C file, then the assembly. Nothing is written
// unless the whole session rendered.
func (g *Generator) Generate(ctx context.Context, names []string, basename string) (*Result, error) {
	a, err := g.Build(ctx, names, basename)
	if err != nil {
		return nil, err
	}
	log := g.opts.log.WithSession(a.Seed, a.Variant.Name())

	paths := PathsFor(basename)
	for _, artifact := range []struct {
		path    string
		content string
	}{
		{paths.Header, a.Header},
		{paths.Source, a.Source},
		{paths.Assembly, a.Assembly},
	} {
		err := writeArtifact(artifact.path, artifact.content)
		log.LogArtifact(ctx, artifact.path, len(artifact.content), err)
		if err != nil {
			return nil, err
		}
	}

	return &Result{Artifacts: a, Paths: paths}, nil
}

// Summary is the completion message listing the written files.
func (r *Result) Summary() string {
	return fmt.Sprintf("Complete! Files written to:\n\t%s\n\t%s\n\t%s\n",
		r.Paths.Header, r.Paths.Source, r.Paths.Assembly)
}
