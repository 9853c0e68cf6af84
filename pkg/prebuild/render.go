package prebuild

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Sh0ckFR/SysWhispers2/data"
	"github.com/Sh0ckFR/SysWhispers2/pkg/catalog"
	"github.com/Sh0ckFR/SysWhispers2/pkg/obf"
	"github.com/Sh0ckFR/SysWhispers2/pkg/syscall"
)

const (
	seedPlaceholder     = "<SEED_VALUE>"
	basenamePlaceholder = "<BASENAME>"
)

// Prototype renders the C declaration of one function.
func Prototype(p catalog.Prototype) string {
	var b strings.Builder
	fmt.Fprintf(&b, "EXTERN_C NTSTATUS %s(", p.Name)
	for i, param := range p.Params {
		b.WriteString("\n\t")
		if param.In {
			b.WriteString("IN ")
		}
		if param.Out {
			b.WriteString("OUT ")
		}
		b.WriteString(param.Type + " " + param.Name)
		if param.Optional {
			b.WriteString(" OPTIONAL")
		}
		if i < len(p.Params)-1 {
			b.WriteString(",")
		}
	}
	b.WriteString(");")
	return b.String()
}

// Header renders the .h artifact: the base header with the seed filled in,
// then the typedefs, then one prototype per function.
func Header(seed uint32, typedefs []catalog.TypeDefinition, prototypes []catalog.Prototype) string {
	var b strings.Builder
	b.WriteString(strings.Replace(data.BaseHeader, seedPlaceholder, obf.Format(seed), 1))
	for _, td := range typedefs {
		b.WriteString(td.Definition)
		b.WriteString("\n\n")
	}
	for _, p := range prototypes {
		b.WriteString(Prototype(p))
		b.WriteString("\n\n")
	}
	b.WriteString("#endif\n")
	return b.String()
}

// Source renders the .c artifact. Only the final path component of basename
// goes into the include directive.
func Source(basename string) string {
	return strings.Replace(data.BaseSource, basenamePlaceholder, filepath.Base(basename), 1)
}

// Assembly renders the .asm artifact, one stub per entry in order.
func Assembly(v syscall.Variant, entries []obf.Entry) string {
	var b strings.Builder
	b.WriteString(v.Preamble())
	for _, e := range entries {
		b.WriteString(v.Stub(e.Name, e.Hash))
		b.WriteString("\n")
	}
	b.WriteString(v.Trailer())
	return b.String()
}
