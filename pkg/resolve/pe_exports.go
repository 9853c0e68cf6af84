package resolve

import (
	"sort"
	"strings"

	"github.com/Binject/debug/pe"
	"github.com/samber/lo"

	"github.com/Sh0ckFR/SysWhispers2/pkg/errors"
	"github.com/Sh0ckFR/SysWhispers2/pkg/obf"
)

// Export represents a single exported symbol from a PE image
type Export struct {
	Name           string
	VirtualAddress uint32
	Ordinal        uint32
}

// Exports lists the named exports of the PE image at path, typically a copy
// of ntdll.dll from the target build.
func Exports(path string) ([]Export, error) {
	file, err := pe.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.IO, err, "open "+path)
	}
	defer file.Close()

	raw, err := file.Exports()
	if err != nil {
		return nil, errors.Wrap(errors.IO, err, "read exports of "+path)
	}

	exports := make([]Export, 0, len(raw))
	for _, e := range raw {
		if e.Name == "" {
			continue
		}
		exports = append(exports, Export{
			Name:           e.Name,
			VirtualAddress: e.VirtualAddress,
			Ordinal:        e.Ordinal,
		})
	}
	return exports, nil
}

// SyscallExports keeps the Zw* exports, sorted by address. This is the set
// SW2_PopulateSyscallList hashes at runtime.
func SyscallExports(exports []Export) []Export {
	zw := lo.Filter(exports, func(e Export, _ int) bool {
		return strings.HasPrefix(e.Name, obf.ExportPrefix)
	})
	sort.SliceStable(zw, func(i, j int) bool {
		return zw[i].VirtualAddress < zw[j].VirtualAddress
	})
	return zw
}

// CheckExports verifies a session's hash table against an image's exports:
// every hashed function must have its Zw export present, and no other Zw
// export may hash to a value the session uses.
func CheckExports(table *obf.Table, exports []Export) error {
	zw := SyscallExports(exports)
	present := lo.SliceToMap(zw, func(e Export) (string, struct{}) {
		return e.Name, struct{}{}
	})

	missing := lo.FilterMap(table.Entries(), func(e obf.Entry, _ int) (string, bool) {
		_, ok := present[e.Export]
		return e.Export, !ok
	})
	if len(missing) > 0 {
		return errors.Newf(errors.UnknownExport, "image does not export %s", strings.Join(missing, ", "))
	}

	seed := table.Hasher().Seed
	for _, e := range zw {
		if entry, ok := table.Lookup(obf.HashSyscall(seed, e.Name)); ok && entry.Export != e.Name {
			return errors.Newf(errors.HashCollision, "%s and %s both hash to %s under seed %s",
				entry.Export, e.Name, obf.Format(entry.Hash), obf.Format(seed))
		}
	}
	return nil
}
