package prebuild

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Sh0ckFR/SysWhispers2/pkg/utils"
)

const stubsSuffix = "stubs"

// Paths are the three artifact locations of one session.
type Paths struct {
	Header   string
	Source   string
	Assembly string
}

// PathsFor derives the artifact paths from the output base path.
func PathsFor(basename string) Paths {
	return Paths{
		Header:   basename + ".h",
		Source:   basename + ".c",
		Assembly: basename + StubsSuffix(basename) + ".asm",
	}
}

// StubsSuffix follows the naming of the base path: "Stubs" when its final
// component is title-cased, with a leading underscore when the path already
// uses underscores anywhere.
func StubsSuffix(basename string) string {
	suffix := stubsSuffix
	if utils.IsTitle(filepath.Base(basename)) {
		suffix = cases.Title(language.Und).String(suffix)
	}
	if strings.Contains(basename, "_") {
		suffix = "_" + suffix
	}
	return suffix
}
