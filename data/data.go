// Package data holds the templates and catalogs compiled into the generator.
package data

import _ "embed"

// BaseHeader is the header preamble. <SEED_VALUE> is replaced by the session seed.
//
//go:embed base.h
var BaseHeader string

// BaseSource is the runtime support file. <BASENAME> is replaced by the
// output base name so the file includes its sibling header.
//
//go:embed base.c.tmpl
var BaseSource string

//go:embed typedefs.json
var Typedefs []byte

//go:embed prototypes.json
var Prototypes []byte
