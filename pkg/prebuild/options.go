package prebuild

import (
	"github.com/Sh0ckFR/SysWhispers2/pkg/catalog"
	"github.com/Sh0ckFR/SysWhispers2/pkg/logger"
	"github.com/Sh0ckFR/SysWhispers2/pkg/syscall"
)

type options struct {
	prefix  string
	seed    uint32
	variant syscall.Variant
	ntdll   string
	catalog *catalog.Catalog
	log     *logger.Logger
}

func defaults() options {
	return options{
		prefix:  catalog.CanonicalPrefix,
		variant: syscall.X64{},
		log:     logger.Noop(),
	}
}

// Option configures a Generator.
type Option func(*options)

// WithPrefix sets the prefix emitted in place of Nt. Default "Nt".
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithSeed pins the session seed. Zero draws a fresh one per session.
func WithSeed(seed uint32) Option {
	return func(o *options) { o.seed = seed }
}

// WithVariant selects the stub flavour. Default x64.
func WithVariant(v syscall.Variant) Option {
	return func(o *options) { o.variant = v }
}

// WithNtdll checks the session's hashes against the exports of an ntdll
// image before anything is written.
func WithNtdll(path string) Option {
	return func(o *options) { o.ntdll = path }
}

// WithCatalog replaces the embedded function and type data.
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *options) { o.catalog = c }
}

func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}
