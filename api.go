package syswhispers

import (
	"context"

	"github.com/Sh0ckFR/SysWhispers2/pkg/catalog"
	"github.com/Sh0ckFR/SysWhispers2/pkg/errors"
	"github.com/Sh0ckFR/SysWhispers2/pkg/logger"
	"github.com/Sh0ckFR/SysWhispers2/pkg/obf"
	"github.com/Sh0ckFR/SysWhispers2/pkg/prebuild"
	"github.com/Sh0ckFR/SysWhispers2/pkg/syscall"
)

var HashSyscall = obf.HashSyscall
var NewSeed = obf.NewSeed
var ParseFunctions = catalog.ParseFunctions
var Presets = catalog.Presets

// Result of a generation run.
type Result = prebuild.Result

// Config is one generation request, the way the command line describes it.
type Config struct {
	// Preset and Functions are mutually exclusive.
	Preset    string
	Functions []string
	// OutFile is the output path without extension.
	OutFile      string
	Architecture string
	Prefix       string
	// Ntdll optionally names an ntdll image to check the hashes against.
	Ntdll  string
	Seed   uint32
	Logger *logger.Logger
}

// Selection resolves the requested canonical function names.
func (c Config) Selection(cat *catalog.Catalog) ([]string, error) {
	switch {
	case c.Preset != "" && len(c.Functions) > 0:
		return nil, errors.Newf(errors.Configuration, "--preset and --functions are mutually exclusive")
	case c.Preset != "":
		return catalog.Preset(c.Preset, cat)
	case len(c.Functions) > 0:
		return c.Functions, nil
	}
	return nil, errors.Newf(errors.Configuration, "--preset XOR --functions switch must be specified")
}

// Generate validates cfg and writes the header, C and assembly files.
// Configuration errors are reported before anything touches the disk.
func Generate(ctx context.Context, cfg Config) (*Result, error) {
	arch := cfg.Architecture
	if arch == "" {
		arch = syscall.X64{}.Name()
	}
	variant, err := syscall.Parse(arch)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Default()
	if err != nil {
		return nil, err
	}
	names, err := cfg.Selection(cat)
	if err != nil {
		return nil, err
	}

	opts := []prebuild.Option{
		prebuild.WithVariant(variant),
		prebuild.WithCatalog(cat),
		prebuild.WithSeed(cfg.Seed),
		prebuild.WithNtdll(cfg.Ntdll),
		prebuild.WithLogger(cfg.Logger),
	}
	if cfg.Prefix != "" {
		opts = append(opts, prebuild.WithPrefix(cfg.Prefix))
	}

	g, err := prebuild.New(opts...)
	if err != nil {
		return nil, err
	}
	return g.Generate(ctx, names, cfg.OutFile)
}
