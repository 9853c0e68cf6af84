package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	syswhispers "github.com/Sh0ckFR/SysWhispers2"
	"github.com/Sh0ckFR/SysWhispers2/pkg/catalog"
	"github.com/Sh0ckFR/SysWhispers2/pkg/errors"
	"github.com/Sh0ckFR/SysWhispers2/pkg/logger"
)

const banner = "                                                 \n" +
	"                  .                         ,--. \n" +
	",-. . . ,-. . , , |-. o ,-. ,-. ,-. ,-. ,-.    / \n" +
	"`-. | | `-. |/|/  | | | `-. | | |-' |   `-. ,-'  \n" +
	"`-' `-| `-' ' '   ' ' ' `-' |-' `-' '   `-' `--- \n" +
	"     /|                     |  @Jackson_T        \n" +
	"    `-'                     '  @modexpblog, 2021 \n\n" +
	"SysWhispers2: Why call the kernel when you can whisper?\n"

type flags struct {
	preset    string
	functions string
	outFile   string
	arch      string
	prefix    string
	ntdll     string
	seed      string
	verbose   bool
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "syswhispers",
		Short: "Generate header/ASM pairs for direct system calls",
		Example: "  syswhispers --preset common --out-file syscalls_common\n" +
			"  syswhispers --functions NtTestAlert,NtGetCurrentProcessorNumber --out-file syscalls_test",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprint(stdout, banner+"\n")
			return run(cmd.Context(), f, stdout, stderr)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.preset, "preset", "p", "", `Preset ("all", "common")`)
	fl.StringVarP(&f.functions, "functions", "f", "", "Comma-separated functions")
	fl.StringVarP(&f.outFile, "out-file", "o", "", "Output basename (w/o extension)")
	fl.StringVarP(&f.arch, "architecture", "a", "x64", "Define architecture, x86_64 or x64")
	fl.StringVar(&f.prefix, "function-prefix", catalog.CanonicalPrefix, "Function prefix")
	fl.StringVar(&f.ntdll, "ntdll", "", "Check hashes against the exports of this ntdll.dll")
	fl.StringVar(&f.seed, "seed", "", "Fixed hash seed in hex (random per run by default)")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "Log each resolution and hashing step")

	cmd.MarkFlagRequired("out-file")
	cmd.MarkFlagsMutuallyExclusive("preset", "functions")
	cmd.MarkFlagsOneRequired("preset", "functions")

	return cmd
}

func run(ctx context.Context, f flags, stdout, stderr io.Writer) error {
	seed, err := parseSeed(f.seed)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if f.verbose {
		level = slog.LevelDebug
	}

	cfg := syswhispers.Config{
		Preset:       f.preset,
		Functions:    syswhispers.ParseFunctions(f.functions),
		OutFile:      f.outFile,
		Architecture: f.arch,
		Prefix:       f.prefix,
		Ntdll:        f.ntdll,
		Seed:         seed,
		Logger:       logger.NewTextLogger(stderr, level),
	}

	switch f.preset {
	case catalog.PresetAll:
		fmt.Fprintln(stdout, "All functions selected.")
	case catalog.PresetCommon:
		fmt.Fprintln(stdout, "Common functions selected.")
	}

	res, err := syswhispers.Generate(ctx, cfg)
	if err != nil {
		return err
	}
	fmt.Fprint(stdout, res.Summary())
	return nil
}

func parseSeed(s string) (uint32, error) {
	if s == "" {
		return 0, nil
	}
	hex := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || v == 0 {
		return 0, errors.Newf(errors.Configuration, "invalid seed %q", s)
	}
	return uint32(v), nil
}
