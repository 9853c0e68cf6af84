package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/Sh0ckFR/SysWhispers2/pkg/catalog"
	"github.com/Sh0ckFR/SysWhispers2/pkg/obf"
	"github.com/Sh0ckFR/SysWhispers2/pkg/resolve"
)

// prints the hash SW2_GetSyscallNumber will look up for each name, either
// the names given on the command line or every Zw export of an ntdll image.
//
//	go run ./tools --seed 0x1A2B3C4D NtClose NtOpenProcess
//	go run ./tools --seed 0x1A2B3C4D --ntdll C:\Windows\System32\ntdll.dll
func main() {
	fs := pflag.NewFlagSet("hash_table", pflag.ExitOnError)
	seedHex := fs.String("seed", "", "seed in hex (random if empty)")
	prefix := fs.String("prefix", catalog.CanonicalPrefix, "function prefix used by the names")
	ntdll := fs.String("ntdll", "", "hash every Zw export of this image instead")
	fs.Parse(os.Args[1:])

	seed, err := seedFrom(*seedHex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	hasher := obf.Hasher{Seed: seed, Prefix: *prefix}

	names := fs.Args()
	if *ntdll != "" {
		exports, err := resolve.Exports(*ntdll)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		names = names[:0]
		for _, e := range resolve.SyscallExports(exports) {
			names = append(names, e.Name)
		}
		// export names already carry Zw
		hasher.Prefix = obf.ExportPrefix
	}
	if len(names) == 0 {
		fmt.Fprintln(os.Stderr, "usage: hash_table [--seed HEX] [--prefix Nt] (--ntdll PATH | NAME...)")
		os.Exit(2)
	}

	if collisions := printTable(os.Stdout, hasher, names); collisions > 0 {
		fmt.Fprintf(os.Stderr, "%d collision(s) under seed %s, pick another seed\n", collisions, obf.Format(seed))
		os.Exit(1)
	}
}

func seedFrom(s string) (uint32, error) {
	if s == "" {
		return obf.NewSeed()
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "0x"), 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid seed %q: %w", s, err)
	}
	if v == 0 {
		return 0, fmt.Errorf("invalid seed %q: must be non-zero", s)
	}
	return uint32(v), nil
}

// printTable writes one line per name and returns how many names hashed to a
// value already taken by another export.
func printTable(w io.Writer, hasher obf.Hasher, names []string) int {
	fmt.Fprintf(w, "seed: %s\n\n", obf.Format(hasher.Seed))

	table := obf.NewTable(hasher)
	collisions := 0
	for _, name := range names {
		hash, err := table.Add(name)
		if err != nil {
			fmt.Fprintf(w, "%-48s %-48s %s  <- %v\n", name, hasher.ExportName(name), obf.Format(hasher.Hash(name)), err)
			collisions++
			continue
		}
		fmt.Fprintf(w, "%-48s %-48s %s\n", name, hasher.ExportName(name), obf.Format(hash))
	}
	return collisions
}
