package obf

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/Sh0ckFR/SysWhispers2/pkg/errors"
)

// ExportPrefix is the prefix of the ntdll exports the runtime resolver hashes.
// Nt and Zw exports share service numbers, only Zw* entries are enumerated.
const ExportPrefix = "Zw"

const nativePrefix = "Nt"

const (
	seedFloor = 1 << 28
	seedSpan  = 1<<32 - seedFloor
)

// NewSeed returns a uniformly random seed in [2^28, 2^32-1] so the header
// literal always has eight significant hex digits.
func NewSeed() (uint32, error) {
	var buf [4]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			return 0, fmt.Errorf("generate seed: %w", err)
		}
		v := binary.LittleEndian.Uint32(buf[:])
		if v < seedSpan {
			return seedFloor + v, nil
		}
	}
}

func ror8(v uint32) uint32 {
	return v>>8 | v<<24
}

// HashSyscall is SW2_HashSyscall: every overlapping pair of bytes of the
// NUL-terminated name is read as a little-endian WORD and mixed into the
// accumulator. Arithmetic wraps at 32 bits like the C version.
func HashSyscall(seed uint32, name string) uint32 {
	buf := make([]byte, len(name)+1)
	copy(buf, name)

	h := seed
	for i := 0; i+1 < len(buf); i++ {
		partial := uint32(binary.LittleEndian.Uint16(buf[i:]))
		h ^= partial + ror8(h)
	}
	return h
}

// Format renders a hash as a C literal.
func Format(hash uint32) string {
	return fmt.Sprintf("0x%08X", hash)
}

// Hasher hashes generated function names under one session seed.
type Hasher struct {
	Seed uint32
	// Prefix is the prefix the generated functions carry. Empty means Nt.
	Prefix string
}

// ExportName maps a generated function name back to the Zw export name.
// Names without the configured prefix are returned unchanged.
func (h Hasher) ExportName(name string) string {
	prefix := h.Prefix
	if prefix == "" {
		prefix = nativePrefix
	}
	if rest, ok := strings.CutPrefix(name, prefix); ok {
		return ExportPrefix + rest
	}
	return name
}

// Hash returns the hash of the export backing name.
func (h Hasher) Hash(name string) uint32 {
	return HashSyscall(h.Seed, h.ExportName(name))
}

// Entry is one hashed function.
type Entry struct {
	Name   string
	Export string
	Hash   uint32
}

// Table collects the hashes of one session and rejects collisions.
type Table struct {
	hasher  Hasher
	entries []Entry
	byHash  map[uint32]int
}

func NewTable(h Hasher) *Table {
	return &Table{
		hasher: h,
		byHash: make(map[uint32]int),
	}
}

func (t *Table) Hasher() Hasher { return t.hasher }

// Add hashes name and records it. Adding a name twice returns the recorded
// hash. Two different exports hashing to the same value is a HashCollision:
// the runtime could not tell them apart, so the session must pick a new seed.
func (t *Table) Add(name string) (uint32, error) {
	export := t.hasher.ExportName(name)
	hash := HashSyscall(t.hasher.Seed, export)

	if idx, ok := t.byHash[hash]; ok {
		existing := t.entries[idx]
		if existing.Export != export {
			return 0, errors.Newf(errors.HashCollision, "%s and %s both hash to %s under seed %s",
				existing.Export, export, Format(hash), Format(t.hasher.Seed))
		}
		return hash, nil
	}

	t.byHash[hash] = len(t.entries)
	t.entries = append(t.entries, Entry{Name: name, Export: export, Hash: hash})
	return hash, nil
}

// Lookup returns the entry recorded for hash.
func (t *Table) Lookup(hash uint32) (Entry, bool) {
	idx, ok := t.byHash[hash]
	if !ok {
		return Entry{}, false
	}
	return t.entries[idx], true
}

// Entries returns the recorded entries in insertion order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *Table) Len() int { return len(t.entries) }
