package syscall

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Sh0ckFR/SysWhispers2/pkg/errors"
)

// ResolverSymbol is the runtime routine the stubs call to turn a hash into a
// service number. It is defined in the generated C file.
const ResolverSymbol = "SW2_GetSyscallNumber"

// Variant is one of the two supported stub flavours. The emitter only ever
// talks to this interface.
type Variant interface {
	// Name is the architecture token that selects the variant.
	Name() string
	Preamble() string
	// Stub returns the MASM procedure for one function.
	Stub(name string, hash uint32) string
	Trailer() string

	variant()
}

var variants = map[string]Variant{
	X64{}.Name(): X64{},
	X86{}.Name(): X86{},
}

// Parse returns the variant selected by an architecture token.
func Parse(token string) (Variant, error) {
	if v, ok := variants[token]; ok {
		return v, nil
	}
	return nil, errors.Newf(errors.Configuration,
		"invalid architecture %q, must be %s", token, strings.Join(Tokens(), " or "))
}

// Tokens lists the accepted architecture tokens.
func Tokens() []string {
	tokens := make([]string, 0, len(variants))
	for t := range variants {
		tokens = append(tokens, t)
	}
	sort.Strings(tokens)
	return tokens
}

// hashLiteral renders a hash as a MASM hex literal (leading 0, trailing h).
func hashLiteral(hash uint32) string {
	return fmt.Sprintf("0%08Xh", hash)
}

// Labels extracts the procedure names of an assembly file, in order.
func Labels(asm string) []string {
	var labels []string
	for _, line := range strings.Split(asm, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "EXTERN ") {
			continue
		}
		if name, ok := strings.CutSuffix(line, " PROC"); ok {
			labels = append(labels, name)
		}
	}
	return labels
}
