package data

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTemplates(t *testing.T) {
	assert.True(t, strings.HasPrefix(BaseSource, `#include "<BASENAME>.h"`))
	assert.Contains(t, BaseSource, "SW2_HashSyscall")
	assert.Contains(t, BaseHeader, "#define SW2_SEED <SEED_VALUE>")
	assert.NotEmpty(t, Typedefs)
	assert.NotEmpty(t, Prototypes)
}
