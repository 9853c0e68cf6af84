package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sh0ckFR/SysWhispers2/pkg/errors"
)

const fixtureTypedefs = `[
	{"identifiers": ["UNICODE_STRING", "PUNICODE_STRING"], "dependencies": [], "definition": "typedef struct _UNICODE_STRING US;"},
	{"identifiers": ["OBJECT_ATTRIBUTES", "POBJECT_ATTRIBUTES"], "dependencies": ["PUNICODE_STRING"], "definition": "typedef struct _OBJECT_ATTRIBUTES OA;"}
]`

const fixturePrototypes = `{
	"NtTestAlert": {"params": []},
	"NtOpenKey": {"params": [
		{"type": "PHANDLE", "in": false, "out": true, "optional": false, "name": "KeyHandle"},
		{"type": "ACCESS_MASK", "in": true, "out": false, "optional": false, "name": "DesiredAccess"},
		{"type": "POBJECT_ATTRIBUTES", "in": true, "out": false, "optional": false, "name": "ObjectAttributes"}
	]},
	"NtClose": {"params": [
		{"type": "HANDLE", "in": true, "out": false, "optional": false, "name": "Handle"}
	]}
}`

func loadFixture(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load([]byte(fixtureTypedefs), []byte(fixturePrototypes))
	require.NoError(t, err)
	return c
}

func TestLoadKeepsDocumentOrder(t *testing.T) {
	c := loadFixture(t)
	assert.Equal(t, []string{"NtTestAlert", "NtOpenKey", "NtClose"}, c.Names())
	assert.Equal(t, CanonicalPrefix, c.Prefix())

	p, ok := c.Prototype("NtOpenKey")
	require.True(t, ok)
	require.Len(t, p.Params, 3)
	assert.Equal(t, Out, p.Params[0].Direction())
	assert.Equal(t, In, p.Params[1].Direction())
}

func TestTypedefFor(t *testing.T) {
	c := loadFixture(t)

	i, ok := c.TypedefFor("POBJECT_ATTRIBUTES")
	require.True(t, ok)
	assert.True(t, c.Typedef(i).Satisfies("OBJECT_ATTRIBUTES"))

	_, ok = c.TypedefFor("HANDLE")
	assert.False(t, ok)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name       string
		typedefs   string
		prototypes string
	}{
		{"bad typedefs", `{`, `{}`},
		{"no identifiers", `[{"identifiers": [], "dependencies": [], "definition": "x"}]`, `{}`},
		{"prototypes not an object", `[]`, `[]`},
		{"duplicate prototype", `[]`, `{"NtClose": {"params": []}, "NtClose": {"params": []}}`},
		{"bad prototype", `[]`, `{"NtClose": {"params": 3}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.typedefs), []byte(tt.prototypes))
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.CatalogInconsistency), "got %v", err)
		})
	}
}

func TestRequire(t *testing.T) {
	c := loadFixture(t)
	assert.NoError(t, c.Require([]string{"NtClose", "NtTestAlert"}))

	err := c.Require([]string{"NtClose", "NtBogus", "NtOther", "NtBogus"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.UnknownFunction))
	assert.Contains(t, err.Error(), "NtBogus, NtOther")
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "IN OUT", Parameter{In: true, Out: true}.Direction().String())
	assert.Equal(t, "", Parameter{}.Direction().String())
}

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	names, err := Preset(PresetCommon, c)
	require.NoError(t, err)
	assert.Len(t, names, 31)
	assert.NoError(t, c.Require(names), "common preset must be covered by the embedded data")

	all, err := Preset(PresetAll, c)
	require.NoError(t, err)
	assert.Equal(t, c.Names(), all)
	assert.Subset(t, all, names)
}

func TestPresetUnknown(t *testing.T) {
	c := loadFixture(t)
	_, err := Preset("everything", c)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.Configuration))
}

func TestParseFunctions(t *testing.T) {
	assert.Equal(t,
		[]string{"NtClose", "NtTestAlert"},
		ParseFunctions(" NtClose,,NtTestAlert, NtClose "))
	assert.Empty(t, ParseFunctions(""))
}
