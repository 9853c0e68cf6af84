package resolve

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sh0ckFR/SysWhispers2/pkg/catalog"
	"github.com/Sh0ckFR/SysWhispers2/pkg/errors"
)

func load(t *testing.T, typedefs, prototypes string) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Load([]byte(typedefs), []byte(prototypes))
	require.NoError(t, err)
	return c
}

func definitions(tds []catalog.TypeDefinition) []string {
	out := make([]string, len(tds))
	for i, td := range tds {
		out[i] = td.Definition
	}
	return out
}

func TestTypedefsZeroParams(t *testing.T) {
	c := load(t, `[{"identifiers": ["A"], "dependencies": [], "definition": "A"}]`,
		`{"NtTestAlert": {"params": []}}`)

	tds, err := Typedefs(c, []string{"NtTestAlert"})
	require.NoError(t, err)
	assert.Empty(t, tds)
}

func TestTypedefsDependencyFirst(t *testing.T) {
	c := load(t, `[
		{"identifiers": ["OBJECT_ATTRIBUTES", "POBJECT_ATTRIBUTES"], "dependencies": ["PUNICODE_STRING"], "definition": "OA"},
		{"identifiers": ["UNICODE_STRING", "PUNICODE_STRING"], "dependencies": [], "definition": "US"}
	]`, `{
		"NtOpenKey": {"params": [{"type": "POBJECT_ATTRIBUTES", "in": true, "out": false, "optional": false, "name": "ObjectAttributes"}]},
		"NtClose": {"params": [{"type": "HANDLE", "in": true, "out": false, "optional": false, "name": "Handle"}]}
	}`)

	tds, err := Typedefs(c, []string{"NtOpenKey", "NtClose"})
	require.NoError(t, err)
	assert.Equal(t, []string{"US", "OA"}, definitions(tds))
}

func TestTypedefsSharedDependencyOnce(t *testing.T) {
	// D is reachable from A along two paths and is also a root of its own.
	c := load(t, `[
		{"identifiers": ["A"], "dependencies": ["B", "C"], "definition": "A"},
		{"identifiers": ["B"], "dependencies": ["D"], "definition": "B"},
		{"identifiers": ["C"], "dependencies": ["B"], "definition": "C"},
		{"identifiers": ["D"], "dependencies": [], "definition": "D"},
		{"identifiers": ["E"], "dependencies": ["D"], "definition": "E"}
	]`, `{
		"NtOne": {"params": [
			{"type": "A", "in": true, "out": false, "optional": false, "name": "a"},
			{"type": "E", "in": true, "out": false, "optional": false, "name": "e"},
			{"type": "ULONG", "in": true, "out": false, "optional": false, "name": "n"}
		]},
		"NtTwo": {"params": [{"type": "D", "in": true, "out": false, "optional": false, "name": "d"}]}
	}`)

	tds, err := Typedefs(c, []string{"NtOne", "NtTwo"})
	require.NoError(t, err)
	got := definitions(tds)
	assert.Equal(t, []string{"D", "B", "C", "A", "E"}, got)
	assertDependenciesFirst(t, tds)
}

func TestTypedefsMissingDependency(t *testing.T) {
	c := load(t, `[{"identifiers": ["A"], "dependencies": ["GHOST"], "definition": "A"}]`,
		`{"NtOne": {"params": [{"type": "A", "in": true, "out": false, "optional": false, "name": "a"}]}}`)

	_, err := Typedefs(c, []string{"NtOne"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CatalogInconsistency))
	assert.Contains(t, err.Error(), "GHOST")
}

func TestTypedefsCycle(t *testing.T) {
	c := load(t, `[
		{"identifiers": ["A"], "dependencies": ["B"], "definition": "A"},
		{"identifiers": ["B"], "dependencies": ["C"], "definition": "B"},
		{"identifiers": ["C"], "dependencies": ["A"], "definition": "C"}
	]`, `{"NtOne": {"params": [{"type": "A", "in": true, "out": false, "optional": false, "name": "a"}]}}`)

	_, err := Typedefs(c, []string{"NtOne"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.DependencyCycle))
	assert.Contains(t, err.Error(), "A -> B -> C -> A")
}

func TestTypedefsUnknownFunction(t *testing.T) {
	c := load(t, `[]`, `{}`)
	_, err := Typedefs(c, []string{"NtBogus"})
	assert.True(t, errors.IsCode(err, errors.UnknownFunction))
}

func TestTypedefsDefaultCatalog(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	names, err := catalog.Preset(catalog.PresetAll, c)
	require.NoError(t, err)

	tds, err := Typedefs(c, names)
	require.NoError(t, err)
	assert.NotEmpty(t, tds)
	assertDependenciesFirst(t, tds)

	seen := make(map[string]bool)
	for _, td := range tds {
		assert.False(t, seen[td.Definition], "%s emitted twice", td.Identifiers[0])
		seen[td.Definition] = true
	}
}

func TestTypedefsPrefixedCatalog(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	plain, err := Typedefs(c, []string{"NtCreateThreadEx"})
	require.NoError(t, err)
	prefixed, err := Typedefs(c.WithPrefix("Sw2"), []string{"Sw2CreateThreadEx"})
	require.NoError(t, err)
	assert.Equal(t, plain, prefixed)

	// UNICODE_STRING, OBJECT_ATTRIBUTES, PS_ATTRIBUTE, PS_ATTRIBUTE_LIST
	require.Len(t, prefixed, 4)
	assert.True(t, strings.Contains(prefixed[0].Definition, "_UNICODE_STRING"))
	assert.True(t, strings.Contains(prefixed[3].Definition, "_PS_ATTRIBUTE_LIST"))
}

// assertDependenciesFirst checks that each definition comes after every
// definition it lists as a dependency.
func assertDependenciesFirst(t *testing.T, tds []catalog.TypeDefinition) {
	t.Helper()
	pos := func(name string) int {
		for i, td := range tds {
			if td.Satisfies(name) {
				return i
			}
		}
		return -1
	}
	for i, td := range tds {
		for _, dep := range td.Dependencies {
			j := pos(dep)
			require.GreaterOrEqual(t, j, 0, "%s missing", dep)
			assert.Less(t, j, i, "%s must precede %s", dep, td.Identifiers[0])
		}
	}
}
