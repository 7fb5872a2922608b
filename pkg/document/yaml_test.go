package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScalars(t *testing.T) {
	root, err := Parse([]byte(`
s: text
i: 42
f: 1.5
b: true
n: null
empty:
quoted: "42"
`))
	require.NoError(t, err)
	require.True(t, root.IsMapping())

	assert.Equal(t, []string{"s", "i", "f", "b", "n", "empty", "quoted"}, root.Keys())
	assert.Equal(t, "text", root.Field("s").Interface())
	assert.Equal(t, int64(42), root.Field("i").Interface())
	assert.Equal(t, 1.5, root.Field("f").Interface())
	assert.Equal(t, true, root.Field("b").Interface())
	assert.True(t, root.Field("n").IsNull())
	assert.True(t, root.Has("n"), "null values keep their key")
	assert.True(t, root.Field("empty").IsNull())
	assert.Equal(t, "42", root.Field("quoted").Interface())
	assert.True(t, root.Field("b").Bool())
	assert.False(t, root.Field("quoted").Bool())
}

func TestParseSharesAliases(t *testing.T) {
	root, err := Parse([]byte(`
shared: &s
  type: string
a: *s
b: *s
`))
	require.NoError(t, err)

	assert.Same(t, root.Field("shared"), root.Field("a"))
	assert.Same(t, root.Field("a"), root.Field("b"))
}

func TestParseCutsRecursiveAliases(t *testing.T) {
	root, err := Parse([]byte(`
node: &n
  name: loop
  child: *n
`))
	require.NoError(t, err)

	node := root.Field("node")
	require.True(t, node.IsMapping())
	assert.True(t, node.Has("child"))
	assert.True(t, node.Field("child").IsNull())

	out, err := json.Marshal(root)
	require.NoError(t, err)
	assert.JSONEq(t, `{"node":{"name":"loop","child":null}}`, string(out))
}

func TestParseMergeKeys(t *testing.T) {
	root, err := Parse([]byte(`
base: &base
  type: object
  description: base
first: &first
  title: first
derived:
  <<: [*first, *base]
  description: own
`))
	require.NoError(t, err)

	derived := root.Field("derived")
	assert.Equal(t, "own", derived.StringField("description"), "own fields win over merged ones")
	assert.Equal(t, "object", derived.StringField("type"))
	assert.Equal(t, "first", derived.StringField("title"))
	assert.False(t, derived.Has("<<"))
}

func TestMarshalJSONKeepsOrder(t *testing.T) {
	root, err := Parse([]byte(`
z: 1
a: [x, 2, false, null]
m:
  k2: v
  k1: v
`))
	require.NoError(t, err)

	out, err := json.Marshal(root)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":["x",2,false,null],"m":{"k2":"v","k1":"v"}}`, string(out))
}

func TestParseRejectsInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("a: [unclosed\n"))
	assert.Error(t, err)
}

func TestCloneIsDetached(t *testing.T) {
	root, err := Parse([]byte(`
shared: &s {type: string}
obj:
  a: *s
  b: *s
`))
	require.NoError(t, err)

	c := root.Field("obj").Clone()
	assert.NotSame(t, root.Field("obj"), c)
	assert.NotSame(t, root.Field("shared"), c.Field("a"))
	assert.Same(t, c.Field("a"), c.Field("b"), "sharing inside the copy is kept")
	assert.Equal(t, root.Field("obj").Interface(), c.Interface())
}
