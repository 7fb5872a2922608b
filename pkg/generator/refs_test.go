package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/apiblocks/pkg/document"
)

func mustParse(t *testing.T, src string) *document.Node {
	t.Helper()
	root, err := document.Parse([]byte(src))
	require.NoError(t, err)
	return root
}

func TestRefName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"#/components/schemas/Pet", "Pet"},
		{"#/components/schemas/a~1b", "a/b"},
		{"#/components/parameters/Limit", ""},
		{"https://example.com/x.yaml#/Pet", ""},
		{"", ""},
	}

	for _, test := range tests {
		result := RefName(test.input, document.RefPrefixSchemas)
		if result != test.expected {
			t.Errorf("RefName(%q) = %q, expected %q", test.input, result, test.expected)
		}
	}
}

func TestCollectRefs(t *testing.T) {
	root := mustParse(t, `
type: object
properties:
  owner:
    $ref: '#/components/schemas/User'
  pets:
    type: array
    items:
      anyOf:
        - $ref: '#/components/schemas/Dog'
        - $ref: '#/components/schemas/Cat'
        - $ref: '#/components/schemas/Dog'
  meta:
    $ref: '#/components/parameters/NotASchema'
  other:
    $ref: 12
`)

	assert.Equal(t, []string{"Cat", "Dog", "User"}, CollectRefs(root, document.RefPrefixSchemas))
}

func TestCollectRefsSharedAndRecursive(t *testing.T) {
	root := mustParse(t, `
shared: &s
  $ref: '#/components/schemas/Shared'
tree: &t
  left: *s
  right: *s
  again: *t
`)

	assert.Equal(t, []string{"Shared"}, CollectRefs(root, document.RefPrefixSchemas))
	assert.Empty(t, CollectRefs(nil, document.RefPrefixSchemas))
	assert.Empty(t, CollectRefs(document.String("x"), document.RefPrefixSchemas))
}

func TestCollectRefsSharedSequence(t *testing.T) {
	node := document.Mapping(document.Pair{Key: "$ref", Value: document.String("#/components/schemas/Node")})
	list := document.Sequence(node)
	holder := document.Mapping(
		document.Pair{Key: "items", Value: list},
		document.Pair{Key: "again", Value: list},
	)

	assert.Equal(t, []string{"Node"}, CollectRefs(holder, document.RefPrefixSchemas))
}
