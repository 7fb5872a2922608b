package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/apiblocks/pkg/document"
	"github.com/blimu-dev/apiblocks/pkg/ir"
)

func TestMergeParameters(t *testing.T) {
	pathLevel := []document.Parameter{
		{Name: "id", In: "path", Description: "path level"},
		{Name: "limit", In: "query"},
		{Name: "", In: "query"},
		{Name: "noLocation"},
	}
	opLevel := []document.Parameter{
		{Name: "id", In: "path", Description: "operation level", Required: true},
		{Name: "id", In: "header"},
		{Name: "cursor", In: "query"},
	}

	merged := MergeParameters(pathLevel, opLevel)

	require.Len(t, merged, 4)
	assert.Equal(t, "id", merged[0].Name)
	assert.Equal(t, "operation level", merged[0].Description, "later occurrences overwrite")
	assert.True(t, merged[0].Required)
	assert.Equal(t, "limit", merged[1].Name)
	assert.Equal(t, document.Parameter{Name: "id", In: "header"}, merged[2])
	assert.Equal(t, "cursor", merged[3].Name)

	assert.Empty(t, MergeParameters())
	assert.Empty(t, MergeParameters(nil, nil))
}

func TestNormalizeParameters(t *testing.T) {
	root := mustParse(t, `
type: [string, "null"]
format: uuid
enum: [a, 1]
`)
	params := normalizeParameters([]document.Parameter{
		{Name: "id", In: "path", Required: true, Schema: root},
		{Name: "weird", In: "body"},
		{Name: "session", In: "cookie", Deprecated: true},
	})

	require.Len(t, params, 2, "locations outside path, query, header, cookie are dropped")
	assert.Equal(t, ir.ParamInPath, params[0].In)
	assert.Equal(t, "string | null (uuid)", params[0].Type)
	assert.Equal(t, []any{"a", int64(1)}, params[0].Enum)
	assert.NotSame(t, root, params[0].Schema, "raw shapes are detached from the document")
	assert.Equal(t, root.Interface(), params[0].Schema.Interface())

	assert.Equal(t, ir.ParamInCookie, params[1].In)
	assert.True(t, params[1].Deprecated)
	assert.Equal(t, "", params[1].Type)
	assert.Nil(t, params[1].Schema)
}
