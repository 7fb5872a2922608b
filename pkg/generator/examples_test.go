package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/apiblocks/pkg/document"
	"github.com/blimu-dev/apiblocks/pkg/ir"
)

func TestCollectExamples(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []ir.IRExample
	}{
		{
			name:     "falsy single example is kept",
			input:    "example: 0",
			expected: []ir.IRExample{{Label: "default", Value: int64(0)}},
		},
		{
			name:     "null single example is kept",
			input:    "example: null",
			expected: []ir.IRExample{{Label: "default", Value: nil}},
		},
		{
			name:     "empty string single example is kept",
			input:    `example: ""`,
			expected: []ir.IRExample{{Label: "default", Value: ""}},
		},
		{
			name: "named examples use the nested value",
			input: `
example: {id: 1}
examples:
  first:
    summary: one
    value: {id: 2}
  noValue:
    summary: skipped
  nullValue:
    value: null
  bare: false
  nothing: null
`,
			expected: []ir.IRExample{
				{Label: "default", Value: map[string]any{"id": int64(1)}},
				{Label: "first", Value: map[string]any{"id": int64(2)}},
				{Label: "bare", Value: false},
			},
		},
		{
			name:     "no examples",
			input:    "schema: {type: string}",
			expected: nil,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, CollectExamples(mustParse(t, test.input)))
		})
	}

	assert.Nil(t, CollectExamples(nil))
	assert.Nil(t, CollectExamples(document.String("text")))
}

func TestCollectCodeSamples(t *testing.T) {
	root := mustParse(t, `
paths:
  /chat:
    post:
      x-oaiMeta:
        examples:
          - request:
              curl: curl primary
              python: py primary
          - request:
              curl: curl second
              node: 12
      x-examples:
        curl: curl secondary
        ruby: ruby secondary
  /plain:
    get:
      x-oaiMeta:
        examples:
          curl: plain curl
  /secondary:
    get:
      x-examples:
        go: go code
`)
	paths := document.Paths(root)
	require.Len(t, paths, 3)

	chat := CollectCodeSamples(paths[0].Operations[0])
	assert.Equal(t, []ir.IRCodeSample{
		{Language: "curl", Code: "curl primary"},
		{Language: "python", Code: "py primary"},
		{Language: "ruby", Code: "ruby secondary"},
	}, chat, "primary wins, secondary fills gaps, non-string code is ignored")

	plain := CollectCodeSamples(paths[1].Operations[0])
	assert.Equal(t, []ir.IRCodeSample{{Language: "curl", Code: "plain curl"}}, plain)

	secondary := CollectCodeSamples(paths[2].Operations[0])
	assert.Equal(t, []ir.IRCodeSample{{Language: "go", Code: "go code"}}, secondary)
}
