package generator

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/apiblocks/pkg/ir"
)

func TestBuildIRIsDeterministic(t *testing.T) {
	logger, _ := test.NewNullLogger()
	opts := BuildOptions{Fingerprint: "abc", OutDir: "site", Logger: logger}

	first := BuildIR(mustParse(t, operationsDoc+schemaComponents), opts)
	second := BuildIR(mustParse(t, operationsDoc+schemaComponents), opts)

	assert.Equal(t, first, second)
	assert.Equal(t, "abc", first.Fingerprint)
	assert.Len(t, first.Operations, 6)
	assert.Len(t, first.Schemas, 4)
	assert.Equal(t, []string{"Widgets", ir.UntaggedTag}, first.Tags())
}

func TestBuildIRReportsCollisions(t *testing.T) {
	logger, hook := test.NewNullLogger()
	root := mustParse(t, `
paths:
  /a b:
    get: {tags: [T]}
  /a-b:
    get: {tags: [T]}
  /c:
    get: {tags: [T]}
components:
  schemas:
    X/Y: {type: string}
    X-Y: {type: string}
`)

	result := BuildIR(root, BuildOptions{Logger: logger})
	require.Len(t, result.Operations, 3)

	var collisions []string
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel && entry.Message == "output location collision" {
			collisions = append(collisions, entry.Data["location"].(string))
		}
	}
	assert.Equal(t, []string{"T/GET-a-b.html", "components/schemas/X-Y.html"}, collisions)
}

func TestFilterIR(t *testing.T) {
	logger, _ := test.NewNullLogger()
	full := BuildIR(mustParse(t, operationsDoc), BuildOptions{Logger: logger})

	same, err := FilterIR(full, nil, nil)
	require.NoError(t, err)
	assert.Same(t, full, same)

	onlyWidgets, err := FilterIR(full, []string{"^Widgets$"}, nil)
	require.NoError(t, err)
	assert.Len(t, onlyWidgets.Operations, 4)
	assert.Equal(t, []string{"Widgets"}, onlyWidgets.Tags())

	noExtra, err := FilterIR(full, nil, []string{"Extra"})
	require.NoError(t, err)
	assert.Len(t, noExtra.Operations, 5, "any declared tag can exclude an operation")
	for _, op := range noExtra.Operations {
		assert.NotContains(t, op.Tags, "Extra")
	}

	untagged, err := FilterIR(full, []string{"^untagged$"}, nil)
	require.NoError(t, err)
	assert.Len(t, untagged.Operations, 1, "operations without tags match on the sentinel")
	assert.Equal(t, "/", untagged.Operations[0].Path)

	_, err = FilterIR(full, []string{"("}, nil)
	assert.Error(t, err)
}
