package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/apiblocks/pkg/config"
	"github.com/blimu-dev/apiblocks/pkg/document"
	"github.com/blimu-dev/apiblocks/pkg/ir"
	"github.com/blimu-dev/apiblocks/pkg/render"
)

func sampleIR() *ir.IR {
	ops := []*ir.IROperation{
		{
			ID: "models.listModels", Tag: "Models", Method: "GET", Path: "/models",
			OperationID: "listModels", Location: "Models/GET-models.html",
			ModelsOut: []string{"ListModelsResponse"},
			Parameters: []ir.IRParam{{
				Name: "limit", In: ir.ParamInQuery, Type: "integer",
				Schema: document.Mapping(document.Pair{Key: "type", Value: document.String("integer")}),
			}},
		},
		{
			ID: "models.listModels_2", Tag: "Models", Method: "POST", Path: "/models",
			OperationID: "listModels", Location: "Models/POST-models.html",
		},
		{
			ID: "untagged.get_health", Tag: ir.UntaggedTag, Method: "GET", Path: "/health",
			Location: "untagged/GET-health.html",
		},
	}
	return &ir.IR{Fingerprint: "0123456789ab", Operations: ops}
}

func TestBuildManifest(t *testing.T) {
	manifest := BuildManifest(sampleIR())

	require.Len(t, manifest, 3)
	assert.Equal(t, ManifestEntry{
		URL: "/Models/GET-models.html", Method: "GET", Path: "/models", Tag: "Models",
		Returns: []string{"ListModelsResponse"},
	}, manifest["listModels"])
	assert.Equal(t, "/Models/POST-models.html", manifest["models.listModels_2"].URL, "taken operationId falls back to the block id")
	assert.Equal(t, []string{}, manifest["untagged.get_health"].Returns)
}

func TestGenerateWritesIndexes(t *testing.T) {
	out := t.TempDir()
	cfg := config.Default()
	cfg.OutDir = out
	w, err := render.NewWriter(out, nil)
	require.NoError(t, err)
	ctx := &render.Context{
		Config:    cfg,
		Writer:    w,
		BuildDate: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Logger:    logrus.New(),
	}

	require.NoError(t, NewGenerator().Generate(ctx, sampleIR()))

	raw, err := os.ReadFile(filepath.Join(out, "manifest.json"))
	require.NoError(t, err)
	var manifest map[string]map[string]any
	require.NoError(t, json.Unmarshal(raw, &manifest))
	assert.Contains(t, manifest, "listModels")

	raw, err = os.ReadFile(filepath.Join(out, "blocks", "index.json"))
	require.NoError(t, err)
	var index map[string]any
	require.NoError(t, json.Unmarshal(raw, &index))
	assert.EqualValues(t, 1, index["version"])
	assert.Equal(t, "0123456789ab", index["spec_sha"])
	assert.Equal(t, "2024-05-01T12:00:00Z", index["generated_at"])

	blocks := index["blocks"].([]any)
	require.Len(t, blocks, 3)
	first := blocks[0].(map[string]any)
	assert.Equal(t, "models.listModels", first["block_id"])
	params := first["parameters"].([]any)
	require.Len(t, params, 1)
	assert.Equal(t, map[string]any{"type": "integer"}, params[0].(map[string]any)["schema"])
	assert.Nil(t, blocks[2].(map[string]any)["operation_id"])
}
