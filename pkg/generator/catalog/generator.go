package catalog

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/blimu-dev/apiblocks/pkg/document"
	"github.com/blimu-dev/apiblocks/pkg/ir"
	"github.com/blimu-dev/apiblocks/pkg/render"
)

const (
	ManifestLocation   = "manifest.json"
	BlockIndexLocation = "blocks/index.json"
	// BlockIndexVersion is bumped whenever the block index layout changes
	BlockIndexVersion = 1
)

// ManifestEntry points an operation key at its block.
type ManifestEntry struct {
	URL     string   `json:"url"`
	Method  string   `json:"method"`
	Path    string   `json:"path"`
	Tag     string   `json:"tag"`
	Returns []string `json:"returns"`
}

// BlockIndex is the machine readable catalog of operation blocks.
type BlockIndex struct {
	Version     int     `json:"version"`
	SpecSHA     string  `json:"spec_sha"`
	GeneratedAt string  `json:"generated_at"`
	Blocks      []Block `json:"blocks"`
}

type Block struct {
	BlockID     string      `json:"block_id"`
	Tag         string      `json:"tag"`
	Method      string      `json:"method"`
	Path        string      `json:"path"`
	OperationID *string     `json:"operation_id"`
	Summary     string      `json:"summary,omitempty"`
	Description string      `json:"description,omitempty"`
	Deprecated  bool        `json:"deprecated,omitempty"`
	URL         string      `json:"url"`
	ModelsIn    []string    `json:"models_in"`
	ModelsOut   []string    `json:"models_out"`
	Parameters  []Parameter `json:"parameters"`
}

type Parameter struct {
	Name        string         `json:"name"`
	In          string         `json:"in"`
	Required    bool           `json:"required"`
	Deprecated  bool           `json:"deprecated,omitempty"`
	Description string         `json:"description,omitempty"`
	Type        string         `json:"type,omitempty"`
	Enum        []any          `json:"enum,omitempty"`
	Schema      *document.Node `json:"schema,omitempty"`
}

// Generator writes manifest.json and blocks/index.json.
type Generator struct{}

// NewGenerator creates a new catalog generator
func NewGenerator() *Generator {
	return &Generator{}
}

// GetType returns the generator type identifier
func (g *Generator) GetType() string {
	return "catalog"
}

// Generate writes both JSON indexes
func (g *Generator) Generate(ctx *render.Context, in *ir.IR) error {
	if err := writeJSON(ctx, ManifestLocation, BuildManifest(in)); err != nil {
		return err
	}
	return writeJSON(ctx, BlockIndexLocation, BuildBlockIndex(in, ctx.BuildDate))
}

// BuildManifest keys every operation by its operationId, falling back to
// the block identifier when the operationId is missing or already taken.
func BuildManifest(in *ir.IR) map[string]ManifestEntry {
	manifest := make(map[string]ManifestEntry, len(in.Operations))
	for _, op := range in.Operations {
		key := op.OperationID
		if _, taken := manifest[key]; key == "" || taken {
			key = op.ID
		}
		manifest[key] = ManifestEntry{
			URL:     "/" + op.Location,
			Method:  op.Method,
			Path:    op.Path,
			Tag:     op.Tag,
			Returns: nonNil(op.ModelsOut),
		}
	}
	return manifest
}

// BuildBlockIndex lists the blocks in global operation order.
func BuildBlockIndex(in *ir.IR, generatedAt time.Time) BlockIndex {
	blocks := make([]Block, 0, len(in.Operations))
	for _, op := range in.Operations {
		var operationID *string
		if op.OperationID != "" {
			id := op.OperationID
			operationID = &id
		}
		params := make([]Parameter, 0, len(op.Parameters))
		for _, p := range op.Parameters {
			params = append(params, Parameter{
				Name:        p.Name,
				In:          string(p.In),
				Required:    p.Required,
				Deprecated:  p.Deprecated,
				Description: p.Description,
				Type:        p.Type,
				Enum:        p.Enum,
				Schema:      p.Schema,
			})
		}
		blocks = append(blocks, Block{
			BlockID:     op.ID,
			Tag:         op.Tag,
			Method:      op.Method,
			Path:        op.Path,
			OperationID: operationID,
			Summary:     op.Summary,
			Description: op.Description,
			Deprecated:  op.Deprecated,
			URL:         "/" + op.Location,
			ModelsIn:    nonNil(op.ModelsIn),
			ModelsOut:   nonNil(op.ModelsOut),
			Parameters:  params,
		})
	}
	return BlockIndex{
		Version:     BlockIndexVersion,
		SpecSHA:     in.Fingerprint,
		GeneratedAt: generatedAt.UTC().Format(time.RFC3339),
		Blocks:      blocks,
	}
}

func writeJSON(ctx *render.Context, location string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", location, err)
	}
	return ctx.Writer.Write(location, append(data, '\n'))
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
