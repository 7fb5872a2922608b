package llms

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/blimu-dev/apiblocks/pkg/ir"
	"github.com/blimu-dev/apiblocks/pkg/render"
)

//go:embed templates/*
var templatesFS embed.FS

// Location is where the agent index is written.
const Location = "llms.txt"

// DefaultTitle heads the generated index.
const DefaultTitle = "API Endpoint Blocks"

// Generator writes llms.txt, a Markdown entry point for language models.
type Generator struct {
	tmpl  *template.Template
	title string
}

// NewGenerator parses the embedded template.
func NewGenerator() *Generator {
	funcMap := sprig.TxtFuncMap()
	funcMap["descriptor"] = descriptor
	tmpl := template.Must(template.New("llms").Funcs(funcMap).ParseFS(templatesFS, "templates/*.gotmpl"))
	return &Generator{tmpl: tmpl, title: DefaultTitle}
}

// GetType returns the generator type identifier
func (g *Generator) GetType() string {
	return "llms"
}

// Generate writes llms.txt
func (g *Generator) Generate(ctx *render.Context, in *ir.IR) error {
	data, err := g.Render(in)
	if err != nil {
		return err
	}
	return ctx.Writer.Write(Location, data)
}

type tagSummary struct {
	Tag        string
	Operations []*ir.IROperation
	First      *ir.IROperation
}

// Render produces the document without writing it.
func (g *Generator) Render(in *ir.IR) ([]byte, error) {
	var tags []tagSummary
	for _, tag := range in.Tags() {
		ops := in.ByTag[tag]
		if len(ops) == 0 {
			continue
		}
		tags = append(tags, tagSummary{Tag: tag, Operations: ops, First: ops[0]})
	}

	var buf bytes.Buffer
	err := g.tmpl.ExecuteTemplate(&buf, "llms.txt.gotmpl", map[string]any{
		"Title":      g.title,
		"SpecSHA":    in.Fingerprint,
		"Tags":       tags,
		"Operations": in.Operations,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute template llms.txt.gotmpl: %w", err)
	}
	return buf.Bytes(), nil
}

// descriptor is the summary, else the description, on a single line.
func descriptor(op *ir.IROperation) string {
	text := strings.TrimSpace(op.Summary)
	if text == "" {
		text = strings.TrimSpace(op.Description)
	}
	return strings.Join(strings.Fields(text), " ")
}
