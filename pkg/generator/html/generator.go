package html

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"github.com/Masterminds/sprig/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/blimu-dev/apiblocks/pkg/ir"
	"github.com/blimu-dev/apiblocks/pkg/render"
)

//go:embed templates/*
var templatesFS embed.FS

// IndexLocation is where the tag overview page is written.
const IndexLocation = "index.html"

// Generator renders one HTML block per operation and schema plus an index
// page.
type Generator struct {
	tmpl *template.Template
}

// NewGenerator parses the embedded templates.
func NewGenerator() *Generator {
	funcMap := sprig.HtmlFuncMap()
	funcMap["markdown"] = render.MarkdownLinks
	funcMap["jsonify"] = jsonify
	funcMap["jsonInline"] = jsonInline

	tmpl := template.Must(template.New("html").Funcs(funcMap).ParseFS(templatesFS, "templates/*.gotmpl"))
	return &Generator{tmpl: tmpl}
}

// GetType returns the generator type identifier
func (g *Generator) GetType() string {
	return "html"
}

// Generate writes every page. Pages are rendered concurrently, bounded by
// the configured worker count.
func (g *Generator) Generate(ctx *render.Context, in *ir.IR) error {
	schemaLocations := in.SchemaLocations()

	var eg errgroup.Group
	eg.SetLimit(max(ctx.Config.Workers, 1))
	for _, op := range in.Operations {
		op := op
		eg.Go(func() error {
			data := operationData(ctx, in, op, schemaLocations)
			return g.renderPage(ctx, "operation.html.gotmpl", op.Location, data)
		})
	}
	for _, s := range in.Schemas {
		s := s
		eg.Go(func() error {
			data := schemaData(ctx, s, schemaLocations)
			return g.renderPage(ctx, "schema.html.gotmpl", s.Location, data)
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	return g.renderPage(ctx, "index.html.gotmpl", IndexLocation, indexData(ctx, in))
}

func (g *Generator) renderPage(ctx *render.Context, templateName, location string, data map[string]any) error {
	var buf bytes.Buffer
	if err := g.tmpl.ExecuteTemplate(&buf, templateName, data); err != nil {
		return fmt.Errorf("failed to execute template %s for %s: %w", templateName, location, err)
	}
	if limit := ctx.Config.MaxTokens; limit > 0 {
		if tokens := render.EstimateTokens(buf.String()); tokens > limit {
			ctx.Logger.WithFields(logrus.Fields{
				"location": location,
				"tokens":   tokens,
				"limit":    limit,
			}).Warn("page exceeds token budget")
		}
	}
	return ctx.Writer.Write(location, buf.Bytes())
}

func jsonify(v any) (string, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func jsonInline(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	out, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(out)
}

// frontMatter renders a leading HTML comment of "key: value" lines. Values
// are escaped so they cannot close the comment.
func frontMatter(lines [][2]string) template.HTML {
	var b strings.Builder
	b.WriteString("<!--\n")
	for _, l := range lines {
		b.WriteString(l[0] + ": " + template.HTMLEscapeString(l[1]) + "\n")
	}
	b.WriteString("-->\n")
	return template.HTML(b.String())
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
