package sitemap

import (
	"encoding/xml"
	"fmt"

	"github.com/blimu-dev/apiblocks/pkg/ir"
	"github.com/blimu-dev/apiblocks/pkg/render"
)

// Location is where the sitemap is written.
const Location = "sitemap.xml"

const namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []url    `xml:"url"`
}

type url struct {
	Loc string `xml:"loc"`
}

// Generator writes sitemap.xml.
type Generator struct{}

// NewGenerator creates a new sitemap generator
func NewGenerator() *Generator {
	return &Generator{}
}

// GetType returns the generator type identifier
func (g *Generator) GetType() string {
	return "sitemap"
}

// Generate writes the sitemap
func (g *Generator) Generate(ctx *render.Context, in *ir.IR) error {
	data, err := Build(in)
	if err != nil {
		return err
	}
	return ctx.Writer.Write(Location, data)
}

// Entries lists the site URLs: the index, llms.txt, every operation in
// global order and every schema by name.
func Entries(in *ir.IR) []string {
	out := make([]string, 0, 2+len(in.Operations)+len(in.Schemas))
	out = append(out, "/index.html", "/llms.txt")
	for _, op := range in.Operations {
		out = append(out, "/"+op.Location)
	}
	for _, s := range in.Schemas {
		out = append(out, "/"+s.Location)
	}
	return out
}

// Build renders the sitemap document.
func Build(in *ir.IR) ([]byte, error) {
	set := urlSet{XMLNS: namespace}
	for _, loc := range Entries(in) {
		set.URLs = append(set.URLs, url{Loc: loc})
	}
	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode sitemap: %w", err)
	}
	out := append([]byte(xml.Header), body...)
	return append(out, '\n'), nil
}
