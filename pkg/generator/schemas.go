package generator

import (
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/blimu-dev/apiblocks/pkg/document"
	"github.com/blimu-dev/apiblocks/pkg/ir"
	"github.com/blimu-dev/apiblocks/pkg/utils"
)

// SchemaDir is the directory, relative to the output root, holding schema
// pages.
const SchemaDir = "components/schemas"

// TypeLabel renders a type for presentation: "" when the type is absent,
// the type alone, or "<type> (<format>)". Type lists (OpenAPI 3.1) are
// joined with " | ".
func TypeLabel(typ *document.Node, format string) string {
	var base string
	switch {
	case typ.IsScalar():
		base = typ.Value
	case typ.IsSequence():
		parts := make([]string, 0, typ.Len())
		for _, it := range typ.Items() {
			if s, ok := it.Str(); ok && s != "" {
				parts = append(parts, s)
			}
		}
		base = strings.Join(parts, " | ")
	}
	if base == "" {
		return ""
	}
	if format != "" {
		return base + " (" + format + ")"
	}
	return base
}

// SchemaLocation returns the page location of a named schema.
func SchemaLocation(name string) string {
	return path.Join(SchemaDir, utils.SanitizeSegment(name, "schema")+".html")
}

// ExtractSchemas builds one record per named schema, sorted by name.
func ExtractSchemas(root *document.Node, opts BuildOptions) []*ir.IRSchema {
	entries := document.Schemas(root)
	out := make([]*ir.IRSchema, len(entries))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			out[i] = buildSchema(entry, opts)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func buildSchema(entry document.SchemaEntry, opts BuildOptions) *ir.IRSchema {
	s := entry.Schema
	loc := SchemaLocation(entry.Name)
	return &ir.IRSchema{
		Name:        entry.Name,
		Description: s.StringField("description"),
		Properties:  normalizeProperties(s.Field("properties"), s.Field("required")),
		AnyOf:       normalizeVariants(s.Field("anyOf")),
		OneOf:       normalizeVariants(s.Field("oneOf")),
		AllOf:       normalizeVariants(s.Field("allOf")),
		Examples:    schemaExamples(s),
		Fingerprint: opts.Fingerprint,
		Location:    loc,
		OutputPath:  filepath.Join(opts.OutDir, filepath.FromSlash(loc)),
	}
}

func normalizeProperties(props, required *document.Node) []ir.IRProperty {
	if props.Len() == 0 {
		return nil
	}
	requiredSet := map[string]bool{}
	for _, r := range required.Items() {
		if name, ok := r.Str(); ok {
			requiredSet[name] = true
		}
	}

	names := props.Keys()
	sort.Strings(names)
	out := make([]ir.IRProperty, 0, len(names))
	for _, name := range names {
		schema := props.Field(name)
		out = append(out, ir.IRProperty{
			Name:        name,
			Description: schema.StringField("description"),
			Type:        TypeLabel(schema.Field("type"), schema.StringField("format")),
			Required:    requiredSet[name],
			Enum:        enumValues(schema),
			Ref:         directRef(schema),
			Schema:      detach(schema),
		})
	}
	return out
}

// normalizeVariants converts an anyOf/oneOf/allOf list. Each nested union is
// a strictly smaller subtree, so the recursion terminates.
func normalizeVariants(list *document.Node) []ir.IRVariant {
	items := list.Items()
	if len(items) == 0 {
		return nil
	}
	out := make([]ir.IRVariant, 0, len(items))
	for _, entry := range items {
		if !entry.IsMapping() {
			out = append(out, ir.IRVariant{Schema: detach(entry)})
			continue
		}
		if ref := directRef(entry); ref != "" {
			out = append(out, ir.IRVariant{Ref: ref})
			continue
		}
		out = append(out, ir.IRVariant{
			Title:       entry.StringField("title"),
			Description: entry.StringField("description"),
			Type:        TypeLabel(entry.Field("type"), ""),
			AnyOf:       normalizeVariants(entry.Field("anyOf")),
			OneOf:       normalizeVariants(entry.Field("oneOf")),
			AllOf:       normalizeVariants(entry.Field("allOf")),
			Schema:      detach(entry),
		})
	}
	return out
}

// schemaExamples prefers a list valued "examples", then wraps a non-null
// "example".
func schemaExamples(s *document.Node) []any {
	if ex := s.Field("examples"); ex.IsSequence() {
		out := make([]any, 0, ex.Len())
		for _, it := range ex.Items() {
			out = append(out, it.Interface())
		}
		return out
	}
	if ex, ok := s.Get("example"); ok && !ex.IsNull() {
		return []any{ex.Interface()}
	}
	return nil
}
