package html

import (
	"sort"

	"github.com/blimu-dev/apiblocks/pkg/ir"
	"github.com/blimu-dev/apiblocks/pkg/render"
)

type link struct {
	Label   string
	Summary string
	URL     string
}

type paramGroup struct {
	Label   string
	Entries []ir.IRParam
}

var paramGroupLabels = map[ir.ParamLocation]string{
	ir.ParamInPath:   "Path Parameters",
	ir.ParamInQuery:  "Query Parameters",
	ir.ParamInHeader: "Header Parameters",
	ir.ParamInCookie: "Cookie Parameters",
}

type contentView struct {
	ir.IRContent
	SchemaName string
	SchemaHref string
}

type responseView struct {
	Status      string
	Description string
	Content     []contentView
}

type propertyView struct {
	ir.IRProperty
	Href string
}

type unionView struct {
	Kind     string
	Variants []variantView
}

type variantView struct {
	Ref         string
	Href        string
	Title       string
	Type        string
	Description string
	Unions      []unionView
}

// parameterGroups splits parameters by location in path, query, header,
// cookie order, omitting empty groups.
func parameterGroups(params []ir.IRParam) []paramGroup {
	var groups []paramGroup
	for _, loc := range ir.ParamLocations {
		var entries []ir.IRParam
		for _, p := range params {
			if p.In == loc {
				entries = append(entries, p)
			}
		}
		if len(entries) > 0 {
			groups = append(groups, paramGroup{Label: paramGroupLabels[loc], Entries: entries})
		}
	}
	return groups
}

// schemaHref links from the page at from to the named schema page, or
// returns "" when the schema has no page.
func schemaHref(from, name string, locations map[string]string) string {
	target, ok := locations[name]
	if !ok || name == "" {
		return ""
	}
	return render.RelativeURL(from, target)
}

func annotateContent(from string, contents []ir.IRContent, locations map[string]string) []contentView {
	out := make([]contentView, 0, len(contents))
	for _, c := range contents {
		out = append(out, contentView{
			IRContent:  c,
			SchemaName: c.Ref,
			SchemaHref: schemaHref(from, c.Ref, locations),
		})
	}
	return out
}

func operationData(ctx *render.Context, in *ir.IR, op *ir.IROperation, locations map[string]string) map[string]any {
	responses := make([]responseView, 0, len(op.Responses))
	for _, r := range op.Responses {
		responses = append(responses, responseView{
			Status:      r.Status,
			Description: r.Description,
			Content:     annotateContent(op.Location, r.Content, locations),
		})
	}

	var examples []ir.IRCodeSample
	wanted := map[string]bool{}
	for _, lang := range ctx.Config.Languages {
		wanted[lang] = true
	}
	for _, ex := range op.Examples {
		if wanted[ex.Language] {
			examples = append(examples, ex)
		}
	}

	siblings := []link{}
	for _, s := range in.Siblings(op) {
		siblings = append(siblings, link{
			Label:   s.Method + " " + s.Path,
			Summary: s.Summary,
			URL:     render.RelativeURL(op.Location, s.Location),
		})
	}

	operationID := op.OperationID
	if operationID == "" {
		operationID = "(none)"
	}

	return map[string]any{
		"Op": op,
		"FrontMatter": frontMatter([][2]string{
			{"block_id", op.ID},
			{"operationId", operationID},
			{"method", op.Method},
			{"path", op.Path},
			{"tag", op.Tag},
			{"models_in", listOrNone(op.ModelsIn)},
			{"models_out", listOrNone(op.ModelsOut)},
		}),
		"Title":           op.Method + " " + op.Path,
		"ParameterGroups": parameterGroups(op.Parameters),
		"RequestBodies":   annotateContent(op.Location, op.RequestBodies, locations),
		"Responses":       responses,
		"Examples":        examples,
		"Siblings":        siblings,
		"Components":      componentLinks(op, locations),
		"BuildSHA":        op.Fingerprint,
		"BuildDate":       ctx.BuildDay(),
	}
}

// componentLinks lists every referenced schema that has a page, by name.
func componentLinks(op *ir.IROperation, locations map[string]string) []link {
	names := map[string]struct{}{}
	for _, n := range op.ModelsIn {
		names[n] = struct{}{}
	}
	for _, n := range op.ModelsOut {
		names[n] = struct{}{}
	}
	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	out := []link{}
	for _, n := range sorted {
		if href := schemaHref(op.Location, n, locations); href != "" {
			out = append(out, link{Label: n, URL: href})
		}
	}
	return out
}

func schemaData(ctx *render.Context, s *ir.IRSchema, locations map[string]string) map[string]any {
	props := make([]propertyView, 0, len(s.Properties))
	for _, p := range s.Properties {
		props = append(props, propertyView{IRProperty: p, Href: schemaHref(s.Location, p.Ref, locations)})
	}

	return map[string]any{
		"Schema": s,
		"FrontMatter": frontMatter([][2]string{
			{"block_type", "schema"},
			{"name", s.Name},
			{"sha", s.Fingerprint},
		}),
		"Properties": props,
		"Unions":     unions(s.Location, s.AnyOf, s.OneOf, s.AllOf, locations),
		"BuildSHA":   s.Fingerprint,
		"BuildDate":  ctx.BuildDay(),
	}
}

func unions(from string, anyOf, oneOf, allOf []ir.IRVariant, locations map[string]string) []unionView {
	var out []unionView
	for _, u := range []struct {
		kind     string
		variants []ir.IRVariant
	}{{"anyOf", anyOf}, {"oneOf", oneOf}, {"allOf", allOf}} {
		if len(u.variants) == 0 {
			continue
		}
		views := make([]variantView, 0, len(u.variants))
		for _, v := range u.variants {
			views = append(views, variantView{
				Ref:         v.Ref,
				Href:        schemaHref(from, v.Ref, locations),
				Title:       v.Title,
				Type:        v.Type,
				Description: v.Description,
				Unions:      unions(from, v.AnyOf, v.OneOf, v.AllOf, locations),
			})
		}
		out = append(out, unionView{Kind: u.kind, Variants: views})
	}
	return out
}

func indexData(ctx *render.Context, in *ir.IR) map[string]any {
	type tagView struct {
		Tag        string
		Operations []link
	}
	tags := make([]tagView, 0, len(in.ByTag))
	for _, tag := range in.Tags() {
		ops := in.ByTag[tag]
		links := make([]link, 0, len(ops))
		for _, op := range ops {
			links = append(links, link{
				Label:   op.Method + " " + op.Path,
				Summary: op.Summary,
				URL:     render.RelativeURL(IndexLocation, op.Location),
			})
		}
		tags = append(tags, tagView{Tag: tag, Operations: links})
	}

	schemas := make([]link, 0, len(in.Schemas))
	for _, s := range in.Schemas {
		schemas = append(schemas, link{Label: s.Name, URL: render.RelativeURL(IndexLocation, s.Location)})
	}

	return map[string]any{
		"Tags":       tags,
		"Operations": in.Operations,
		"Schemas":    schemas,
		"BuildSHA":   in.Fingerprint,
		"BuildTime":  ctx.BuildDate.Format("2006-01-02T15:04:05Z07:00"),
	}
}
