package generator

import (
	"github.com/blimu-dev/apiblocks/pkg/document"
	"github.com/blimu-dev/apiblocks/pkg/ir"
)

type paramKey struct {
	name string
	in   string
}

// MergeParameters combines parameter lists in order. Entries are keyed by
// (name, in): the first occurrence fixes the position, later occurrences
// replace its content. Entries missing a name or a location are skipped.
func MergeParameters(lists ...[]document.Parameter) []document.Parameter {
	var merged []document.Parameter
	positions := map[paramKey]int{}
	for _, list := range lists {
		for _, p := range list {
			if p.Name == "" || p.In == "" {
				continue
			}
			key := paramKey{name: p.Name, in: p.In}
			if i, ok := positions[key]; ok {
				merged[i] = p
				continue
			}
			positions[key] = len(merged)
			merged = append(merged, p)
		}
	}
	return merged
}

// normalizeParameters converts merged parameters into IR entries, dropping
// those whose location is not one of path, query, header or cookie.
func normalizeParameters(params []document.Parameter) []ir.IRParam {
	out := make([]ir.IRParam, 0, len(params))
	for _, p := range params {
		loc := ir.ParamLocation(p.In)
		if !loc.Valid() {
			continue
		}
		out = append(out, ir.IRParam{
			Name:        p.Name,
			In:          loc,
			Required:    p.Required,
			Description: p.Description,
			Type:        TypeLabel(p.Schema.Field("type"), p.Schema.StringField("format")),
			Enum:        enumValues(p.Schema),
			Deprecated:  p.Deprecated,
			Schema:      detach(p.Schema),
		})
	}
	return out
}

func enumValues(schema *document.Node) []any {
	items := schema.Field("enum").Items()
	if len(items) == 0 {
		return nil
	}
	out := make([]any, len(items))
	for i, it := range items {
		out[i] = it.Interface()
	}
	return out
}

// detach copies a raw shape so records never share nodes with the document.
func detach(n *document.Node) *document.Node {
	if n == nil {
		return nil
	}
	return n.Clone()
}
