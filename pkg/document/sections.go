package document

import (
	"sort"
	"strings"
)

// Reference prefixes for the component namespaces the extractor touches.
const (
	RefPrefixSchemas    = "#/components/schemas/"
	RefPrefixParameters = "#/components/parameters/"
)

// maxRefHops bounds chained parameter references.
const maxRefHops = 16

// ValidMethods is the set of HTTP methods turned into operations.
var ValidMethods = map[string]bool{
	"GET":     true,
	"POST":    true,
	"PUT":     true,
	"PATCH":   true,
	"DELETE":  true,
	"HEAD":    true,
	"OPTIONS": true,
}

// PathEntry is one entry of the paths table.
type PathEntry struct {
	Path       string
	Parameters []Parameter
	Operations []Operation
}

// Operation is the typed view of one operation object.
type Operation struct {
	Method         string
	OperationID    string
	HasOperationID bool
	Tags           []string
	Summary        string
	Description    string
	Deprecated     bool
	Parameters     []Parameter
	RequestBody    *RequestBody
	Responses      []Response
	CodeSamples    *Node // x-oaiMeta.examples
	ExtraSamples   *Node // x-examples
}

// Parameter is the typed view of a parameter object. Name or In may be empty
// for malformed entries; the merger drops those.
type Parameter struct {
	Name        string
	In          string
	Required    bool
	Deprecated  bool
	Description string
	Schema      *Node
}

// RequestBody is the typed view of a request body object.
type RequestBody struct {
	Description string
	Required    bool
	Content     []MediaType
}

// Response is one declared response, in document order.
type Response struct {
	Status      string
	Description string
	Content     []MediaType
}

// MediaType is one entry of a content map.
type MediaType struct {
	ContentType string
	Description string
	Schema      *Node
	Raw         *Node
}

// SchemaEntry is one named entry of components.schemas.
type SchemaEntry struct {
	Name   string
	Schema *Node
}

// Paths returns the path table sorted by path string. Entries whose value is
// not a mapping are dropped, as are methods outside ValidMethods and
// operations that are not mappings.
func Paths(root *Node) []PathEntry {
	table := root.Field("paths")
	keys := table.Keys()
	sort.Strings(keys)

	params := newParameterResolver(root)
	out := make([]PathEntry, 0, len(keys))
	for _, path := range keys {
		item := table.Field(path)
		if !item.IsMapping() {
			continue
		}
		entry := PathEntry{
			Path:       path,
			Parameters: params.list(item.Field("parameters")),
		}
		for _, p := range item.Pairs() {
			method := strings.ToUpper(p.Key)
			if !ValidMethods[method] || !p.Value.IsMapping() {
				continue
			}
			entry.Operations = append(entry.Operations, decodeOperation(method, p.Value, params))
		}
		out = append(out, entry)
	}
	return out
}

// Schemas returns components.schemas entries sorted by name. Non-mapping
// entries are dropped.
func Schemas(root *Node) []SchemaEntry {
	table := root.Field("components").Field("schemas")
	keys := table.Keys()
	sort.Strings(keys)
	out := make([]SchemaEntry, 0, len(keys))
	for _, name := range keys {
		s := table.Field(name)
		if !s.IsMapping() {
			continue
		}
		out = append(out, SchemaEntry{Name: name, Schema: s})
	}
	return out
}

func decodeOperation(method string, op *Node, params *parameterResolver) Operation {
	out := Operation{
		Method:      method,
		Summary:     op.StringField("summary"),
		Description: op.StringField("description"),
		Deprecated:  op.Field("deprecated").Bool(),
		Parameters:  params.list(op.Field("parameters")),
		Responses:   decodeResponses(op.Field("responses")),
	}
	if id, ok := op.Field("operationId").Str(); ok && id != "" {
		out.OperationID = id
		out.HasOperationID = true
	}
	for _, t := range op.Field("tags").Items() {
		if s, ok := t.Str(); ok {
			out.Tags = append(out.Tags, s)
		}
	}
	if rb := op.Field("requestBody"); rb.IsMapping() {
		out.RequestBody = &RequestBody{
			Description: rb.StringField("description"),
			Required:    rb.Field("required").Bool(),
			Content:     decodeContent(rb.Field("content")),
		}
	}
	if meta := op.Field("x-oaiMeta"); meta.IsMapping() {
		out.CodeSamples = meta.Field("examples")
	}
	out.ExtraSamples = op.Field("x-examples")
	return out
}

func decodeResponses(n *Node) []Response {
	out := make([]Response, 0, n.Len())
	for _, p := range n.Pairs() {
		r := Response{Status: p.Key}
		// A non-mapping response payload still yields an entry, with no
		// description or content.
		if p.Value.IsMapping() {
			r.Description = p.Value.StringField("description")
			r.Content = decodeContent(p.Value.Field("content"))
		}
		out = append(out, r)
	}
	return out
}

func decodeContent(n *Node) []MediaType {
	out := make([]MediaType, 0, n.Len())
	for _, p := range n.Pairs() {
		mt := MediaType{ContentType: p.Key, Raw: p.Value}
		if p.Value.IsMapping() {
			mt.Description = p.Value.StringField("description")
			if s := p.Value.Field("schema"); s.IsMapping() {
				mt.Schema = s
			}
		}
		out = append(out, mt)
	}
	return out
}

// parameterResolver expands parameter entries that reference
// #/components/parameters/<name>.
type parameterResolver struct {
	table *Node
}

func newParameterResolver(root *Node) *parameterResolver {
	return &parameterResolver{table: root.Field("components").Field("parameters")}
}

func (r *parameterResolver) list(n *Node) []Parameter {
	items := n.Items()
	if len(items) == 0 {
		return nil
	}
	out := make([]Parameter, 0, len(items))
	for _, it := range items {
		p, ok := r.resolve(it)
		if !ok {
			continue
		}
		out = append(out, Parameter{
			Name:        p.StringField("name"),
			In:          p.StringField("in"),
			Required:    p.Field("required").Bool(),
			Deprecated:  p.Field("deprecated").Bool(),
			Description: p.StringField("description"),
			Schema:      p.Field("schema"),
		})
	}
	return out
}

func (r *parameterResolver) resolve(n *Node) (*Node, bool) {
	seen := map[string]bool{}
	for hop := 0; hop < maxRefHops; hop++ {
		if !n.IsMapping() {
			return nil, false
		}
		ref, ok := n.Field("$ref").Str()
		if !ok {
			return n, true
		}
		if !strings.HasPrefix(ref, RefPrefixParameters) || seen[ref] {
			return nil, false
		}
		seen[ref] = true
		n = r.table.Field(UnescapePointer(strings.TrimPrefix(ref, RefPrefixParameters)))
	}
	return nil, false
}

// UnescapePointer decodes a JSON pointer reference token.
func UnescapePointer(token string) string {
	if !strings.Contains(token, "~") {
		return token
	}
	return strings.ReplaceAll(strings.ReplaceAll(token, "~1", "/"), "~0", "~")
}
