package ir

import (
	"sort"

	"github.com/blimu-dev/apiblocks/pkg/document"
)

// UntaggedTag groups operations that declare no tag.
const UntaggedTag = "untagged"

// ParamLocation is where a parameter is carried.
type ParamLocation string

const (
	ParamInPath   ParamLocation = "path"
	ParamInQuery  ParamLocation = "query"
	ParamInHeader ParamLocation = "header"
	ParamInCookie ParamLocation = "cookie"
)

// ParamLocations lists the locations in presentation order.
var ParamLocations = []ParamLocation{ParamInPath, ParamInQuery, ParamInHeader, ParamInCookie}

// Valid reports whether l is one of the known locations.
func (l ParamLocation) Valid() bool {
	switch l {
	case ParamInPath, ParamInQuery, ParamInHeader, ParamInCookie:
		return true
	}
	return false
}

// IROperation represents a single API operation (path + method)
type IROperation struct {
	// ID is "<lowercase tag>.<operationId or derived stem>", unique per build
	ID          string
	Tag         string
	Tags        []string
	Method      string
	Path        string
	OperationID string
	Summary     string
	Description string
	Deprecated  bool

	Parameters    []IRParam
	RequestBodies []IRContent
	Responses     []IRResponse
	// Examples holds code samples sorted by language
	Examples []IRCodeSample

	ModelsIn  []string
	ModelsOut []string

	Fingerprint string
	// Location is the slash separated page path relative to the output root
	Location   string
	OutputPath string
}

// IRParam represents a resolved parameter
type IRParam struct {
	Name        string
	In          ParamLocation
	Required    bool
	Description string
	// Type is the derived label, e.g. "string (uuid)"; empty when unknown
	Type       string
	Enum       []any
	Deprecated bool
	Schema     *document.Node
}

// IRContent is one media type entry of a request body or response
type IRContent struct {
	ContentType string
	Schema      *document.Node
	// Ref is set only when the whole schema is a bare named reference
	Ref         string
	Description string
	Required    bool
	Examples    []IRExample
}

// IRResponse represents one declared response status
type IRResponse struct {
	Status      string
	Description string
	Content     []IRContent
}

// IRExample is a labelled payload example
type IRExample struct {
	Label string
	Value any
}

// IRCodeSample is a code snippet for one language
type IRCodeSample struct {
	Language string
	Code     string
}

// IRSchema represents one named entry of components.schemas
type IRSchema struct {
	Name        string
	Description string
	Properties  []IRProperty
	AnyOf       []IRVariant
	OneOf       []IRVariant
	AllOf       []IRVariant
	Examples    []any

	Fingerprint string
	Location    string
	OutputPath  string
}

// IRProperty represents a field of an object schema
type IRProperty struct {
	Name        string
	Description string
	Type        string
	Required    bool
	Enum        []any
	Ref         string
	Schema      *document.Node
}

// IRVariant is one branch of an anyOf/oneOf/allOf list. Either Ref is set,
// or the inline fields are.
type IRVariant struct {
	Ref string

	Title       string
	Description string
	Type        string
	AnyOf       []IRVariant
	OneOf       []IRVariant
	AllOf       []IRVariant
	Schema      *document.Node
}

// IsRef reports whether the variant is a bare named reference.
func (v IRVariant) IsRef() bool { return v.Ref != "" }

// IR represents the complete intermediate representation of a document
type IR struct {
	Fingerprint string
	// ByTag maps each tag to its operations ordered by (path, method)
	ByTag map[string][]*IROperation
	// Operations is ordered by (tag, path, method)
	Operations []*IROperation
	// Schemas is ordered by name
	Schemas []*IRSchema
}

// Tags returns the tag names in ascending order.
func (in *IR) Tags() []string {
	tags := make([]string, 0, len(in.ByTag))
	for t := range in.ByTag {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// SchemaLocations maps schema names to their page locations.
func (in *IR) SchemaLocations() map[string]string {
	out := make(map[string]string, len(in.Schemas))
	for _, s := range in.Schemas {
		out[s.Name] = s.Location
	}
	return out
}

// Siblings returns the operations sharing op's tag, op excluded.
func (in *IR) Siblings(op *IROperation) []*IROperation {
	group := in.ByTag[op.Tag]
	out := make([]*IROperation, 0, len(group))
	for _, o := range group {
		if o.ID != op.ID {
			out = append(out, o)
		}
	}
	return out
}
