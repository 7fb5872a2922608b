package generator

import (
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/blimu-dev/apiblocks/pkg/document"
	"github.com/blimu-dev/apiblocks/pkg/ir"
	"github.com/blimu-dev/apiblocks/pkg/utils"
)

// OperationSet is the output of ExtractOperations.
type OperationSet struct {
	ByTag map[string][]*ir.IROperation
	All   []*ir.IROperation
}

// OperationID builds the stable identifier of an operation.
func OperationID(tag, operationID, method, p string) string {
	stem := strings.ReplaceAll(operationID, " ", "_")
	if operationID == "" {
		stem = strings.ToLower(method) + "_" + utils.PathStem(p)
	}
	return strings.ToLower(tag) + "." + stem
}

// OperationLocation returns the page location of an operation.
func OperationLocation(tag, method, p string) string {
	dir := utils.SanitizeSegment(tag, ir.UntaggedTag)
	return path.Join(dir, strings.ToUpper(method)+"-"+utils.PathSlug(p)+".html")
}

// ExtractOperations builds one record per valid (path, method) pair.
// Non-mapping path items and operations and unknown methods are skipped.
func ExtractOperations(root *document.Node, opts BuildOptions) OperationSet {
	entries := document.Paths(root)
	perPath := make([][]*ir.IROperation, len(entries))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			ops := make([]*ir.IROperation, 0, len(entry.Operations))
			for _, op := range entry.Operations {
				ops = append(ops, buildOperation(entry, op, opts))
			}
			perPath[i] = ops
			return nil
		})
	}
	_ = g.Wait()

	var all []*ir.IROperation
	for _, ops := range perPath {
		all = append(all, ops...)
	}
	sort.SliceStable(all, func(i, j int) bool { return lessOperation(all[i], all[j]) })
	uniqueIDs(all)

	byTag := map[string][]*ir.IROperation{}
	for _, op := range all {
		byTag[op.Tag] = append(byTag[op.Tag], op)
	}
	// The global order already sorts each group by (path, method).
	return OperationSet{ByTag: byTag, All: all}
}

func lessOperation(a, b *ir.IROperation) bool {
	if a.Tag != b.Tag {
		return a.Tag < b.Tag
	}
	if a.Path != b.Path {
		return a.Path < b.Path
	}
	return a.Method < b.Method
}

// uniqueIDs suffixes repeated identifiers with _2, _3... in global order.
func uniqueIDs(ops []*ir.IROperation) {
	seen := make(map[string]int, len(ops))
	for _, op := range ops {
		seen[op.ID]++
		if n := seen[op.ID]; n > 1 {
			id := op.ID + "_" + strconv.Itoa(n)
			for seen[id] > 0 {
				n++
				id = op.ID + "_" + strconv.Itoa(n)
			}
			seen[id]++
			op.ID = id
		}
	}
}

func buildOperation(entry document.PathEntry, op document.Operation, opts BuildOptions) *ir.IROperation {
	tag := ir.UntaggedTag
	if len(op.Tags) > 0 && op.Tags[0] != "" {
		tag = op.Tags[0]
	}
	loc := OperationLocation(tag, op.Method, entry.Path)

	var bodies []ir.IRContent
	var bodyContent []document.MediaType
	if op.RequestBody != nil {
		bodyContent = op.RequestBody.Content
		bodies = normalizeContent(op.RequestBody.Content, op.RequestBody.Description, op.RequestBody.Required)
	}

	responses := sortResponses(op.Responses)
	normalized := make([]ir.IRResponse, 0, len(responses))
	responseContent := make([][]document.MediaType, 0, len(responses))
	for _, r := range responses {
		normalized = append(normalized, ir.IRResponse{
			Status:      r.Status,
			Description: r.Description,
			Content:     normalizeContent(r.Content, "", false),
		})
		responseContent = append(responseContent, r.Content)
	}

	return &ir.IROperation{
		ID:            OperationID(tag, op.OperationID, op.Method, entry.Path),
		Tag:           tag,
		Tags:          append([]string(nil), op.Tags...),
		Method:        op.Method,
		Path:          entry.Path,
		OperationID:   op.OperationID,
		Summary:       op.Summary,
		Description:   op.Description,
		Deprecated:    op.Deprecated,
		Parameters:    normalizeParameters(MergeParameters(entry.Parameters, op.Parameters)),
		RequestBodies: bodies,
		Responses:     normalized,
		Examples:      CollectCodeSamples(op),
		ModelsIn:      collectContentRefs(bodyContent),
		ModelsOut:     collectContentRefs(responseContent...),
		Fingerprint:   opts.Fingerprint,
		Location:      loc,
		OutputPath:    filepath.Join(opts.OutDir, filepath.FromSlash(loc)),
	}
}

// normalizeContent converts a content map. The description falls back from
// the media type to the enclosing object and then to the schema.
func normalizeContent(content []document.MediaType, fallbackDescription string, required bool) []ir.IRContent {
	out := make([]ir.IRContent, 0, len(content))
	for _, mt := range content {
		desc := mt.Description
		if desc == "" {
			desc = fallbackDescription
		}
		if desc == "" {
			desc = mt.Schema.StringField("description")
		}
		out = append(out, ir.IRContent{
			ContentType: mt.ContentType,
			Schema:      detach(mt.Schema),
			Ref:         directRef(mt.Schema),
			Description: desc,
			Required:    required,
			Examples:    CollectExamples(mt.Raw),
		})
	}
	return out
}

// statusRank orders numeric codes first, then other statuses, then
// "default".
func statusRank(status string) (int, int) {
	if status == "default" {
		return 2, 0
	}
	code, err := strconv.Atoi(status)
	if err != nil {
		return 1, 0
	}
	return 0, code
}

func sortResponses(responses []document.Response) []document.Response {
	out := append([]document.Response(nil), responses...)
	sort.SliceStable(out, func(i, j int) bool {
		ri, ci := statusRank(out[i].Status)
		rj, cj := statusRank(out[j].Status)
		if ri != rj {
			return ri < rj
		}
		if ci != cj {
			return ci < cj
		}
		return out[i].Status < out[j].Status
	})
	return out
}
