package generator

import (
	"sort"
	"strings"

	"github.com/blimu-dev/apiblocks/pkg/document"
)

// RefName returns the shape name a reference points at, or "" when ref does
// not start with prefix.
func RefName(ref, prefix string) string {
	if ref == "" || !strings.HasPrefix(ref, prefix) {
		return ""
	}
	rest := strings.TrimPrefix(ref, prefix)
	if i := strings.LastIndex(rest, "/"); i >= 0 {
		rest = rest[i+1:]
	}
	return document.UnescapePointer(rest)
}

// directRef returns the shape name when n is itself a reference mapping.
func directRef(n *document.Node) string {
	ref, _ := n.Field("$ref").Str()
	return RefName(ref, document.RefPrefixSchemas)
}

// CollectRefs walks n depth first and returns the sorted, distinct names of
// every shape referenced through prefix. Each container is descended at most
// once, so aliased or shared subtrees do not multiply the work.
func CollectRefs(n *document.Node, prefix string) []string {
	found := map[string]struct{}{}
	visited := map[*document.Node]struct{}{}
	collectRefs(n, prefix, found, visited)

	out := make([]string, 0, len(found))
	for name := range found {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func collectRefs(n *document.Node, prefix string, found map[string]struct{}, visited map[*document.Node]struct{}) {
	if n == nil {
		return
	}
	switch n.Kind {
	case document.MappingNode:
		if _, ok := visited[n]; ok {
			return
		}
		visited[n] = struct{}{}
		if ref, ok := n.Field("$ref").Str(); ok {
			if name := RefName(ref, prefix); name != "" {
				found[name] = struct{}{}
			}
		}
		for _, p := range n.Pairs() {
			collectRefs(p.Value, prefix, found, visited)
		}
	case document.SequenceNode:
		if _, ok := visited[n]; ok {
			return
		}
		visited[n] = struct{}{}
		for _, it := range n.Items() {
			collectRefs(it, prefix, found, visited)
		}
	case document.ScalarNode, document.NullNode:
	}
}

// collectContentRefs gathers the references of every media type schema.
func collectContentRefs(contents ...[]document.MediaType) []string {
	holder := make([]*document.Node, 0)
	for _, list := range contents {
		for _, mt := range list {
			if mt.Schema != nil {
				holder = append(holder, mt.Schema)
			}
		}
	}
	return CollectRefs(document.Sequence(holder...), document.RefPrefixSchemas)
}
