// Package document models a parsed OpenAPI document as a closed tree of
// mappings, sequences, scalars and nulls.
//
// Nodes are built once from a yaml.Node tree and never mutated afterwards.
// YAML aliases are converted into shared *Node values so that aliased
// substructures keep a single identity, and recursive aliases are cut.
package document

import (
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Node.
type Kind uint8

const (
	NullNode Kind = iota
	ScalarNode
	SequenceNode
	MappingNode
)

func (k Kind) String() string {
	switch k {
	case ScalarNode:
		return "scalar"
	case SequenceNode:
		return "sequence"
	case MappingNode:
		return "mapping"
	default:
		return "null"
	}
}

// Scalar tags as resolved by the YAML decoder.
const (
	TagStr       = "!!str"
	TagInt       = "!!int"
	TagFloat     = "!!float"
	TagBool      = "!!bool"
	TagNull      = "!!null"
	TagTimestamp = "!!timestamp"
)

// Pair is a single mapping entry.
type Pair struct {
	Key   string
	Value *Node
}

// Node is one element of the document tree.
type Node struct {
	Kind  Kind
	Tag   string
	Value string

	pairs []Pair
	index map[string]int
	items []*Node
}

// Null returns a fresh null node.
func Null() *Node { return &Node{Kind: NullNode, Tag: TagNull} }

// String returns a fresh string scalar.
func String(s string) *Node { return &Node{Kind: ScalarNode, Tag: TagStr, Value: s} }

// Scalar returns a fresh scalar with an explicit tag.
func Scalar(tag, value string) *Node { return &Node{Kind: ScalarNode, Tag: tag, Value: value} }

// Sequence builds a sequence node from items. Nil items become null nodes.
func Sequence(items ...*Node) *Node {
	n := &Node{Kind: SequenceNode, items: make([]*Node, 0, len(items))}
	for _, it := range items {
		if it == nil {
			it = Null()
		}
		n.items = append(n.items, it)
	}
	return n
}

// Mapping builds a mapping node from pairs. A repeated key replaces the
// earlier value in place.
func Mapping(pairs ...Pair) *Node {
	n := &Node{Kind: MappingNode, index: make(map[string]int, len(pairs))}
	for _, p := range pairs {
		n.set(p.Key, p.Value)
	}
	return n
}

func (n *Node) set(key string, v *Node) {
	if v == nil {
		v = Null()
	}
	if i, ok := n.index[key]; ok {
		n.pairs[i].Value = v
		return
	}
	n.index[key] = len(n.pairs)
	n.pairs = append(n.pairs, Pair{Key: key, Value: v})
}

// IsMapping reports whether n is a non-nil mapping.
func (n *Node) IsMapping() bool { return n != nil && n.Kind == MappingNode }

// IsSequence reports whether n is a non-nil sequence.
func (n *Node) IsSequence() bool { return n != nil && n.Kind == SequenceNode }

// IsScalar reports whether n is a non-nil scalar.
func (n *Node) IsScalar() bool { return n != nil && n.Kind == ScalarNode }

// IsNull reports whether n is nil or a null node.
func (n *Node) IsNull() bool { return n == nil || n.Kind == NullNode }

// Get returns the value stored under key and whether the key exists. It
// returns false for anything that is not a mapping.
func (n *Node) Get(key string) (*Node, bool) {
	if !n.IsMapping() {
		return nil, false
	}
	i, ok := n.index[key]
	if !ok {
		return nil, false
	}
	return n.pairs[i].Value, true
}

// Field returns the value stored under key, or nil.
func (n *Node) Field(key string) *Node {
	v, _ := n.Get(key)
	return v
}

// Has reports whether key is present, whatever its value.
func (n *Node) Has(key string) bool {
	_, ok := n.Get(key)
	return ok
}

// Pairs returns the mapping entries in document order.
func (n *Node) Pairs() []Pair {
	if !n.IsMapping() {
		return nil
	}
	return n.pairs
}

// Keys returns the mapping keys in document order.
func (n *Node) Keys() []string {
	if !n.IsMapping() {
		return nil
	}
	keys := make([]string, len(n.pairs))
	for i, p := range n.pairs {
		keys[i] = p.Key
	}
	return keys
}

// Items returns the sequence elements.
func (n *Node) Items() []*Node {
	if !n.IsSequence() {
		return nil
	}
	return n.items
}

// Len returns the number of entries of a mapping or sequence.
func (n *Node) Len() int {
	switch {
	case n.IsMapping():
		return len(n.pairs)
	case n.IsSequence():
		return len(n.items)
	}
	return 0
}

// Str returns the text of a scalar and whether n is a scalar.
func (n *Node) Str() (string, bool) {
	if !n.IsScalar() {
		return "", false
	}
	return n.Value, true
}

// StringField returns the scalar text under key, or "" when absent or not a
// scalar.
func (n *Node) StringField(key string) string {
	s, _ := n.Field(key).Str()
	return s
}

// Bool reports whether n is the boolean scalar true.
func (n *Node) Bool() bool {
	if !n.IsScalar() || n.Tag != TagBool {
		return false
	}
	b, err := strconv.ParseBool(strings.ToLower(n.Value))
	return err == nil && b
}

// Interface converts n into plain Go values: map[string]any, []any, string,
// int64, float64, bool or nil. Aliased subtrees are converted once per
// occurrence, so the result never shares containers with n.
func (n *Node) Interface() any {
	switch {
	case n.IsNull():
		return nil
	case n.IsScalar():
		return n.scalarValue()
	case n.IsSequence():
		out := make([]any, len(n.items))
		for i, it := range n.items {
			out[i] = it.Interface()
		}
		return out
	default:
		out := make(map[string]any, len(n.pairs))
		for _, p := range n.pairs {
			out[p.Key] = p.Value.Interface()
		}
		return out
	}
}

func (n *Node) scalarValue() any {
	switch n.Tag {
	case TagInt:
		if i, err := strconv.ParseInt(strings.ReplaceAll(n.Value, "_", ""), 0, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(n.Value, 64); err == nil {
			return f
		}
	case TagFloat:
		switch strings.ToLower(n.Value) {
		case ".inf", "+.inf", ".nan", "-.inf":
			return n.Value
		}
		if f, err := strconv.ParseFloat(n.Value, 64); err == nil {
			return f
		}
	case TagBool:
		return n.Bool()
	case TagNull:
		return nil
	}
	return n.Value
}

// Clone returns a deep copy of n. Shared subtrees are copied once and stay
// shared in the copy.
func (n *Node) Clone() *Node {
	return n.clone(map[*Node]*Node{})
}

func (n *Node) clone(seen map[*Node]*Node) *Node {
	if n == nil {
		return nil
	}
	if c, ok := seen[n]; ok {
		return c
	}
	c := &Node{Kind: n.Kind, Tag: n.Tag, Value: n.Value}
	seen[n] = c
	switch n.Kind {
	case SequenceNode:
		c.items = make([]*Node, len(n.items))
		for i, it := range n.items {
			c.items[i] = it.clone(seen)
		}
	case MappingNode:
		c.pairs = make([]Pair, len(n.pairs))
		c.index = make(map[string]int, len(n.pairs))
		for i, p := range n.pairs {
			c.pairs[i] = Pair{Key: p.Key, Value: p.Value.clone(seen)}
			c.index[p.Key] = i
		}
	}
	return c
}
