package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Parse decodes YAML (or JSON) bytes into a Node tree.
func Parse(data []byte) (*Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	return FromYAML(&root), nil
}

// FromYAML converts a yaml.Node tree. Alias nodes resolve to the node built
// for their anchor so shared substructures keep one identity; an alias that
// points back at one of its own ancestors becomes null.
func FromYAML(y *yaml.Node) *Node {
	c := &converter{
		built:   map[*yaml.Node]*Node{},
		pending: map[*yaml.Node]bool{},
	}
	return c.convert(y)
}

type converter struct {
	built   map[*yaml.Node]*Node
	pending map[*yaml.Node]bool
}

func (c *converter) convert(y *yaml.Node) *Node {
	if y == nil {
		return Null()
	}
	if n, ok := c.built[y]; ok {
		return n
	}
	if c.pending[y] {
		return Null()
	}
	c.pending[y] = true
	defer delete(c.pending, y)

	var n *Node
	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			n = Null()
		} else {
			n = c.convert(y.Content[0])
		}
	case yaml.AliasNode:
		n = c.convert(y.Alias)
	case yaml.SequenceNode:
		items := make([]*Node, 0, len(y.Content))
		for _, it := range y.Content {
			items = append(items, c.convert(it))
		}
		n = Sequence(items...)
	case yaml.MappingNode:
		n = c.mapping(y)
	case yaml.ScalarNode:
		tag := y.ShortTag()
		if tag == TagNull {
			n = Null()
		} else {
			n = Scalar(tag, y.Value)
		}
	default:
		n = Null()
	}
	c.built[y] = n
	return n
}

func (c *converter) mapping(y *yaml.Node) *Node {
	n := &Node{Kind: MappingNode, index: make(map[string]int, len(y.Content)/2)}
	var merges []*Node
	for i := 0; i+1 < len(y.Content); i += 2 {
		k, v := y.Content[i], y.Content[i+1]
		if k.Kind == yaml.ScalarNode && k.ShortTag() == "!!merge" {
			merges = append(merges, c.convert(v))
			continue
		}
		n.set(keyText(k), c.convert(v))
	}
	// Merge keys only contribute fields the mapping does not define itself;
	// earlier sources win over later ones.
	for _, m := range merges {
		sources := []*Node{m}
		if m.IsSequence() {
			sources = m.Items()
		}
		for _, src := range sources {
			for _, p := range src.Pairs() {
				if _, ok := n.index[p.Key]; !ok {
					n.set(p.Key, p.Value)
				}
			}
		}
	}
	return n
}

func keyText(k *yaml.Node) string {
	for k.Kind == yaml.AliasNode && k.Alias != nil {
		k = k.Alias
	}
	if k.Kind == yaml.ScalarNode {
		return k.Value
	}
	out, err := yaml.Marshal(k)
	if err != nil {
		return fmt.Sprint(k.Value)
	}
	return string(bytes.TrimSpace(out))
}

// MarshalJSON encodes the node keeping mapping keys in document order.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.writeJSON(&buf, map[*Node]bool{}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n *Node) writeJSON(buf *bytes.Buffer, active map[*Node]bool) error {
	if n.IsNull() {
		buf.WriteString("null")
		return nil
	}
	if active[n] {
		buf.WriteString("null")
		return nil
	}
	switch n.Kind {
	case ScalarNode:
		b, err := json.Marshal(n.scalarValue())
		if err != nil {
			b, err = json.Marshal(n.Value)
			if err != nil {
				return err
			}
		}
		buf.Write(b)
	case SequenceNode:
		active[n] = true
		buf.WriteByte('[')
		for i, it := range n.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := it.writeJSON(buf, active); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		delete(active, n)
	case MappingNode:
		active[n] = true
		buf.WriteByte('{')
		for i, p := range n.pairs {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(p.Key)
			if err != nil {
				return err
			}
			buf.Write(k)
			buf.WriteByte(':')
			if err := p.Value.writeJSON(buf, active); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		delete(active, n)
	}
	return nil
}
