package generator

import (
	"sort"

	"github.com/blimu-dev/apiblocks/pkg/document"
	"github.com/blimu-dev/apiblocks/pkg/ir"
)

// DefaultExampleLabel labels the single "example" field.
const DefaultExampleLabel = "default"

// CollectExamples extracts payload examples from a media type (or any object
// carrying "example" / "examples"). The single example counts whenever the
// key is present, falsy values included. Named examples use the nested
// "value" of mapping entries and are skipped when that value is absent or
// null.
func CollectExamples(info *document.Node) []ir.IRExample {
	if !info.IsMapping() {
		return nil
	}
	var out []ir.IRExample
	if v, ok := info.Get("example"); ok {
		out = append(out, ir.IRExample{Label: DefaultExampleLabel, Value: v.Interface()})
	}
	for _, p := range info.Field("examples").Pairs() {
		value := p.Value
		if value.IsMapping() {
			v, ok := value.Get("value")
			if !ok {
				continue
			}
			value = v
		}
		if value.IsNull() {
			continue
		}
		out = append(out, ir.IRExample{Label: p.Key, Value: value.Interface()})
	}
	return out
}

// CollectCodeSamples merges per-language code samples of an operation. The
// structured x-oaiMeta examples win; x-examples only fills languages that are
// still missing. The result is sorted by language.
func CollectCodeSamples(op document.Operation) []ir.IRCodeSample {
	samples := map[string]string{}
	addPrimarySamples(samples, op.CodeSamples)
	addSamples(samples, op.ExtraSamples)

	langs := make([]string, 0, len(samples))
	for lang := range samples {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	out := make([]ir.IRCodeSample, 0, len(langs))
	for _, lang := range langs {
		out = append(out, ir.IRCodeSample{Language: lang, Code: samples[lang]})
	}
	return out
}

// addPrimarySamples accepts a language map, a mapping whose "request" field
// is a language map, or a sequence of either.
func addPrimarySamples(dst map[string]string, n *document.Node) {
	switch {
	case n.IsSequence():
		for _, it := range n.Items() {
			addPrimarySamples(dst, it)
		}
	case n.IsMapping():
		if req := n.Field("request"); req.IsMapping() {
			addSamples(dst, req)
			return
		}
		addSamples(dst, n)
	}
}

// addSamples copies string entries of a language map, keeping existing ones.
func addSamples(dst map[string]string, n *document.Node) {
	for _, p := range n.Pairs() {
		code, ok := p.Value.Str()
		if !ok || p.Value.Tag != document.TagStr {
			continue
		}
		if _, exists := dst[p.Key]; exists {
			continue
		}
		dst[p.Key] = code
	}
}
