package render

import (
	"html/template"
	"path"
	"regexp"
	"strings"
)

var markdownLink = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\s)]+)\)`)

// RelativeURL returns the link from the page at location from to the page
// at location to. Both are slash-separated and relative to the output root.
func RelativeURL(from, to string) string {
	fromDir := strings.Split(path.Dir(path.Clean(from)), "/")
	target := strings.Split(path.Clean(to), "/")
	if len(fromDir) == 1 && fromDir[0] == "." {
		fromDir = nil
	}

	i := 0
	for i < len(fromDir) && i < len(target)-1 && fromDir[i] == target[i] {
		i++
	}
	parts := make([]string, 0, len(fromDir)-i+len(target)-i)
	for range fromDir[i:] {
		parts = append(parts, "..")
	}
	parts = append(parts, target[i:]...)
	return strings.Join(parts, "/")
}

// MarkdownLinks turns inline [label](http...) links into anchors and escapes
// everything else.
func MarkdownLinks(text string) template.HTML {
	if text == "" {
		return ""
	}
	var b strings.Builder
	last := 0
	for _, m := range markdownLink.FindAllStringSubmatchIndex(text, -1) {
		b.WriteString(template.HTMLEscapeString(text[last:m[0]]))
		label := template.HTMLEscapeString(text[m[2]:m[3]])
		url := template.HTMLEscapeString(text[m[4]:m[5]])
		b.WriteString(`<a href="` + url + `">` + label + `</a>`)
		last = m[1]
	}
	b.WriteString(template.HTMLEscapeString(text[last:]))
	return template.HTML(b.String())
}

// EstimateTokens approximates the token count of rendered text at four
// characters per token.
func EstimateTokens(text string) int {
	return (len([]rune(text)) + 3) / 4
}
