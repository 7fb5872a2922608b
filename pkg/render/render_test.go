package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelativeURL(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected string
	}{
		{"index.html", "chat/POST-chat-completions.html", "chat/POST-chat-completions.html"},
		{"chat/GET-models.html", "chat/POST-chat-completions.html", "POST-chat-completions.html"},
		{"chat/GET-models.html", "components/schemas/Model.html", "../components/schemas/Model.html"},
		{"components/schemas/A.html", "components/schemas/B.html", "B.html"},
		{"components/schemas/A.html", "index.html", "../../index.html"},
	}

	for _, test := range tests {
		result := RelativeURL(test.from, test.to)
		if result != test.expected {
			t.Errorf("RelativeURL(%q, %q) = %q, expected %q", test.from, test.to, result, test.expected)
		}
	}
}

func TestMarkdownLinks(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"plain <b>text</b>", "plain &lt;b&gt;text&lt;/b&gt;"},
		{
			"See [the guide](https://example.com/guide?a=1&b=2) & more",
			`See <a href="https://example.com/guide?a=1&amp;b=2">the guide</a> &amp; more`,
		},
		{"[relative](/docs) stays text", "[relative](/docs) stays text"},
		{
			"[a](http://a.test)[b](https://b.test)",
			`<a href="http://a.test">a</a><a href="https://b.test">b</a>`,
		},
	}

	for _, test := range tests {
		result := string(MarkdownLinks(test.input))
		if result != test.expected {
			t.Errorf("MarkdownLinks(%q) = %q, expected %q", test.input, result, test.expected)
		}
	}
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("abcd"))
	assert.Equal(t, 2, EstimateTokens("abcde"))
	assert.Equal(t, 250, EstimateTokens(strings.Repeat("x", 1000)))
}

func TestWriterWrite(t *testing.T) {
	root := t.TempDir()
	w, err := NewWriter(root, func(p string) bool {
		return filepath.Base(p) == "sitemap.xml"
	})
	require.NoError(t, err)

	require.NoError(t, w.Write("chat/GET-models.html", []byte("<p>ok</p>")))
	require.NoError(t, w.Write("sitemap.xml", []byte("<urlset/>")))

	data, err := os.ReadFile(filepath.Join(root, "chat", "GET-models.html"))
	require.NoError(t, err)
	assert.Equal(t, "<p>ok</p>", string(data))

	_, err = os.Stat(filepath.Join(root, "sitemap.xml"))
	assert.True(t, os.IsNotExist(err), "excluded file must not be written")

	assert.Equal(t, []string{"chat/GET-models.html"}, w.Written())
	assert.Equal(t, []string{"sitemap.xml"}, w.Skipped())
}

func TestWriterRejectsEscapes(t *testing.T) {
	w, err := NewWriter(t.TempDir(), nil)
	require.NoError(t, err)

	for _, loc := range []string{"../outside.html", "a/../../outside.html", "..", ""} {
		assert.Error(t, w.Write(loc, []byte("x")), "location %q", loc)
	}
}

func TestWriterRejectsSymlink(t *testing.T) {
	root := t.TempDir()
	outside := filepath.Join(t.TempDir(), "target.html")
	require.NoError(t, os.WriteFile(outside, []byte("original"), 0o644))
	if err := os.Symlink(outside, filepath.Join(root, "link.html")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	w, err := NewWriter(root, nil)
	require.NoError(t, err)
	assert.Error(t, w.Write("link.html", []byte("changed")))

	data, err := os.ReadFile(outside)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
}
