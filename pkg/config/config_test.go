package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultSpecURL, cfg.Spec)
	assert.True(t, filepath.IsAbs(cfg.OutDir))
	assert.Equal(t, []string{"curl", "python"}, cfg.Languages)
	assert.Equal(t, 1500, cfg.MaxTokens)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "apiblocks.yaml")
	content := `spec: https://example.com/openapi.yml
outDir: ` + filepath.Join(dir, "out") + `
languages: [curl]
maxTokens: 800
exclude:
  - sitemap.xml
  - blocks/
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("APIBLOCKS_MAX_TOKENS", "900")
	t.Setenv("APIBLOCKS_INCLUDE_TAGS", "Chat,Models")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/openapi.yml", cfg.Spec, "URLs are kept as-is")
	assert.Equal(t, []string{"curl"}, cfg.Languages)
	assert.Equal(t, 900, cfg.MaxTokens, "environment wins over the file")
	assert.Equal(t, []string{"Chat", "Models"}, cfg.IncludeTags)
	assert.Equal(t, 3, cfg.Retries, "unset fields keep their default")
}

func TestLoadRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "apiblocks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("maxTokens: -1\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestShouldExcludeFile(t *testing.T) {
	cfg := &Config{
		OutDir:       "/tmp/site",
		ExcludeFiles: []string{"sitemap.xml", "blocks/", "components/schemas/Secret.html"},
	}

	tests := []struct {
		input    string
		expected bool
	}{
		{"/tmp/site/sitemap.xml", true},
		{"/tmp/site/blocks/index.json", true},
		{"/tmp/site/blocks", true},
		{"/tmp/site/components/schemas/Secret.html", true},
		{"/tmp/site/components/schemas/Public.html", false},
		{"/tmp/site/index.html", false},
		{"/tmp/site/blocksmith/index.html", false},
	}

	for _, test := range tests {
		result := cfg.ShouldExcludeFile(test.input)
		if result != test.expected {
			t.Errorf("ShouldExcludeFile(%q) = %v, expected %v", test.input, result, test.expected)
		}
	}
}
