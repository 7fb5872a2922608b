package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	env "github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "APIBLOCKS_"

// DefaultSpecURL is the document fetched when no spec is configured.
const DefaultSpecURL = "https://app.stainless.com/api/spec/documented/openai/openapi.documented.yml"

// Config represents the complete configuration of a build
type Config struct {
	// Spec is a local path, a file:// URL or an http(s) URL
	Spec     string        `yaml:"spec" env:"SPEC"`
	OutDir   string        `yaml:"outDir" env:"OUT_DIR"`
	CacheDir string        `yaml:"cacheDir" env:"CACHE_DIR"`
	Timeout  time.Duration `yaml:"timeout" env:"TIMEOUT"`
	// Retries bounds the fetch attempts after the first one
	Retries int `yaml:"retries" env:"RETRIES"`
	// Languages selects which code samples are rendered
	Languages []string `yaml:"languages" env:"LANGUAGES" envSeparator:","`
	// MaxTokens is the page size above which a warning is logged
	MaxTokens int `yaml:"maxTokens" env:"MAX_TOKENS"`
	// Workers bounds concurrent page writes
	Workers     int      `yaml:"workers" env:"WORKERS"`
	IncludeTags []string `yaml:"includeTags" env:"INCLUDE_TAGS" envSeparator:","`
	ExcludeTags []string `yaml:"excludeTags" env:"EXCLUDE_TAGS" envSeparator:","`
	// Generators lists the generator types to run, all registered ones when empty
	Generators []string `yaml:"generators" env:"GENERATORS" envSeparator:","`
	// ExcludeFiles is a list of file paths (relative to OutDir) that should not be written
	// Example: ["sitemap.xml", "blocks/"]
	ExcludeFiles []string `yaml:"exclude"`
	// PreCommand is an optional command to run before generation starts.
	// Uses Docker Compose array format: ["git", "clean", "-fdx"]
	// The command will be executed in the output directory.
	PreCommand []string `yaml:"preCommand"`
	// PostCommand is an optional command to run after generation completes.
	// The command will be executed in the output directory.
	PostCommand []string `yaml:"postCommand"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Spec:      DefaultSpecURL,
		OutDir:    "site",
		CacheDir:  ".cache",
		Timeout:   30 * time.Second,
		Retries:   3,
		Languages: []string{"curl", "python"},
		MaxTokens: 1500,
		Workers:   8,
	}
}

// GetPreCommand returns the pre-generation command to execute.
func (c *Config) GetPreCommand() []string {
	return c.PreCommand
}

// GetPostCommand returns the post-generation command to execute.
func (c *Config) GetPostCommand() []string {
	return c.PostCommand
}

// ShouldExcludeFile checks if a file path should be excluded based on the ExcludeFiles list.
// targetPath should be an absolute path, and the comparison is done relative to OutDir.
func (c *Config) ShouldExcludeFile(targetPath string) bool {
	if len(c.ExcludeFiles) == 0 {
		return false
	}

	relPath, err := filepath.Rel(c.OutDir, targetPath)
	if err != nil {
		return false
	}
	relPath = filepath.ToSlash(relPath)
	if relPath == "." {
		relPath = ""
	}

	for _, excludePattern := range c.ExcludeFiles {
		normalizedExclude := strings.TrimSuffix(filepath.ToSlash(excludePattern), "/")
		if relPath == normalizedExclude {
			return true
		}
		// "blocks/" excludes everything below blocks
		if normalizedExclude != "" && strings.HasPrefix(relPath, normalizedExclude+"/") {
			return true
		}
	}
	return false
}

// Load reads the YAML file at path over the defaults and then applies
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Normalize checks required fields and makes local paths absolute.
func (c *Config) Normalize() error {
	if c.Spec == "" {
		return errors.New("config.spec is required")
	}
	if c.OutDir == "" {
		return errors.New("config.outDir is required")
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("config.maxTokens must not be negative, got %d", c.MaxTokens)
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.Retries < 0 {
		c.Retries = 0
	}
	c.OutDir = absPath(c.OutDir)
	if c.CacheDir != "" {
		c.CacheDir = absPath(c.CacheDir)
	}
	// Do not absolutize when spec is a URL
	if u, err := url.Parse(c.Spec); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		return nil
	}
	c.Spec = absPath(c.Spec)
	return nil
}

func absPath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
