// Package apiblocks turns an OpenAPI 3.1 document into a static set of
// per-operation HTML blocks, per-schema pages and machine readable indexes
// (manifest.json, blocks/index.json, sitemap.xml and llms.txt).
//
// Quick Start:
//
//	import "github.com/blimu-dev/apiblocks"
//
//	// Build the site for the default document into ./site
//	result, err := apiblocks.Build(ctx, "", "./site")
//
// For more advanced usage, see the generator package.
package apiblocks

import (
	"context"

	"github.com/blimu-dev/apiblocks/pkg/generator"
)

// Result summarizes a finished build.
type Result = generator.Result

// Build is a convenience function for building a site with minimal
// configuration. An empty spec keeps the configured default document.
//
// Example:
//
//	result, err := apiblocks.Build(ctx, "./openapi.yaml", "./site")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(result.BlockCount, "blocks written")
func Build(ctx context.Context, spec, outDir string) (*Result, error) {
	return generator.BuildSite(ctx, generator.BuildSiteOptions{
		Spec:   spec,
		OutDir: outDir,
	})
}

// BuildSite builds with full control over the configuration file and the
// main overrides.
//
// Example:
//
//	result, err := apiblocks.BuildSite(ctx, apiblocks.BuildSiteOptions{
//		ConfigPath: "./apiblocks.yaml",
//		Languages:  []string{"curl", "node"},
//		MaxTokens:  2000,
//	})
func BuildSite(ctx context.Context, opts BuildSiteOptions) (*Result, error) {
	return generator.BuildSite(ctx, generator.BuildSiteOptions{
		ConfigPath: opts.ConfigPath,
		Spec:       opts.Spec,
		OutDir:     opts.OutDir,
		Languages:  opts.Languages,
		MaxTokens:  opts.MaxTokens,
	})
}

// ValidateSpec validates an OpenAPI document file.
// This is useful for checking a document before building from it.
//
// Example:
//
//	if err := apiblocks.ValidateSpec(ctx, "./openapi.yaml"); err != nil {
//		log.Fatalf("Invalid OpenAPI document: %v", err)
//	}
func ValidateSpec(ctx context.Context, specPath string) error {
	return generator.ValidateSpec(ctx, specPath)
}

// BuildSiteOptions contains options for BuildSite
type BuildSiteOptions struct {
	// ConfigPath is the path to the configuration file (optional)
	ConfigPath string

	// Overrides applied on top of the configuration when set
	Spec      string   // OpenAPI document path or URL
	OutDir    string   // Output directory
	Languages []string // Code sample languages to render
	MaxTokens int      // Per page token warning threshold
}
