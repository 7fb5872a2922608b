package generator

import (
	"context"

	"github.com/blimu-dev/apiblocks/pkg/config"
	"github.com/blimu-dev/apiblocks/pkg/openapi"
)

// BuildSiteOptions contains options for the convenience BuildSite function
type BuildSiteOptions struct {
	// ConfigPath is the path to the configuration file (optional)
	ConfigPath string

	// Overrides applied on top of the loaded configuration when set
	Spec      string   // OpenAPI document path or URL
	OutDir    string   // Output directory
	Languages []string // Code sample languages to render
	MaxTokens int      // Per page token warning threshold
}

// BuildSite is a convenience function for building with minimal configuration
func BuildSite(ctx context.Context, opts BuildSiteOptions) (*Result, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.Spec != "" {
		cfg.Spec = opts.Spec
	}
	if opts.OutDir != "" {
		cfg.OutDir = opts.OutDir
	}
	if len(opts.Languages) > 0 {
		cfg.Languages = opts.Languages
	}
	if opts.MaxTokens > 0 {
		cfg.MaxTokens = opts.MaxTokens
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return NewService(nil).Build(ctx, cfg)
}

// ValidateSpec validates an OpenAPI specification
func ValidateSpec(ctx context.Context, specPath string) error {
	return openapi.ValidateDocument(ctx, specPath)
}
