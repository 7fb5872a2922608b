package cli

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/blimu-dev/apiblocks/pkg/config"
	"github.com/blimu-dev/apiblocks/pkg/generator"
)

// Overrides holds command line values that take precedence over the
// configuration file and the environment. Zero values leave the
// configuration untouched.
type Overrides struct {
	Spec        string
	OutDir      string
	CacheDir    string
	Languages   []string
	MaxTokens   *int
	IncludeTags []string
	ExcludeTags []string
}

// Apply writes the set overrides into cfg and normalizes it again.
func (o Overrides) Apply(cfg *config.Config) error {
	if o.Spec != "" {
		cfg.Spec = o.Spec
	}
	if o.OutDir != "" {
		cfg.OutDir = o.OutDir
	}
	if o.CacheDir != "" {
		cfg.CacheDir = o.CacheDir
	}
	if langs := splitList(o.Languages); len(langs) > 0 {
		cfg.Languages = langs
	}
	if o.MaxTokens != nil {
		cfg.MaxTokens = *o.MaxTokens
	}
	if len(o.IncludeTags) > 0 {
		cfg.IncludeTags = o.IncludeTags
	}
	if len(o.ExcludeTags) > 0 {
		cfg.ExcludeTags = o.ExcludeTags
	}
	return cfg.Normalize()
}

// splitList flattens "a,b" style values and drops blanks.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func logResult(r *generator.Result) {
	log.WithFields(log.Fields{
		"out":     r.OutDir,
		"sha":     r.SpecSHA,
		"blocks":  r.BlockCount,
		"schemas": r.SchemaCount,
		"files":   len(r.Written),
	}).Info("build finished")
}
