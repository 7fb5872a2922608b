package generator

import (
	"fmt"
	"regexp"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/blimu-dev/apiblocks/pkg/document"
	"github.com/blimu-dev/apiblocks/pkg/ir"
)

// BuildOptions carries the per-build values stamped on every record.
type BuildOptions struct {
	// Fingerprint identifies the document bytes the records came from
	Fingerprint string
	// OutDir is the output root OutputPath values are joined to
	OutDir string
	Logger logrus.FieldLogger
}

func (o BuildOptions) logger() logrus.FieldLogger {
	if o.Logger == nil {
		return logrus.StandardLogger()
	}
	return o.Logger
}

// BuildIR creates an IR from a parsed document. Operations and schemas are
// extracted concurrently; the result is deterministic for identical input.
func BuildIR(root *document.Node, opts BuildOptions) *ir.IR {
	var (
		ops     OperationSet
		schemas []*ir.IRSchema
		g       errgroup.Group
	)
	g.Go(func() error {
		ops = ExtractOperations(root, opts)
		return nil
	})
	g.Go(func() error {
		schemas = ExtractSchemas(root, opts)
		return nil
	})
	_ = g.Wait()

	result := &ir.IR{
		Fingerprint: opts.Fingerprint,
		ByTag:       ops.ByTag,
		Operations:  ops.All,
		Schemas:     schemas,
	}
	reportCollisions(result, opts.logger())
	return result
}

// reportCollisions logs pages that would overwrite each other. Distinct
// paths can sanitize to the same slug, and distinct schema names to the same
// file name.
func reportCollisions(in *ir.IR, log logrus.FieldLogger) {
	owners := map[string]string{}
	claim := func(loc, owner string) {
		if prev, ok := owners[loc]; ok {
			log.WithFields(logrus.Fields{
				"location": loc,
				"first":    prev,
				"second":   owner,
			}).Warn("output location collision")
			return
		}
		owners[loc] = owner
	}
	for _, op := range in.Operations {
		claim(op.Location, op.ID)
	}
	for _, s := range in.Schemas {
		claim(s.Location, s.Name)
	}
}

// FilterIR keeps the operations whose declared tags pass the include and
// exclude patterns. Schemas are kept whole so that every reference still
// resolves to a page.
func FilterIR(in *ir.IR, includeTags, excludeTags []string) (*ir.IR, error) {
	if len(includeTags) == 0 && len(excludeTags) == 0 {
		return in, nil
	}
	include, exclude, err := compileTagFilters(includeTags, excludeTags)
	if err != nil {
		return nil, err
	}

	out := &ir.IR{
		Fingerprint: in.Fingerprint,
		ByTag:       map[string][]*ir.IROperation{},
		Schemas:     in.Schemas,
	}
	for _, op := range in.Operations {
		tags := op.Tags
		if len(tags) == 0 {
			tags = []string{op.Tag}
		}
		if !shouldIncludeOperation(tags, include, exclude) {
			continue
		}
		out.Operations = append(out.Operations, op)
		out.ByTag[op.Tag] = append(out.ByTag[op.Tag], op)
	}
	return out, nil
}

// compileTagFilters compiles regex patterns for tag filtering
func compileTagFilters(include, exclude []string) ([]*regexp.Regexp, []*regexp.Regexp, error) {
	inc := make([]*regexp.Regexp, 0, len(include))
	for _, p := range include {
		r, err := regexp.Compile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid includeTags pattern %q: %w", p, err)
		}
		inc = append(inc, r)
	}
	exc := make([]*regexp.Regexp, 0, len(exclude))
	for _, p := range exclude {
		r, err := regexp.Compile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid excludeTags pattern %q: %w", p, err)
		}
		exc = append(exc, r)
	}
	return inc, exc, nil
}

// shouldIncludeOperation reports whether any tag matches an include pattern
// (or there are none) and no tag matches an exclude pattern.
func shouldIncludeOperation(tags []string, include, exclude []*regexp.Regexp) bool {
	included := len(include) == 0
	for _, tag := range tags {
		if included {
			break
		}
		for _, r := range include {
			if r.MatchString(tag) {
				included = true
				break
			}
		}
	}
	if !included {
		return false
	}

	for _, tag := range tags {
		for _, r := range exclude {
			if r.MatchString(tag) {
				return false
			}
		}
	}
	return true
}
