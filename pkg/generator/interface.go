package generator

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/blimu-dev/apiblocks/pkg/config"
	"github.com/blimu-dev/apiblocks/pkg/generator/catalog"
	"github.com/blimu-dev/apiblocks/pkg/generator/html"
	"github.com/blimu-dev/apiblocks/pkg/generator/llms"
	"github.com/blimu-dev/apiblocks/pkg/generator/sitemap"
	"github.com/blimu-dev/apiblocks/pkg/ir"
	"github.com/blimu-dev/apiblocks/pkg/openapi"
	"github.com/blimu-dev/apiblocks/pkg/render"
)

// Generator defines the interface for output generators
type Generator interface {
	// Generate writes its artifacts for the given IR through ctx.Writer
	Generate(ctx *render.Context, in *ir.IR) error
	// GetType returns the type identifier for this generator (e.g., "html")
	GetType() string
}

// Registry manages available generators
type Registry struct {
	generators map[string]Generator
}

// NewRegistry creates a new generator registry
func NewRegistry() *Registry {
	return &Registry{
		generators: make(map[string]Generator),
	}
}

// Register adds a generator to the registry
func (r *Registry) Register(gen Generator) {
	r.generators[gen.GetType()] = gen
}

// Get retrieves a generator by type
func (r *Registry) Get(genType string) (Generator, bool) {
	gen, exists := r.generators[genType]
	return gen, exists
}

// GetAvailableTypes returns all registered generator types in ascending order
func (r *Registry) GetAvailableTypes() []string {
	types := make([]string, 0, len(r.generators))
	for t := range r.generators {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Result summarizes a finished build.
type Result struct {
	OutDir      string
	SpecSHA     string
	BuildDate   time.Time
	BlockCount  int
	SchemaCount int
	Written     []string
}

// Service provides the high-level build pipeline
type Service struct {
	registry *Registry
	logger   logrus.FieldLogger
}

// NewService creates a new generator service with default generators
func NewService(logger logrus.FieldLogger) *Service {
	registry := NewRegistry()
	registry.Register(html.NewGenerator())
	registry.Register(catalog.NewGenerator())
	registry.Register(sitemap.NewGenerator())
	registry.Register(llms.NewGenerator())
	return NewServiceWithRegistry(registry, logger)
}

// NewServiceWithRegistry creates a new generator service with a custom registry
func NewServiceWithRegistry(registry *Registry, logger logrus.FieldLogger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		registry: registry,
		logger:   logger,
	}
}

// GetRegistry returns the generator registry
func (s *Service) GetRegistry() *Registry {
	return s.registry
}

// Build loads the configured document and runs every selected generator.
func (s *Service) Build(ctx context.Context, cfg *config.Config) (*Result, error) {
	doc, err := openapi.Load(ctx, cfg.Spec, openapi.LoadOptions{
		CacheDir: cfg.CacheDir,
		Timeout:  cfg.Timeout,
		Retries:  cfg.Retries,
		Logger:   s.logger,
	})
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"source":  doc.Source,
		"version": doc.Version,
		"sha":     doc.Fingerprint,
	}).Info("document loaded")

	return s.BuildDocument(doc, cfg)
}

// BuildDocument runs the pipeline on an already loaded document.
func (s *Service) BuildDocument(doc *openapi.Document, cfg *config.Config) (*Result, error) {
	gens, err := s.selectGenerators(cfg.Generators)
	if err != nil {
		return nil, err
	}

	// Ensure output directory exists before pre-commands
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := s.executeCommand(cfg.GetPreCommand(), cfg.OutDir, "pre-command"); err != nil {
		return nil, fmt.Errorf("pre-generation commands failed: %w", err)
	}

	fullIR := BuildIR(doc.Root, BuildOptions{
		Fingerprint: doc.Fingerprint,
		OutDir:      cfg.OutDir,
		Logger:      s.logger,
	})
	filtered, err := FilterIR(fullIR, cfg.IncludeTags, cfg.ExcludeTags)
	if err != nil {
		return nil, err
	}

	rctx, err := render.NewContext(cfg, s.logger)
	if err != nil {
		return nil, err
	}
	for _, gen := range gens {
		s.logger.WithField("generator", gen.GetType()).Debug("running generator")
		if err := gen.Generate(rctx, filtered); err != nil {
			return nil, fmt.Errorf("%s generator: %w", gen.GetType(), err)
		}
	}

	if err := s.executeCommand(cfg.GetPostCommand(), cfg.OutDir, "post-command"); err != nil {
		return nil, fmt.Errorf("post-generation commands failed: %w", err)
	}

	return &Result{
		OutDir:      cfg.OutDir,
		SpecSHA:     doc.Fingerprint,
		BuildDate:   rctx.BuildDate,
		BlockCount:  len(filtered.Operations),
		SchemaCount: len(filtered.Schemas),
		Written:     rctx.Writer.Written(),
	}, nil
}

// selectGenerators resolves configured types, all registered ones when
// none are named.
func (s *Service) selectGenerators(types []string) ([]Generator, error) {
	if len(types) == 0 {
		types = s.registry.GetAvailableTypes()
	}
	out := make([]Generator, 0, len(types))
	for _, t := range types {
		gen, exists := s.registry.Get(t)
		if !exists {
			return nil, fmt.Errorf("unsupported generator type: %s", t)
		}
		out = append(out, gen)
	}
	return out, nil
}

// executeCommand executes a single command in Docker Compose array format
func (s *Service) executeCommand(command []string, workDir, commandLabel string) error {
	if len(command) == 0 {
		return nil
	}

	cmd := exec.Command(command[0], command[1:]...)
	cmd.Dir = workDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	cmdDescription := strings.Join(command, " ")
	s.logger.WithField("command", cmdDescription).Info(commandLabel)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s (%s) failed: %w", commandLabel, cmdDescription, err)
	}
	return nil
}
