package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/blimu-dev/apiblocks/pkg/config"
	"github.com/blimu-dev/apiblocks/pkg/generator"
)

// LogParams configures the process wide logger.
type LogParams struct {
	// Format is "text" or "json"
	Format string
	Debug  bool
	Out    io.Writer
}

// RunBuildParams carries the build command inputs.
type RunBuildParams struct {
	ConfigPath string
	Overrides  Overrides
}

// SetupLogging configures the standard logrus logger.
func SetupLogging(p LogParams) error {
	var formatter log.Formatter
	switch p.Format {
	case "", "text":
		textFormatter := new(log.TextFormatter)
		textFormatter.TimestampFormat = time.RFC3339
		textFormatter.FullTimestamp = true
		formatter = textFormatter
	case "json":
		formatter = &log.JSONFormatter{TimestampFormat: time.RFC3339}
	default:
		return fmt.Errorf("unsupported log format %q (want text or json)", p.Format)
	}

	out := p.Out
	if out == nil {
		out = os.Stderr
	}
	log.SetOutput(out)
	log.SetFormatter(formatter)
	log.SetLevel(log.InfoLevel)
	if p.Debug {
		log.SetLevel(log.DebugLevel)
	}
	return nil
}

// RunValidate checks a document with the structural OpenAPI validator.
func RunValidate(ctx context.Context, input string) error {
	if err := generator.ValidateSpec(ctx, input); err != nil {
		return err
	}
	log.WithField("input", input).Info("document is valid")
	return nil
}

// RunBuild loads the configuration, applies the flag overrides and builds
// the site.
func RunBuild(ctx context.Context, p RunBuildParams) (*generator.Result, error) {
	cfg, err := config.Load(p.ConfigPath)
	if err != nil {
		return nil, err
	}
	if err := p.Overrides.Apply(cfg); err != nil {
		return nil, err
	}

	logger := log.StandardLogger()
	log.WithFields(log.Fields{
		"spec":      cfg.Spec,
		"out":       cfg.OutDir,
		"languages": cfg.Languages,
	}).Debug("configuration resolved")

	result, err := generator.NewService(logger).Build(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logResult(result)
	return result, nil
}
