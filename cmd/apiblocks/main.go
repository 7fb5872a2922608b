package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/blimu-dev/apiblocks/internal/cli"
)

func main() {
	var logParams cli.LogParams

	root := &cobra.Command{
		Use:           "apiblocks",
		Short:         "Build HTML API blocks and indexes from an OpenAPI 3.1 document",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.SetupLogging(logParams)
		},
	}
	root.PersistentFlags().BoolVar(&logParams.Debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&logParams.Format, "log-format", "text", "Log format: text or json")

	root.AddCommand(newBuildCmd())
	root.AddCommand(newValidateCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		log.Error(err)
		stop()
		os.Exit(1)
	}
}

func newBuildCmd() *cobra.Command {
	var configPath string
	var overrides cli.Overrides
	var maxTokens int

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Fetch the document and write blocks, schemas and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("max-tokens") {
				overrides.MaxTokens = &maxTokens
			}
			_, err := cli.RunBuild(cmd.Context(), cli.RunBuildParams{
				ConfigPath: configPath,
				Overrides:  overrides,
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to apiblocks.yaml config")
	cmd.Flags().StringVar(&overrides.Spec, "spec-url", "", "OpenAPI document URL or local path")
	cmd.Flags().StringVar(&overrides.OutDir, "out", "", "Output directory")
	cmd.Flags().StringVar(&overrides.CacheDir, "cache-dir", "", "Directory holding the ETag cache")
	cmd.Flags().StringSliceVar(&overrides.Languages, "lang", nil, "Code sample languages to render (comma separated)")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "Warn about pages above this estimated token count (0 disables)")
	cmd.Flags().StringArrayVar(&overrides.IncludeTags, "include-tags", nil, "Regex patterns for tags to include")
	cmd.Flags().StringArrayVar(&overrides.ExcludeTags, "exclude-tags", nil, "Regex patterns for tags to exclude")

	return cmd
}

func newValidateCmd() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an OpenAPI document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunValidate(cmd.Context(), input)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "OpenAPI document file (yaml/json)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
