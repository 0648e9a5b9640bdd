package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/graftql/graft/pkg/config"
	"github.com/graftql/graft/pkg/telemetry"
)

// DefaultConfigName is the config file looked up in the root directory
// when --config is not given.
const DefaultConfigName = "graft.config.json"

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	rootDir       string
	configPath    string
	verbose       bool
	jsonOutput    bool
	traceExporter string
	otlpEndpoint  string
	logFile       string

	runID string
	tel   *telemetry.Telemetry
}

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd, opts := newRootCommand(version, commit, buildDate)
	return run(ctx, rootCmd, opts)
}

// run executes rootCmd and shuts telemetry down whether or not the command
// failed.
func run(ctx context.Context, rootCmd *cobra.Command, opts *globalOptions) error {
	prev := log.Logger
	defer func() { log.Logger = prev }()

	err := rootCmd.ExecuteContext(ctx)
	if opts.tel != nil {
		if serr := opts.tel.Shutdown(context.WithoutCancel(ctx)); serr != nil && err == nil {
			err = fmt.Errorf("failed to shut down telemetry: %w", serr)
		}
		opts.tel = nil
	}
	return err
}

func newRootCommand(version, commit, buildDate string) (*cobra.Command, *globalOptions) {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "graft",
		Short: "graft - GraphQL compiler configuration tool",
		Long: `graft loads and validates the configuration of a multi-project GraphQL
compiler.

A configuration declares:
  - source directories and the source set each belongs to
  - blacklist glob patterns excluded from every source set
  - projects, their schema, extensions, base source sets and output`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd, version)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.rootDir, "root", "r", ".", "root directory of the compiled projects")
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file path (default <root>/"+DefaultConfigName+")")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().StringVar(&opts.traceExporter, "trace-exporter", "none", "trace exporter (none, stdout, otlp)")
	rootCmd.PersistentFlags().StringVar(&opts.otlpEndpoint, "otlp-endpoint", "", "OTLP collector endpoint (host:port)")
	rootCmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "append JSON logs to this file instead of stderr")

	rootCmd.AddCommand(newValidateCommand(opts))
	rootCmd.AddCommand(newSourcesCommand(opts))
	rootCmd.AddCommand(newSchemaCommand())

	return rootCmd, opts
}

// setup resolves defaults and builds the telemetry for this run.
func (o *globalOptions) setup(cmd *cobra.Command, version string) error {
	if o.verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if o.configPath == "" {
		o.configPath = filepath.Join(o.rootDir, DefaultConfigName)
	}

	cfg := telemetry.DefaultConfig()
	cfg.ServiceVersion = version
	cfg.Logging.Level = zerolog.GlobalLevel().String()
	if cfg.Logging.Validate() != nil {
		cfg.Logging.Level = "info"
	}
	cfg.Tracing.Enabled = o.traceExporter != "none"
	cfg.Tracing.Exporter = o.traceExporter
	cfg.Tracing.Endpoint = o.otlpEndpoint

	var (
		tel *telemetry.Telemetry
		err error
	)
	if o.logFile != "" {
		cfg.Logging.Output = o.logFile
		cfg.Logging.Format = "json"
		tel, err = telemetry.NewTelemetry(cfg)
	} else {
		tel, err = telemetry.NewWriterTelemetry(cmd.ErrOrStderr(), cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to set up telemetry: %w", err)
	}
	o.tel = tel

	o.runID = uuid.NewString()
	tel.Logger = tel.Logger.WithRunID(o.runID)
	log.Logger = tel.Logger.Zerolog()
	cmd.SetContext(tel.WithContext(cmd.Context()))
	return nil
}

// loadConfig loads the configuration inside a traced span.
func (o *globalOptions) loadConfig(ctx context.Context) (context.Context, *config.Config, error) {
	ctx, span := o.tel.Tracer.StartLoadSpan(ctx, o.runID, o.rootDir, o.configPath)
	defer span.End()

	telemetry.FromContext(ctx).
		WithConfigPath(o.configPath).
		WithField("root", o.rootDir).
		Debug("Loading configuration")

	cfg, err := config.LoadFile(o.rootDir, o.configPath)
	if err != nil {
		var cerr *config.Error
		if errors.As(err, &cerr) {
			span.SetAttributes(
				telemetry.AttrErrorKind.String(string(cerr.Kind)),
				telemetry.AttrViolations.Int(len(cerr.ValidationErrors)),
			)
		}
		telemetry.RecordError(span, err)
		return ctx, nil, err
	}

	span.SetAttributes(telemetry.AttrProjects.Int(len(cfg.Projects)))
	telemetry.RecordSuccess(span)
	return ctx, cfg, nil
}
