// Package cli implements the localize command line.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pricofy/localizer/internal/awsconfig"
	"github.com/pricofy/localizer/internal/awstranslate"
	"github.com/pricofy/localizer/internal/config"
	"github.com/pricofy/localizer/internal/logging"
	"github.com/pricofy/localizer/internal/metrics"
	"github.com/pricofy/localizer/internal/orchestrator"
	"github.com/pricofy/localizer/internal/router"
	"github.com/pricofy/localizer/internal/sink"
	"github.com/pricofy/localizer/internal/translator"
)

// ServiceFactory builds the translation backend selected by cfg.
type ServiceFactory func(ctx context.Context, cfg config.Config) (translator.Service, error)

// NewService builds an Amazon Translate or translator Lambda backend.
func NewService(ctx context.Context, cfg config.Config) (translator.Service, error) {
	awsCfg, err := awsconfig.Load(ctx, cfg.AWS.Profile, cfg.AWS.Region)
	if err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case config.BackendAWS:
		return awstranslate.New(awsCfg), nil
	case config.BackendLambda:
		return router.New(awsCfg, cfg.Lambda.FunctionPrefix), nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

type flags struct {
	configPath     string
	profile        string
	region         string
	inputFile      string
	sourceLanguage string
	outputDir      string
	backend        string
	targets        []string
	maxConcurrency int
	maxRetries     int
	baseDelay      string
	logLevel       string
	metricsFile    string
}

// NewRootCommand returns the localize command.
func NewRootCommand(version string, newService ServiceFactory) *cobra.Command {
	f := &flags{}
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "localize",
		Short: "Translate a JSON document into every supported language",
		Long: `localize reads one JSON document and writes a translated copy of it for
every language the translation service supports, except the source language.

String values are translated; keys, numbers, booleans and nulls are kept.
Languages are translated concurrently and each document is retried with
exponential backoff. The command fails if any language fails, but documents
already written for other languages are kept.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return Run(cmd.Context(), cfg, newService, logger)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "YAML config file")
	fl.StringVar(&f.profile, "aws-profile", defaults.AWS.Profile, "AWS profile to use")
	fl.StringVar(&f.region, "aws-region", defaults.AWS.Region, "AWS region to use")
	fl.StringVar(&f.inputFile, "input-file", defaults.InputFile, "input file to translate")
	fl.StringVar(&f.sourceLanguage, "source-language-code", defaults.SourceLanguage, "source language code")
	fl.StringVar(&f.outputDir, "output-dir", defaults.OutputDir, "directory for translated documents")
	fl.StringVar(&f.backend, "backend", defaults.Backend, "translation backend: aws or lambda")
	fl.StringSliceVarP(&f.targets, "target", "t", nil, "only translate into these languages (repeatable)")
	fl.IntVar(&f.maxConcurrency, "max-concurrency", defaults.MaxConcurrency, "maximum languages translated at once (0 = all)")
	fl.IntVar(&f.maxRetries, "max-retries", defaults.Retry.MaxRetries, "retries per document after the first attempt")
	fl.StringVar(&f.baseDelay, "base-delay", defaults.Retry.BaseDelay.String(), "delay before the first retry, doubled after each failure")
	fl.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error (default $"+logging.EnvLevel+" or info)")
	fl.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics to this file when done")

	return cmd
}

// resolve loads the config file, if any, and applies explicitly set flags.
func (f *flags) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	set := cmd.Flags().Changed
	if set("aws-profile") {
		cfg.AWS.Profile = f.profile
	}
	if set("aws-region") {
		cfg.AWS.Region = f.region
	}
	if set("input-file") {
		cfg.InputFile = f.inputFile
	}
	if set("source-language-code") {
		cfg.SourceLanguage = f.sourceLanguage
	}
	if set("output-dir") {
		cfg.OutputDir = f.outputDir
	}
	if set("backend") {
		cfg.Backend = f.backend
	}
	if set("target") {
		cfg.Targets = f.targets
	}
	if set("max-concurrency") {
		cfg.MaxConcurrency = f.maxConcurrency
	}
	if set("max-retries") {
		cfg.Retry.MaxRetries = f.maxRetries
	}
	if set("base-delay") {
		d, err := parseDuration(f.baseDelay)
		if err != nil {
			return cfg, fmt.Errorf("invalid --base-delay: %w", err)
		}
		cfg.Retry.BaseDelay = d
	}
	if set("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if set("metrics-file") {
		cfg.MetricsFile = f.metricsFile
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Run translates cfg.InputFile into every target language and writes the
// results under cfg.OutputDir.
func Run(ctx context.Context, cfg config.Config, newService ServiceFactory, logger *zap.SugaredLogger) error {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	input, err := os.ReadFile(cfg.InputFile)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	svc, err := newService(ctx, cfg)
	if err != nil {
		return err
	}

	var m *metrics.Collector
	if cfg.MetricsFile != "" {
		m = metrics.NewCollector()
	}

	retrier := translator.NewRetrier(svc, logger, m)
	retrier.MaxRetries = cfg.Retry.MaxRetries
	retrier.BaseDelay = cfg.Retry.BaseDelay

	o := &orchestrator.Orchestrator{
		Service:       svc,
		Translator:    retrier,
		Sink:          sink.NewFileSink(cfg.OutputDir),
		Logger:        logger,
		Metrics:       m,
		MaxConcurrent: cfg.MaxConcurrency,
	}

	_, runErr := o.Run(ctx, orchestrator.RunConfig{
		SourceLanguage: cfg.SourceLanguage,
		Input:          input,
		Targets:        cfg.Targets,
	})

	if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
		logger.Warnw("writing metrics file", "path", cfg.MetricsFile, "error", err)
	}
	return runErr
}
