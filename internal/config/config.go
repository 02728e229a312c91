// Package config holds the settings of a localization run.
//
// Settings come from Default, optionally overlaid by a YAML file with Load,
// and finally by command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Backends understood by the localizer.
const (
	BackendAWS    = "aws"
	BackendLambda = "lambda"
)

// Config is the full configuration of a run.
type Config struct {
	AWS            AWS      `yaml:"aws"`
	Lambda         Lambda   `yaml:"lambda"`
	Retry          Retry    `yaml:"retry"`
	InputFile      string   `yaml:"input_file"`
	SourceLanguage string   `yaml:"source_language"`
	OutputDir      string   `yaml:"output_dir"`
	Backend        string   `yaml:"backend"`
	Targets        []string `yaml:"targets"`
	MaxConcurrency int      `yaml:"max_concurrency"`
	// LogLevel is debug, info, warn or error. Empty defers to the
	// environment.
	LogLevel       string   `yaml:"log_level"`
	MetricsFile    string   `yaml:"metrics_file"`
}

// AWS selects the credentials profile and region.
type AWS struct {
	Profile string `yaml:"profile"`
	Region  string `yaml:"region"`
}

// Lambda configures the translator Lambda backend.
type Lambda struct {
	FunctionPrefix string `yaml:"function_prefix"`
}

// Retry configures document-level retries.
type Retry struct {
	MaxRetries int           `yaml:"max_retries"`
	BaseDelay  time.Duration `yaml:"base_delay"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		AWS: AWS{
			Profile: "default",
			Region:  "us-east-1",
		},
		Lambda: Lambda{
			FunctionPrefix: "pricofy-translator",
		},
		Retry: Retry{
			MaxRetries: 5,
			BaseDelay:  time.Second,
		},
		InputFile:      "assets/original/en.json",
		SourceLanguage: "en",
		OutputDir:      "assets/translated",
		Backend:        BackendAWS,
	}
}

// Load reads a YAML file over Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that cfg can drive a run.
func (c Config) Validate() error {
	var errs []error
	if c.InputFile == "" {
		errs = append(errs, errors.New("input_file is required"))
	}
	if c.SourceLanguage == "" {
		errs = append(errs, errors.New("source_language is required"))
	}
	if c.OutputDir == "" {
		errs = append(errs, errors.New("output_dir is required"))
	}
	switch c.Backend {
	case BackendAWS:
		if c.AWS.Region == "" {
			errs = append(errs, errors.New("aws.region is required"))
		}
	case BackendLambda:
		if c.Lambda.FunctionPrefix == "" {
			errs = append(errs, errors.New("lambda.function_prefix is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}
	if c.MaxConcurrency < 0 {
		errs = append(errs, errors.New("max_concurrency must not be negative"))
	}
	if c.Retry.MaxRetries < 0 {
		errs = append(errs, errors.New("retry.max_retries must not be negative"))
	}
	if c.Retry.BaseDelay <= 0 {
		errs = append(errs, errors.New("retry.base_delay must be positive"))
	}
	return errors.Join(errs...)
}
