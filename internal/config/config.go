// Package config holds runtime configuration for the report generator.
// Values come from COURSEVAL_* environment variables, optionally overlaid by
// a YAML file, with CLI flags applied last by the caller.
package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the full runtime configuration.
type Config struct {
	Input     string   `yaml:"input" envconfig:"INPUT"`
	OutputDir string   `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
	TopN      int      `yaml:"top_n" envconfig:"TOP_N" default:"10"`
	ScaleMin  float64  `yaml:"scale_min" envconfig:"SCALE_MIN" default:"1"`
	ScaleMax  float64  `yaml:"scale_max" envconfig:"SCALE_MAX" default:"5"`
	Excel     bool     `yaml:"excel" envconfig:"EXCEL" default:"false"`
	Charts    bool     `yaml:"charts" envconfig:"CHARTS" default:"true"`
	StopWords []string `yaml:"stop_words" envconfig:"STOP_WORDS"`

	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// LoggingConfig controls the slog setup.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"text"`
}

// defaultStopWords are dropped from keyword extraction: connective words that
// carry no subject information in course titles.
var defaultStopWords = []string{
	"and", "of", "the", "to", "in", "for", "with", "an",
	"introduction", "intro", "basic", "general",
	"및", "의", "와", "과", "개론", "입문",
}

// Load builds the configuration from the environment and, when path is
// non-empty, a YAML overlay file.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process("COURSEVAL", &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if len(cfg.StopWords) == 0 {
		cfg.StopWords = defaultStopWords
	}
	return &cfg, nil
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("input file is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if c.TopN <= 0 {
		return fmt.Errorf("top_n must be positive, got %d", c.TopN)
	}
	if c.ScaleMin >= c.ScaleMax {
		return fmt.Errorf("scale bounds invalid: min %.1f >= max %.1f", c.ScaleMin, c.ScaleMax)
	}
	return nil
}
