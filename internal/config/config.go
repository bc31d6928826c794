// Package config loads pipeline settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	treebank "github.com/jamesainslie/go-treebank"
)

// Tagger kinds.
const (
	TaggerHTTP = "http"
	TaggerONNX = "onnx"
)

// ErrInvalidConfig indicates a configuration that cannot run the pipeline.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config holds every setting the command line tools read.
type Config struct {
	Corpus        string  `yaml:"corpus"`
	OutputDir     string  `yaml:"output_dir"`
	TrainFraction float64 `yaml:"train_fraction"`
	DevFraction   float64 `yaml:"dev_fraction"`
	Tagger        Tagger  `yaml:"tagger"`
	Cache         string  `yaml:"cache"`
	History       string  `yaml:"history"`
	LogLevel      string  `yaml:"log_level"`
}

// Tagger selects and configures the tagging collaborator.
type Tagger struct {
	Kind     string        `yaml:"kind"`
	Endpoint string        `yaml:"endpoint"`
	Model    string        `yaml:"model"`
	Labels   string        `yaml:"labels"`
	PoolSize int           `yaml:"pool_size"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		OutputDir:     "split",
		TrainFraction: treebank.DefaultTrainFraction,
		DevFraction:   treebank.DefaultDevFraction,
		Tagger: Tagger{
			Kind:     TaggerHTTP,
			Endpoint: "http://localhost:8000/predict",
			PoolSize: 1,
			Timeout:  60 * time.Second,
		},
		LogLevel: "info",
	}
}

// Load reads path over the defaults. Keys absent from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	return cfg, nil
}

// Validate checks the split fractions and the tagger settings.
func (c Config) Validate() error {
	if err := treebank.ValidateFractions(c.TrainFraction, c.DevFraction); err != nil {
		return err
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	t := c.Tagger
	switch t.Kind {
	case TaggerHTTP:
		if t.Endpoint == "" {
			return fmt.Errorf("%w: http tagger needs an endpoint", ErrInvalidConfig)
		}
	case TaggerONNX:
		if t.Model == "" || t.Labels == "" {
			return fmt.Errorf("%w: onnx tagger needs model and labels", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown tagger kind %q", ErrInvalidConfig, t.Kind)
	}
	if t.PoolSize < 0 {
		return fmt.Errorf("%w: negative pool size %d", ErrInvalidConfig, t.PoolSize)
	}
	if t.Timeout < 0 {
		return fmt.Errorf("%w: negative timeout %s", ErrInvalidConfig, t.Timeout)
	}
	return nil
}

// ParseLevel maps a log_level value to a slog level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, s)
}

// NewLogger returns a text logger on w at the given log_level.
func NewLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
