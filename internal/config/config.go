// Package config loads the optional YAML file read by the raycast CLI.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Output formats
const (
	FormatP3  = "p3"
	FormatP6  = "p6"
	FormatPNG = "png"
)

// ErrInvalidConfig is returned when a config file parses but holds bad values
var ErrInvalidConfig = errors.New("invalid config")

// Config mirrors the CLI flags. A zero value means "not set"; pointer
// fields distinguish an explicit false or zero from an absent key.
type Config struct {
	Workers     *int       `yaml:"workers"`
	Format      string     `yaml:"format"`
	Background  *[]float64 `yaml:"background"`
	MaxObjects  *int       `yaml:"max_objects"`
	Debug       bool       `yaml:"debug"`
	DebugFile   string     `yaml:"debug_file"`
	DebugPretty bool       `yaml:"debug_pretty"`
	Quiet       bool       `yaml:"quiet"`
}

// Load reads and validates the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses a YAML document and validates it. Unknown keys are
// rejected so typos do not pass silently. An empty document is a valid,
// empty config.
func Decode(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch c.Format {
	case "", FormatP3, FormatP6, FormatPNG:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, c.Format)
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidConfig, *c.Workers)
	}
	if c.Background != nil {
		if _, err := BackgroundColor(*c.Background); err != nil {
			return err
		}
	}
	return nil
}

// BackgroundColor checks that v is an RGB triple in [0,1].
func BackgroundColor(v []float64) ([3]float64, error) {
	var c [3]float64
	if len(v) != 3 {
		return c, fmt.Errorf("%w: background needs 3 components, got %d", ErrInvalidConfig, len(v))
	}
	for i, x := range v {
		if !(x >= 0 && x <= 1) {
			return [3]float64{}, fmt.Errorf("%w: background component %v outside [0,1]", ErrInvalidConfig, x)
		}
		c[i] = x
	}
	return c, nil
}
