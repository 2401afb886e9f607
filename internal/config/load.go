package config

import (
	_ "embed"
	"fmt"
	"os"

	"convcompare/internal/spec"
)

//go:embed default.yml
var defaultConfig []byte

// DefaultSource labels configs loaded from the embedded catalog.
const DefaultSource = "<embedded default>"

// Load reads, parses, normalizes, and validates a config file.
func Load(path string) (spec.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return spec.Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse runs the parse, normalize, validate pipeline on raw YAML.
func Parse(data []byte) (spec.Config, error) {
	cfg, err := spec.ParseConfig(data)
	if err != nil {
		return spec.Config{}, err
	}
	Normalize(&cfg)
	if err := Validate(&cfg); err != nil {
		return spec.Config{}, err
	}
	return cfg, nil
}

// Default returns the embedded catalog with its configurations and keyword tables.
func Default() (spec.Config, error) {
	cfg, err := Parse(defaultConfig)
	if err != nil {
		return spec.Config{}, fmt.Errorf("embedded default config: %w", err)
	}
	return cfg, nil
}

// DefaultYAML returns a copy of the embedded default config file.
func DefaultYAML() []byte {
	out := make([]byte, len(defaultConfig))
	copy(out, defaultConfig)
	return out
}
