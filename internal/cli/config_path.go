package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"convcompare/internal/config"
	"convcompare/internal/runner"
	"convcompare/internal/spec"
)

// resolveSpecPath normalizes a config path or finds it from CWD. An empty
// result with a nil error means no config file exists.
func resolveSpecPath(specPath string) (string, error) {
	if strings.TrimSpace(specPath) == "" {
		path, err := config.FindConfigPath("")
		if errors.Is(err, config.ErrConfigNotFound) {
			return "", nil
		}
		return path, err
	}
	abs, err := filepath.Abs(specPath)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return abs, nil
}

// loadConfig loads the selected config, falling back to the built-in
// catalog, and logs configuration warnings. It returns where the config
// came from.
func loadConfig(opts *globalOptions, logger zerolog.Logger) (spec.Config, string, error) {
	path, err := resolveSpecPath(opts.specPath)
	if err != nil {
		return spec.Config{}, "", err
	}
	var cfg spec.Config
	source := path
	if path == "" {
		source = config.DefaultSource
		cfg, err = config.Default()
	} else {
		cfg, err = config.Load(path)
	}
	if err != nil {
		return spec.Config{}, source, err
	}
	for _, issue := range config.Warnings(cfg) {
		logger.Warn().Str("field", issue.Field).Msg(issue.Message)
	}
	logger.Debug().Str("source", source).Int("scenarios", len(cfg.Scenarios)).Int("configurations", len(cfg.Configurations)).Msg("config loaded")
	return cfg, source, nil
}

// newLogger builds the diagnostic logger on stderr.
func newLogger(stderr io.Writer, opts *globalOptions) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.logLevel)))
	if err != nil {
		return zerolog.Nop(), usageErrorf("invalid --log-level %q", opts.logLevel)
	}
	writer := zerolog.ConsoleWriter{
		Out:        stderr,
		NoColor:    opts.noColor || !runner.ShouldUseStyling(stderr),
		TimeFormat: "15:04:05",
	}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger(), nil
}
