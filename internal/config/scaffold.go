package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Scaffold writes the default config and, when provided, the results schema beside it.
func Scaffold(configPath string, schema []byte) error {
	if configPath == "" {
		return fmt.Errorf("config path is required")
	}
	if err := ensureAbsent(configPath, "config"); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var schemaPath string
	if len(schema) > 0 {
		schemaPath = SchemaPath(configPath)
		if err := ensureAbsent(schemaPath, "schema"); err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(schemaPath), 0o755); err != nil {
			return fmt.Errorf("create schemas dir: %w", err)
		}
	}

	if err := os.WriteFile(configPath, defaultConfig, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	if schemaPath != "" {
		if err := os.WriteFile(schemaPath, schema, 0o644); err != nil {
			return fmt.Errorf("write schema file: %w", err)
		}
	}
	return nil
}

func ensureAbsent(path, label string) error {
	info, err := os.Stat(path)
	if err == nil {
		if info.IsDir() {
			return fmt.Errorf("%s path %q is a directory", label, path)
		}
		return fmt.Errorf("%s file already exists at %q", label, path)
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s file: %w", label, err)
	}
	return nil
}
