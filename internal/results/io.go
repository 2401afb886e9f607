package results

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Marshal encodes a run as UTF-8 JSON with two-space indentation and a
// trailing newline. HTML characters are written as-is.
func Marshal(run RunResult) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(run); err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return buf.Bytes(), nil
}

// Write stores a run at path.
func Write(path string, run RunResult) error {
	payload, err := Marshal(run)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Load reads a run from path.
func Load(path string) (RunResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunResult{}, fmt.Errorf("read results: %w", err)
	}
	return Unmarshal(data)
}

// Unmarshal decodes a run.
func Unmarshal(data []byte) (RunResult, error) {
	var run RunResult
	if err := json.Unmarshal(data, &run); err != nil {
		return RunResult{}, fmt.Errorf("parse results: %w", err)
	}
	return run, nil
}
