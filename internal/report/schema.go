package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"

	"convcompare/internal/results"
)

// Schema reflects the results JSON Schema from the Go result types.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
		DoNotReference:            true,
	}
	schema := r.Reflect(&results.RunResult{})
	schema.Title = "convcompare results"
	schema.Description = "JSON dump written by convcompare run."

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return append(data, '\n'), nil
}

// ValidateResults checks a results document against the reflected schema.
func ValidateResults(data []byte) error {
	schema, err := Schema()
	if err != nil {
		return err
	}
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schema), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, issue := range result.Errors() {
			messages = append(messages, issue.String())
		}
		return fmt.Errorf("results do not match schema: %s", strings.Join(messages, "; "))
	}
	return nil
}

// LoadResults reads a results file, validates it, and decodes it.
func LoadResults(path string) (results.RunResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return results.RunResult{}, fmt.Errorf("read results: %w", err)
	}
	if err := ValidateResults(data); err != nil {
		return results.RunResult{}, fmt.Errorf("%s: %w", path, err)
	}
	return results.Unmarshal(data)
}

// WriteMarkdown stores a rendered report at path.
func WriteMarkdown(path, markdown string) error {
	if err := os.WriteFile(path, []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
