package runner

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const stampLayout = "20060102_150405"

// OutputPaths describes filesystem locations for run outputs.
type OutputPaths struct {
	Root  string
	Stamp string
}

// NewOutputPaths validates the output root and stamps names with startedAt
// in its own location.
func NewOutputPaths(root string, startedAt time.Time) (OutputPaths, error) {
	if strings.TrimSpace(root) == "" {
		return OutputPaths{}, fmt.Errorf("output root is empty")
	}
	if startedAt.IsZero() {
		return OutputPaths{}, fmt.Errorf("run start time is missing")
	}
	return OutputPaths{Root: root, Stamp: startedAt.Format(stampLayout)}, nil
}

// ResultsPath returns the path of the JSON dump.
func (o OutputPaths) ResultsPath() string {
	return filepath.Join(o.Root, "responses_"+o.Stamp+".json")
}

// ReportPath returns the path of the Markdown report.
func (o OutputPaths) ReportPath() string {
	return filepath.Join(o.Root, "comparison_report_"+o.Stamp+".md")
}
