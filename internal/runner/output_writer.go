package runner

import (
	"context"
	"fmt"
	"os"
	"strings"

	"convcompare/internal/eval"
	"convcompare/internal/report"
	"convcompare/internal/results"
	"convcompare/internal/spec"
)

// WriteRunOutputs writes the JSON dump and the Markdown report for run.
func WriteRunOutputs(run results.RunResult, ev *eval.Evaluator, opts report.Options, outputDir string) (OutputPaths, error) {
	if outputDir == "" {
		return OutputPaths{}, fmt.Errorf("output directory is required")
	}
	paths, err := NewOutputPaths(outputDir, run.TestDate)
	if err != nil {
		return OutputPaths{}, err
	}
	if err := os.MkdirAll(paths.Root, 0o755); err != nil {
		return OutputPaths{}, fmt.Errorf("create output dir: %w", err)
	}
	if err := results.Write(paths.ResultsPath(), run); err != nil {
		return OutputPaths{}, err
	}
	if err := report.WriteMarkdown(paths.ReportPath(), report.RenderMarkdown(run, ev, opts)); err != nil {
		return OutputPaths{}, err
	}
	return paths, nil
}

// RunAndWrite runs the comparison and persists whatever it captured,
// including partial results of an aborted run.
func RunAndWrite(ctx context.Context, cfg spec.Config, params RunParams) (results.RunResult, OutputPaths, error) {
	run, err := Run(ctx, cfg, params)
	if err != nil {
		return results.RunResult{}, OutputPaths{}, err
	}
	outputDir := cfg.Output.Dir
	if dir := strings.TrimSpace(params.OutputDir); dir != "" {
		outputDir = dir
	}
	ev := eval.New(eval.RulesFromConfig(cfg.Evaluation))
	paths, err := WriteRunOutputs(run, ev, report.Options{Rule: cfg.Report.Recommendation}, outputDir)
	if err != nil {
		return run, OutputPaths{}, err
	}
	return run, paths, nil
}
