package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"convcompare/internal/eval"
	"convcompare/internal/report"
	"convcompare/internal/spec"
)

func newReportCommand(global *globalOptions) *cobra.Command {
	var output, rule string
	cmd := &cobra.Command{
		Use:   "report <responses.json>",
		Short: "Re-render the Markdown report from a saved JSON dump",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), global)
			if err != nil {
				return err
			}
			cfg, _, err := loadConfig(global, logger)
			if err != nil {
				return failf("Failed to load config: %v", err)
			}
			opts := report.Options{Rule: cfg.Report.Recommendation}
			if rule != "" {
				switch rule {
				case spec.RecommendRecompute, spec.RecommendRecorded:
					opts.Rule = rule
				default:
					return usageErrorf("invalid --rule %q (expected %s|%s)", rule, spec.RecommendRecompute, spec.RecommendRecorded)
				}
			}

			run, err := report.LoadResults(args[0])
			if err != nil {
				return failf("Failed to load results: %v", err)
			}
			target := output
			if target == "" {
				target = reportPathFor(args[0])
			}
			markdown := report.RenderMarkdown(run, eval.New(eval.RulesFromConfig(cfg.Evaluation)), opts)
			if err := report.WriteMarkdown(target, markdown); err != nil {
				return failf("%v", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "📊 보고서 저장: %s\n", target)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Report path (default: comparison_report_<stamp>.md beside the dump)")
	cmd.Flags().StringVar(&rule, "rule", "", "Score source for the recommendation (recompute|recorded)")
	return cmd
}

// reportPathFor maps responses_<stamp>.json to comparison_report_<stamp>.md
// in the same directory; other names get a .md suffix.
func reportPathFor(resultsPath string) string {
	dir, name := filepath.Split(resultsPath)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if stamp, ok := strings.CutPrefix(stem, "responses_"); ok {
		return filepath.Join(dir, "comparison_report_"+stamp+".md")
	}
	return filepath.Join(dir, stem+".md")
}
