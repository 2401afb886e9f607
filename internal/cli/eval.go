package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"convcompare/internal/eval"
	"convcompare/internal/runner"
	"convcompare/internal/spec"
)

func newEvalCommand(global *globalOptions) *cobra.Command {
	var tags []string
	var scenarioID int
	cmd := &cobra.Command{
		Use:   "eval [response...]",
		Short: "Score a response against expected tags (reads stdin when no response is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			logger, err := newLogger(cmd.ErrOrStderr(), global)
			if err != nil {
				return err
			}
			cfg, _, err := loadConfig(global, logger)
			if err != nil {
				return failf("Failed to load config: %v", err)
			}

			selected := runner.ParseSelectors(tags)
			if scenarioID != 0 {
				scenario, ok := findScenario(cfg.Scenarios, scenarioID)
				if !ok {
					return usageErrorf("unknown scenario %d", scenarioID)
				}
				selected = append(selected, scenario.ExpectedElements...)
			}
			if len(selected) == 0 {
				return usageErrorf("give --tags or --scenario")
			}

			response := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(stdin)
				if err != nil {
					return failf("read response: %v", err)
				}
				response = strings.TrimSpace(string(data))
			}

			ev := eval.New(eval.RulesFromConfig(cfg.Evaluation))
			score := ev.Evaluate(response, selected)
			fmt.Fprintf(stdout, "점수: %d/%d %s\n", score.Satisfied, score.Max, eval.Stars(score.Rating))
			for _, tag := range selected {
				mark := "❌"
				if slices.Contains(score.Matched, tag) {
					mark = "✅"
				}
				note := ""
				if !ev.Rules().Known(tag) {
					note = " (규칙 없음)"
				}
				fmt.Fprintf(stdout, "%s %s%s\n", mark, tag, note)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Expected tags, comma separated")
	cmd.Flags().IntVar(&scenarioID, "scenario", 0, "Use the expected tags of a catalog scenario")
	return cmd
}

func findScenario(scenarios []spec.Scenario, id int) (spec.Scenario, bool) {
	for _, scenario := range scenarios {
		if scenario.ID == id {
			return scenario, true
		}
	}
	return spec.Scenario{}, false
}
