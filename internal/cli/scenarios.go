package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"convcompare/internal/runner"
	"convcompare/internal/spec"
)

func newScenariosCommand(global *globalOptions) *cobra.Command {
	var showConfigs bool
	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "List the scenario catalog and configurations",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stdout := cmd.OutOrStdout()
			logger, err := newLogger(cmd.ErrOrStderr(), global)
			if err != nil {
				return err
			}
			cfg, source, err := loadConfig(global, logger)
			if err != nil {
				return failf("Failed to load config: %v", err)
			}
			styled := !global.noColor && runner.ShouldUseStyling(stdout)

			fmt.Fprintf(stdout, "Config: %s\n", source)
			fmt.Fprintln(stdout, scenarioTable(cfg.Scenarios, styled))
			if showConfigs {
				fmt.Fprintln(stdout, configurationTable(cfg.Configurations, styled))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showConfigs, "configs", false, "Also list configurations")
	return cmd
}

func scenarioTable(scenarios []spec.Scenario, styled bool) string {
	t := newTable(styled).Headers("ID", "이름", "분류", "컨텍스트", "메시지", "평가 기준")
	for _, scenario := range scenarios {
		t.Row(
			strconv.Itoa(scenario.ID),
			scenario.Name,
			scenario.Category,
			strconv.Itoa(len(scenario.Context)),
			scenario.UserMessage,
			strings.Join(scenario.ExpectedElements, ", "),
		)
	}
	return t.String()
}

func configurationTable(configurations []spec.Configuration, styled bool) string {
	t := newTable(styled).Headers("설정", "설명", "파일", "변경 사항")
	for _, configuration := range configurations {
		t.Row(
			configuration.Name,
			configuration.Description,
			configuration.File,
			strconv.Itoa(len(configuration.Changes)),
		)
	}
	return t.String()
}

func newTable(styled bool) *table.Table {
	t := table.New().Border(lipgloss.NormalBorder())
	if !styled {
		return t
	}
	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	return t.StyleFunc(func(row, _ int) lipgloss.Style {
		if row == table.HeaderRow {
			return header
		}
		return cell
	})
}
