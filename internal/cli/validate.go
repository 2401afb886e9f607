package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"convcompare/internal/config"
)

func newValidateCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the config file",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stdout := cmd.OutOrStdout()
			path, err := resolveSpecPath(global.specPath)
			if err != nil {
				return failf("Validation failed:\n%v", err)
			}
			if path == "" {
				return failf("Validation failed:\nno %s found; run 'convcompare init' to create one", config.ConfigPath("."))
			}
			cfg, err := config.Load(path)
			if err != nil {
				return failf("Validation failed:\n%v", err)
			}
			for _, issue := range config.Warnings(cfg) {
				fmt.Fprintf(stdout, "warning: %s: %s\n", issue.Field, issue.Message)
			}
			fmt.Fprintf(stdout, "Config OK (%d configurations, %d scenarios)\n", len(cfg.Configurations), len(cfg.Scenarios))
			return nil
		},
	}
}
