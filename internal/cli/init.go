package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"convcompare/internal/config"
	"convcompare/internal/report"
)

func newInitCommand(global *globalOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold .convcompare/config.yml and the results schema",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeInit(cmd, global, yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Accept the defaults without prompting")
	return cmd
}

func executeInit(cmd *cobra.Command, global *globalOptions, yes bool) error {
	stdout := cmd.OutOrStdout()
	targetPath := strings.TrimSpace(global.specPath)
	if targetPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return failf("Init failed: %v", err)
		}
		targetPath = config.ConfigPath(wd)
	}
	targetPath, err := filepath.Abs(targetPath)
	if err != nil {
		return failf("Init failed: %v", err)
	}
	if info, err := os.Stat(targetPath); err == nil {
		if info.IsDir() {
			return failf("Init failed: config path %q is a directory", targetPath)
		}
		return failf("Init failed: config file already exists at %q", targetPath)
	}

	reader := bufio.NewReader(stdin)
	if !yes {
		confirm, err := promptYesNo(reader, stdout, fmt.Sprintf("Initialize convcompare config in %s?", filepath.Dir(targetPath)), true)
		if err != nil {
			return failf("Init failed: %v", err)
		}
		if !confirm {
			return failf("Init cancelled.")
		}
	}

	schema, err := report.Schema()
	if err != nil {
		return failf("Init failed: %v", err)
	}
	if err := config.Scaffold(targetPath, schema); err != nil {
		return failf("Init failed: %v", err)
	}
	fmt.Fprintf(stdout, "Wrote %s\n", targetPath)
	fmt.Fprintf(stdout, "Wrote %s\n", config.SchemaPath(targetPath))

	root := config.ProjectRootFromConfigPath(targetPath)
	if !isGitCheckout(root) {
		return nil
	}
	addEntry := true
	if !yes {
		addEntry, err = promptYesNo(reader, stdout, "Add output folder to .gitignore?", true)
		if err != nil {
			return failf("Init failed: %v", err)
		}
	}
	if !addEntry {
		return nil
	}
	updated, err := addGitignoreEntry(root, config.DefaultOutputDir)
	if err != nil {
		return failf("Init failed: update .gitignore: %v", err)
	}
	if updated {
		fmt.Fprintf(stdout, "Updated %s\n", filepath.Join(root, ".gitignore"))
	}
	return nil
}

// isGitCheckout reports whether root holds a .git directory or file.
func isGitCheckout(root string) bool {
	_, err := os.Stat(filepath.Join(root, ".git"))
	return err == nil
}
