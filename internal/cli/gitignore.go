package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// addGitignoreEntry appends the output folder to root/.gitignore unless an
// identical line is already present. It reports whether the file changed.
func addGitignoreEntry(root, outputDir string) (bool, error) {
	entry, err := gitignoreEntry(root, outputDir)
	if err != nil {
		return false, err
	}

	path := filepath.Join(root, ".gitignore")
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("read .gitignore: %w", err)
	}
	lines := strings.Split(string(existing), "\n")
	if slices.ContainsFunc(lines, func(line string) bool { return strings.TrimSpace(line) == entry }) {
		return false, nil
	}

	content := string(existing)
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += entry + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, fmt.Errorf("write .gitignore: %w", err)
	}
	return true, nil
}

// gitignoreEntry turns outputDir into a slash-separated path relative to root.
func gitignoreEntry(root, outputDir string) (string, error) {
	if strings.TrimSpace(outputDir) == "" {
		return "", fmt.Errorf("output dir is required")
	}
	clean := filepath.Clean(outputDir)
	if filepath.IsAbs(clean) {
		rel, err := filepath.Rel(root, clean)
		if err != nil {
			return "", fmt.Errorf("resolve output dir: %w", err)
		}
		clean = rel
	}
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("output dir %q is outside the project root", outputDir)
	}
	return filepath.ToSlash(clean), nil
}
