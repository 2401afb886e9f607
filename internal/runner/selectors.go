package runner

import (
	"fmt"
	"strings"

	"convcompare/internal/spec"
)

// ParseSelectors splits selector arguments on commas and drops blanks, so
// "baseline,improved_prompt" and two separate arguments mean the same.
func ParseSelectors(inputs []string) []string {
	selectors := make([]string, 0, len(inputs))
	for _, input := range inputs {
		for _, part := range strings.Split(input, ",") {
			if name := strings.TrimSpace(part); name != "" {
				selectors = append(selectors, name)
			}
		}
	}
	return selectors
}

// SelectConfigurations returns the configurations named by selectors in
// selector order. No selectors selects every configuration in catalog order.
func SelectConfigurations(cfg spec.Config, selectors []string) ([]spec.Configuration, error) {
	if len(selectors) == 0 {
		if len(cfg.Configurations) == 0 {
			return nil, fmt.Errorf("no configurations defined")
		}
		return append([]spec.Configuration(nil), cfg.Configurations...), nil
	}
	byName := make(map[string]spec.Configuration, len(cfg.Configurations))
	for _, configuration := range cfg.Configurations {
		byName[configuration.Name] = configuration
	}
	seen := make(map[string]struct{}, len(selectors))
	selected := make([]spec.Configuration, 0, len(selectors))
	for _, name := range selectors {
		configuration, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown configuration %q", name)
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		selected = append(selected, configuration)
	}
	return selected, nil
}
