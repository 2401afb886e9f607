package report

import "convcompare/internal/results"

// reportCatalog returns scenarios in catalog order. Runs that carry a catalog
// use it, filling missing details from the first capture of each scenario.
// Older runs fall back to first-seen order across configurations.
func reportCatalog(run results.RunResult) []results.CatalogEntry {
	firstCapture := map[int]results.ScenarioResult{}
	var seenOrder []int
	for _, cfg := range run.Configurations {
		for _, scenario := range cfg.Scenarios {
			if _, seen := firstCapture[scenario.ScenarioID]; seen {
				continue
			}
			firstCapture[scenario.ScenarioID] = scenario
			seenOrder = append(seenOrder, scenario.ScenarioID)
		}
	}

	entries := run.Catalog
	if len(entries) == 0 {
		entries = make([]results.CatalogEntry, 0, len(seenOrder))
		for _, id := range seenOrder {
			entries = append(entries, results.CatalogEntry{ID: id})
		}
	}

	rows := make([]results.CatalogEntry, 0, len(entries))
	for _, entry := range entries {
		if captured, ok := firstCapture[entry.ID]; ok {
			if entry.Name == "" {
				entry.Name = captured.ScenarioName
			}
			if entry.Category == "" {
				entry.Category = captured.Category
			}
			if entry.UserMessage == "" {
				entry.UserMessage = captured.UserMessage
			}
			if len(entry.ExpectedElements) == 0 {
				entry.ExpectedElements = captured.ExpectedElements
			}
			if !entry.HasContext {
				entry.HasContext = captured.HasContext
			}
		}
		rows = append(rows, entry)
	}
	return rows
}
