package live

import (
	"time"

	"convcompare/internal/runner"
)

// ScenarioRow holds UI state for a single scenario of the current configuration.
type ScenarioRow struct {
	Index      int
	ID         int
	Name       string
	Category   string
	Status     runner.ScenarioEventType
	Turn       int
	TurnTotal  int
	Emotion    string
	Satisfied  int
	Max        int
	Rating     int
	Scored     bool
	StartedAt  time.Time
	FinishedAt time.Time
	Error      string
}

// StatusCounts aggregates rows by status bucket.
type StatusCounts struct {
	Pending   int
	Active    int
	Completed int
	Failed    int
}

// State captures the live UI state for one configuration.
type State struct {
	RunID             string
	BaseURL           string
	ConfigName        string
	ConfigDescription string
	ConfigIndex       int
	ConfigTotal       int
	StartedAt         time.Time
	LastEvent         string
	Rows              []ScenarioRow
	Counts            StatusCounts
}

// pending is the row status before any event arrived for the scenario.
const pending runner.ScenarioEventType = ""
