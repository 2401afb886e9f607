package live

import (
	"convcompare/internal/results"
	"convcompare/internal/runner"
	"convcompare/internal/spec"
)

// EventKind identifies the type of live UI event.
type EventKind int

const (
	// EventRunStart signals the start of a run.
	EventRunStart EventKind = iota
	// EventConfigStart signals the start of a configuration.
	EventConfigStart
	// EventScenario delivers a scenario status update.
	EventScenario
	// EventConfigEnd signals configuration completion.
	EventConfigEnd
)

// Event carries a UI update payload.
type Event struct {
	Kind        EventKind
	Run         runner.RunInfo
	ConfigIndex int
	ConfigTotal int
	Config      spec.Configuration
	Scenario    runner.ScenarioEvent
	Result      results.ConfigurationResult
	Scenarios   int
}
