package runner

import (
	"time"

	"convcompare/internal/eval"
	"convcompare/internal/results"
	"convcompare/internal/spec"
	"convcompare/internal/target"
)

// ScenarioEventType identifies a scenario status update for observers.
type ScenarioEventType string

const (
	// ScenarioStarted marks a scenario about to provision its session.
	ScenarioStarted ScenarioEventType = "started"
	// ScenarioProvisioned marks a fresh session ready for use.
	ScenarioProvisioned ScenarioEventType = "provisioned"
	// ScenarioContextTurn marks one replayed context turn.
	ScenarioContextTurn ScenarioEventType = "context_turn"
	// ScenarioProbing marks the probe message being sent.
	ScenarioProbing ScenarioEventType = "probing"
	// ScenarioCompleted marks a captured and scored reply.
	ScenarioCompleted ScenarioEventType = "completed"
	// ScenarioFailed marks a scenario dropped from the results.
	ScenarioFailed ScenarioEventType = "failed"
)

// ScenarioEvent carries a single status update for a scenario.
type ScenarioEvent struct {
	ConfigName    string
	ScenarioIndex int
	ScenarioTotal int
	Scenario      spec.Scenario
	Type          ScenarioEventType
	LoginID       string
	// Turn is the 1-based context turn for ScenarioContextTurn events.
	Turn        int
	TurnSkipped bool
	Message     string
	Reply       target.Reply
	Score       eval.Score
	Stage       string
	Error       string
	EmittedAt   time.Time
}

// RunInfo describes a run as it starts.
type RunInfo struct {
	RunID          string
	BaseURL        string
	Configurations []spec.Configuration
	Scenarios      int
	StartedAt      time.Time
}

// RunObserver receives run lifecycle events for UI or logging. Calls happen
// on the run goroutine in order.
type RunObserver interface {
	// OnRunStart signals the start of a run after the health check passed.
	OnRunStart(info RunInfo)
	// OnConfigStart signals the start of a configuration (0-based index).
	OnConfigStart(index, total int, cfg spec.Configuration)
	// OnReconfigure fires before the gate for every configuration but the first.
	OnReconfigure(cfg spec.Configuration)
	// OnScenarioEvent delivers a scenario status update.
	OnScenarioEvent(event ScenarioEvent)
	// OnConfigEnd signals configuration completion; scenarios is the catalog size.
	OnConfigEnd(result results.ConfigurationResult, scenarios int)
	// OnRunEnd signals run completion, including aborted runs.
	OnRunEnd(run results.RunResult)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) OnRunStart(RunInfo) {}
func (NopObserver) OnConfigStart(int, int, spec.Configuration) {}
func (NopObserver) OnReconfigure(spec.Configuration) {}
func (NopObserver) OnScenarioEvent(ScenarioEvent) {}
func (NopObserver) OnConfigEnd(results.ConfigurationResult, int) {}
func (NopObserver) OnRunEnd(results.RunResult) {}
