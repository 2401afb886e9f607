package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"convcompare/internal/eval"
	"convcompare/internal/results"
	"convcompare/internal/spec"
	"convcompare/internal/target"
)

// ErrTargetUnavailable reports a failed health check. Nothing was run.
var ErrTargetUnavailable = errors.New("target server unavailable")

// orchestrator holds what one run shares across configurations.
type orchestrator struct {
	cfg         spec.Config
	deps        RunDependencies
	client      *target.Client
	provisioner *target.Provisioner
	evaluator   *eval.Evaluator
	logger      zerolog.Logger
}

// Run health-checks the target, then drives every selected configuration
// through the scenario catalog, pausing at the gate between configurations.
// A gate error or cancelled context ends the run early; the partial result
// is returned with Aborted set and a nil error.
func Run(ctx context.Context, cfg spec.Config, params RunParams) (results.RunResult, error) {
	deps := params.Deps.withDefaults()
	baseURL := cfg.Target.BaseURL
	if override := strings.TrimSpace(params.BaseURL); override != "" {
		baseURL = override
	}

	configurations, err := SelectConfigurations(cfg, params.Selectors)
	if err != nil {
		return results.RunResult{}, err
	}
	client, err := target.NewClient(target.Options{
		BaseURL:   baseURL,
		Endpoints: cfg.Target.Endpoints,
		Timeouts:  cfg.Timeouts,
		Contract:  target.ContractFromConfig(cfg.Contract),
		HTTP:      deps.HTTP,
		Logger:    deps.Logger,
	})
	if err != nil {
		return results.RunResult{}, err
	}
	runID, err := deps.RunID()
	if err != nil {
		return results.RunResult{}, err
	}

	if err := client.Health(ctx); err != nil {
		return results.RunResult{}, fmt.Errorf("%w at %s: %w", ErrTargetUnavailable, client.BaseURL(), err)
	}

	o := &orchestrator{
		cfg:         cfg,
		deps:        deps,
		client:      client,
		provisioner: target.NewProvisioner(client, cfg.Auth, deps.Provisioner...),
		evaluator:   eval.New(eval.RulesFromConfig(cfg.Evaluation)),
		logger:      deps.Logger.With().Str("run_id", runID).Logger(),
	}

	run := results.RunResult{
		RunID:          runID,
		TestDate:       deps.Now(),
		BaseURL:        client.BaseURL(),
		Catalog:        Catalog(cfg.Scenarios),
		Configurations: make([]results.ConfigurationResult, 0, len(configurations)),
	}
	deps.Observer.OnRunStart(RunInfo{
		RunID:          runID,
		BaseURL:        run.BaseURL,
		Configurations: configurations,
		Scenarios:      len(cfg.Scenarios),
		StartedAt:      run.TestDate,
	})

	for i, configuration := range configurations {
		if i > 0 {
			deps.Observer.OnReconfigure(configuration)
			if err := deps.Gate.Wait(ctx, configuration); err != nil {
				o.logger.Warn().Err(err).Str("config", configuration.Name).Msg("run stopped at reconfiguration")
				run.Aborted = true
				break
			}
		}
		deps.Observer.OnConfigStart(i, len(configurations), configuration)
		result, err := o.runConfiguration(ctx, configuration)
		run.Configurations = append(run.Configurations, result)
		deps.Observer.OnConfigEnd(result, len(cfg.Scenarios))
		if err != nil {
			o.logger.Warn().Err(err).Str("config", configuration.Name).Msg("run cancelled")
			run.Aborted = true
			break
		}
	}

	finished := deps.Now()
	run.FinishedAt = &finished
	deps.Observer.OnRunEnd(run)
	return run, nil
}

// Catalog lists scenarios for the results file in catalog order.
func Catalog(scenarios []spec.Scenario) []results.CatalogEntry {
	entries := make([]results.CatalogEntry, 0, len(scenarios))
	for _, scenario := range scenarios {
		entries = append(entries, results.CatalogEntry{
			ID:               scenario.ID,
			Name:             scenario.Name,
			Category:         scenario.Category,
			UserMessage:      scenario.UserMessage,
			ExpectedElements: append([]string{}, scenario.ExpectedElements...),
			HasContext:       scenario.HasContext(),
		})
	}
	return entries
}

// runConfiguration runs the catalog in order against the current server
// profile. The returned error is non-nil only when ctx ended.
func (o *orchestrator) runConfiguration(ctx context.Context, configuration spec.Configuration) (results.ConfigurationResult, error) {
	result := results.ConfigurationResult{
		ConfigName:        configuration.Name,
		ConfigDescription: configuration.Description,
		Profile:           profileFor(configuration),
		Scenarios:         []results.ScenarioResult{},
		TestTime:          o.deps.Now(),
	}
	logger := o.logger.With().Str("config", configuration.Name).Logger()

	for i, scenario := range o.cfg.Scenarios {
		s := scenarioRun{o: o, config: configuration.Name, index: i, total: len(o.cfg.Scenarios), scenario: scenario}
		captured, failure, err := s.run(ctx)
		if err != nil {
			return result, err
		}
		if failure != nil {
			logger.Error().Int("scenario_id", scenario.ID).Str("stage", failure.Stage).Msg(failure.Error)
			result.Failures = append(result.Failures, *failure)
			continue
		}
		result.Scenarios = append(result.Scenarios, captured)
		if err := o.deps.Sleep(ctx, o.cfg.Delays.Scenario); err != nil {
			return result, err
		}
	}
	return result, nil
}

func profileFor(configuration spec.Configuration) *results.Profile {
	profile := results.Profile{
		File:       configuration.File,
		Changes:    configuration.Changes,
		Steps:      configuration.Steps,
		Strengths:  configuration.Strengths,
		Weaknesses: configuration.Weaknesses,
		Highlights: configuration.Highlights,
	}
	if profile.File == "" && len(profile.Changes) == 0 && len(profile.Steps) == 0 &&
		profile.Strengths == "" && profile.Weaknesses == "" && len(profile.Highlights) == 0 {
		return nil
	}
	return &profile
}

// scenarioRun executes one scenario against a fresh session.
type scenarioRun struct {
	o        *orchestrator
	config   string
	index    int
	total    int
	scenario spec.Scenario
}

func (s scenarioRun) emit(event ScenarioEvent) {
	event.ConfigName = s.config
	event.ScenarioIndex = s.index
	event.ScenarioTotal = s.total
	event.Scenario = s.scenario
	event.EmittedAt = s.o.deps.Now()
	s.o.deps.Observer.OnScenarioEvent(event)
}

// fail records a dropped scenario unless ctx ended, in which case the
// context error is returned instead.
func (s scenarioRun) fail(ctx context.Context, stage string, cause error) (results.ScenarioResult, *results.Failure, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return results.ScenarioResult{}, nil, ctxErr
	}
	failure := &results.Failure{ScenarioID: s.scenario.ID, Stage: stage, Error: cause.Error()}
	s.emit(ScenarioEvent{Type: ScenarioFailed, Stage: stage, Error: failure.Error})
	return results.ScenarioResult{}, failure, nil
}

func (s scenarioRun) run(ctx context.Context) (results.ScenarioResult, *results.Failure, error) {
	s.emit(ScenarioEvent{Type: ScenarioStarted})

	session, err := s.o.provisioner.Provision(ctx)
	if err != nil {
		return s.fail(ctx, results.StageProvision, err)
	}
	s.emit(ScenarioEvent{Type: ScenarioProvisioned, LoginID: session.LoginID})

	driver := target.NewDriver(s.o.client, session, s.o.cfg.Delays.ContextTurn, s.o.deps.Sleep)
	if s.scenario.HasContext() {
		err := driver.BuildContext(ctx, s.scenario.Context, func(outcome target.TurnOutcome) {
			event := ScenarioEvent{
				Type:        ScenarioContextTurn,
				LoginID:     session.LoginID,
				Turn:        outcome.Index,
				TurnSkipped: outcome.Skipped,
				Message:     outcome.Turn.Message,
				Reply:       outcome.Reply,
			}
			if outcome.Err != nil {
				event.Error = outcome.Err.Error()
			}
			s.emit(event)
		})
		if err != nil {
			return results.ScenarioResult{}, nil, err
		}
	}

	s.emit(ScenarioEvent{Type: ScenarioProbing, LoginID: session.LoginID, Message: s.scenario.UserMessage})
	reply, err := driver.Send(ctx, s.scenario.UserMessage)
	if err != nil {
		return s.fail(ctx, results.StageProbe, err)
	}

	score := s.o.evaluator.Evaluate(reply.AIResponse, s.scenario.ExpectedElements)
	satisfied, maxScore := score.Satisfied, score.Max
	captured := results.ScenarioResult{
		ScenarioID:       s.scenario.ID,
		ScenarioName:     s.scenario.Name,
		Category:         s.scenario.Category,
		UserMessage:      s.scenario.UserMessage,
		UserEmotion:      reply.UserEmotion,
		AIResponse:       reply.AIResponse,
		ExpectedElements: append([]string{}, s.scenario.ExpectedElements...),
		HasContext:       s.scenario.HasContext(),
		Timestamp:        s.o.deps.Now(),
		Score:            &satisfied,
		MaxScore:         &maxScore,
		Rating:           score.Rating,
	}
	s.emit(ScenarioEvent{Type: ScenarioCompleted, LoginID: session.LoginID, Message: s.scenario.UserMessage, Reply: reply, Score: score})
	return captured, nil, nil
}
