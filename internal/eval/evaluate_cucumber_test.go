//go:build cucumber

package eval

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"convcompare/internal/config"
)

// TestEvaluateScenarios runs the evaluator feature scenarios.
func TestEvaluateScenarios(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "evaluate",
		ScenarioInitializer: InitializeEvaluateScenario,
		Options: &godog.Options{
			Format:    "pretty",
			Paths:     []string{filepath.Join("testdata", "features", "evaluate.feature")},
			Strict:    true,
			TestingT:  t,
			Randomize: 0,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeEvaluateScenario wires steps for evaluator scenarios.
func InitializeEvaluateScenario(ctx *godog.ScenarioContext) {
	state := &evaluateScenarioState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		*state = evaluateScenarioState{}
		return ctx, nil
	})

	ctx.Step(`^the default evaluation rules$`, state.givenDefaultRules)
	ctx.Step(`^the response "([^"]*)"$`, state.givenResponse)
	ctx.Step(`^I evaluate it against "([^"]*)"$`, state.whenEvaluate)
	ctx.Step(`^the score is (\d+)/(\d+)$`, state.thenScore)
	ctx.Step(`^the rating is (\d+) stars$`, state.thenRating)
}

type evaluateScenarioState struct {
	evaluator *Evaluator
	response  string
	score     Score
}

func (s *evaluateScenarioState) givenDefaultRules() error {
	cfg, err := config.Default()
	if err != nil {
		return err
	}
	s.evaluator = New(RulesFromConfig(cfg.Evaluation))
	return nil
}

func (s *evaluateScenarioState) givenResponse(response string) error {
	s.response = response
	return nil
}

func (s *evaluateScenarioState) whenEvaluate(tagList string) error {
	if s.evaluator == nil {
		return fmt.Errorf("rules not loaded")
	}
	var tags []string
	for _, tag := range strings.Split(tagList, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	s.score = s.evaluator.Evaluate(s.response, tags)
	return nil
}

func (s *evaluateScenarioState) thenScore(satisfied, max int) error {
	if s.score.Satisfied != satisfied || s.score.Max != max {
		return fmt.Errorf("expected score %d/%d, got %d/%d", satisfied, max, s.score.Satisfied, s.score.Max)
	}
	return nil
}

func (s *evaluateScenarioState) thenRating(rating int) error {
	if s.score.Rating != rating {
		return fmt.Errorf("expected rating %d, got %d", rating, s.score.Rating)
	}
	return nil
}
