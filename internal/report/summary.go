package report

import (
	"convcompare/internal/eval"
	"convcompare/internal/results"
	"convcompare/internal/spec"
)

// Options controls how scores are derived when rendering.
type Options struct {
	// Rule is spec.RecommendRecompute or spec.RecommendRecorded.
	Rule string
}

// ConfigSummary aggregates one configuration's scores.
type ConfigSummary struct {
	Name        string
	Description string
	Profile     *results.Profile
	Total       eval.Score
	Captured    int
	Failed      int
}

// Recommendation names the configuration with the best aggregate ratio.
type Recommendation struct {
	Index   int
	Summary ConfigSummary
}

// ScoreScenario scores one captured reply. The recorded rule reuses the
// capture-time score when present and evaluates otherwise.
func ScoreScenario(scenario results.ScenarioResult, ev *eval.Evaluator, opts Options) eval.Score {
	if opts.Rule == spec.RecommendRecorded && scenario.Recorded() {
		score := eval.Score{Satisfied: *scenario.Score, Max: *scenario.MaxScore}
		score.Rating = eval.RatingFor(score.Ratio())
		return score
	}
	return ev.Evaluate(scenario.AIResponse, scenario.ExpectedElements)
}

// Summarize totals every configuration in run order.
func Summarize(run results.RunResult, ev *eval.Evaluator, opts Options) []ConfigSummary {
	summaries := make([]ConfigSummary, 0, len(run.Configurations))
	for _, cfg := range run.Configurations {
		scores := make([]eval.Score, 0, len(cfg.Scenarios))
		for _, scenario := range cfg.Scenarios {
			scores = append(scores, ScoreScenario(scenario, ev, opts))
		}
		summaries = append(summaries, ConfigSummary{
			Name:        cfg.ConfigName,
			Description: cfg.ConfigDescription,
			Profile:     cfg.Profile,
			Total:       eval.Aggregate(scores),
			Captured:    len(cfg.Scenarios),
			Failed:      len(cfg.Failures),
		})
	}
	return summaries
}

// Recommend picks the configuration with the strictly highest aggregate
// ratio among those with a non-zero maximum. Ties keep the earlier
// configuration. ok is false when no configuration was scored.
func Recommend(summaries []ConfigSummary) (rec Recommendation, ok bool) {
	for i, summary := range summaries {
		if summary.Total.Max <= 0 {
			continue
		}
		if !ok || summary.Total.Ratio() > rec.Summary.Total.Ratio() {
			rec = Recommendation{Index: i, Summary: summary}
			ok = true
		}
	}
	return rec, ok
}
