package eval

import "strings"

// Score is the outcome of evaluating one response, or the sum of several.
type Score struct {
	Satisfied int
	Max       int
	Rating    int
	Matched   []string
	Missing   []string
}

// Ratio returns Satisfied/Max, or 0 when Max is 0.
func (s Score) Ratio() float64 {
	if s.Max <= 0 {
		return 0
	}
	return float64(s.Satisfied) / float64(s.Max)
}

// Evaluator scores responses against expected tags using fixed keyword tables.
type Evaluator struct {
	rules Rules
}

// New builds an Evaluator over a private copy of the rules.
func New(rules Rules) *Evaluator {
	return &Evaluator{rules: Rules{
		Keywords: cloneTable(rules.Keywords),
		Inverted: cloneTable(rules.Inverted),
	}}
}

// Rules returns the tables the evaluator was built with.
func (e *Evaluator) Rules() Rules {
	return e.rules
}

// Evaluate checks each tag against the response. Tags without a rule count
// toward Max but are never satisfied.
func (e *Evaluator) Evaluate(response string, tags []string) Score {
	score := Score{Max: len(tags)}
	for _, tag := range tags {
		if e.satisfied(response, tag) {
			score.Satisfied++
			score.Matched = append(score.Matched, tag)
		} else {
			score.Missing = append(score.Missing, tag)
		}
	}
	score.Rating = RatingFor(score.Ratio())
	return score
}

func (e *Evaluator) satisfied(response, tag string) bool {
	if forbidden, ok := e.rules.Inverted[tag]; ok {
		return !containsAny(response, forbidden)
	}
	if triggers, ok := e.rules.Keywords[tag]; ok {
		return containsAny(response, triggers)
	}
	return false
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if needle != "" && strings.Contains(text, needle) {
			return true
		}
	}
	return false
}

// Aggregate sums scores and rates the combined ratio on the same tiers.
func Aggregate(scores []Score) Score {
	var total Score
	for _, score := range scores {
		total.Satisfied += score.Satisfied
		total.Max += score.Max
	}
	total.Rating = RatingFor(total.Ratio())
	return total
}
