package eval

import (
	"sort"

	"convcompare/internal/spec"
)

// Rules holds the keyword tables behind the heuristic evaluator.
// A Keywords tag is satisfied when any trigger appears in the response;
// an Inverted tag is satisfied when none of its terms appear.
type Rules struct {
	Keywords map[string][]string
	Inverted map[string][]string
}

// RulesFromConfig copies the evaluation tables out of a config.
func RulesFromConfig(cfg spec.EvaluationConfig) Rules {
	return Rules{
		Keywords: cloneTable(cfg.Keywords),
		Inverted: cloneTable(cfg.Inverted),
	}
}

// Known reports whether a tag has a rule.
func (r Rules) Known(tag string) bool {
	if _, ok := r.Keywords[tag]; ok {
		return true
	}
	_, ok := r.Inverted[tag]
	return ok
}

// Tags lists every tag with a rule, sorted.
func (r Rules) Tags() []string {
	tags := make([]string, 0, len(r.Keywords)+len(r.Inverted))
	for tag := range r.Keywords {
		tags = append(tags, tag)
	}
	for tag := range r.Inverted {
		if _, dup := r.Keywords[tag]; !dup {
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}

func cloneTable(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for tag, triggers := range in {
		out[tag] = append([]string(nil), triggers...)
	}
	return out
}
