package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"convcompare/internal/spec"
)

// Validate checks a normalized config and returns a ValidationError listing every problem.
func Validate(cfg *spec.Config) error {
	collector := &issueCollector{}
	add := collector.add

	if cfg.Version == 0 {
		add("version", "is required")
	} else if cfg.Version != 1 {
		collector.addf("version", "unsupported version %d", cfg.Version)
	}

	validateTarget(cfg.Target, add)
	validateContract(cfg.Contract, add)
	validateAuth(cfg.Auth, add)
	validateTimings(cfg, add)

	if strings.TrimSpace(cfg.Output.Dir) == "" {
		add("output.dir", "is required")
	}
	switch cfg.Report.Recommendation {
	case spec.RecommendRecompute, spec.RecommendRecorded:
	default:
		collector.addf("report.recommendation", "unsupported rule %q (want %s or %s)", cfg.Report.Recommendation, spec.RecommendRecompute, spec.RecommendRecorded)
	}

	validateEvaluation(cfg.Evaluation, add)
	validateConfigurations(cfg.Configurations, add)
	validateScenarios(cfg.Scenarios, add)

	return collector.result()
}

func validateTarget(target spec.TargetConfig, add issueAdder) {
	if target.BaseURL == "" {
		add("target.base_url", "is required")
	} else if err := ValidateBaseURL(target.BaseURL); err != nil {
		add("target.base_url", err.Error())
	}
	endpoints := []struct {
		field string
		value string
	}{
		{"target.endpoints.health", target.Endpoints.Health},
		{"target.endpoints.signup", target.Endpoints.Signup},
		{"target.endpoints.login", target.Endpoints.Login},
		{"target.endpoints.messages", target.Endpoints.Messages},
	}
	for _, endpoint := range endpoints {
		if !strings.HasPrefix(endpoint.value, "/") {
			add(endpoint.field, "must start with /")
		}
	}
}

// ValidateBaseURL checks that a base URL is an absolute http(s) URL.
func ValidateBaseURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https")
	}
	if parsed.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}

func validateContract(contract spec.ContractConfig, add issueAdder) {
	if contract.Version != 1 {
		add("contract.version", fmt.Sprintf("unsupported version %d", contract.Version))
	}
	if contract.TokenPath == "" {
		add("contract.token_path", "is required")
	}
	if contract.ReplyPath == "" {
		add("contract.reply_path", "is required")
	}
	if contract.EmotionPath == "" {
		add("contract.emotion_path", "is required")
	}
}

func validateAuth(auth spec.AuthConfig, add issueAdder) {
	switch auth.Mode {
	case spec.AuthModeSignupToken, spec.AuthModeSignupLogin:
	default:
		add("auth.mode", fmt.Sprintf("unsupported mode %q", auth.Mode))
	}
	if auth.LoginPrefix == "" {
		add("auth.login_prefix", "is required")
	}
	if auth.Password == "" {
		add("auth.password", "is required")
	}
}

func validateTimings(cfg *spec.Config, add issueAdder) {
	if cfg.Timeouts.Health <= 0 {
		add("timeouts.health", "must be positive")
	}
	if cfg.Timeouts.Auth <= 0 {
		add("timeouts.auth", "must be positive")
	}
	if cfg.Timeouts.Chat <= 0 {
		add("timeouts.chat", "must be positive")
	}
	if cfg.Delays.ContextTurn < 0 {
		add("delays.context_turn", "must not be negative")
	}
	if cfg.Delays.Scenario < 0 {
		add("delays.scenario", "must not be negative")
	}
}

func validateEvaluation(evaluation spec.EvaluationConfig, add issueAdder) {
	for _, tag := range sortedKeys(evaluation.Keywords) {
		field := fmt.Sprintf("evaluation.keywords[%q]", tag)
		if strings.TrimSpace(tag) == "" {
			add("evaluation.keywords", "tag must not be empty")
			continue
		}
		if len(evaluation.Keywords[tag]) == 0 {
			add(field, "at least one trigger is required")
		}
		if _, ok := evaluation.Inverted[tag]; ok {
			add(field, "tag is also listed under evaluation.inverted")
		}
		checkTriggers(field, evaluation.Keywords[tag], add)
	}
	for _, tag := range sortedKeys(evaluation.Inverted) {
		field := fmt.Sprintf("evaluation.inverted[%q]", tag)
		if strings.TrimSpace(tag) == "" {
			add("evaluation.inverted", "tag must not be empty")
			continue
		}
		checkTriggers(field, evaluation.Inverted[tag], add)
	}
}

func checkTriggers(field string, triggers []string, add issueAdder) {
	for i, trigger := range triggers {
		if trigger == "" {
			add(fmt.Sprintf("%s[%d]", field, i), "trigger must not be empty")
		}
	}
}

func validateConfigurations(items []spec.Configuration, add issueAdder) {
	if len(items) == 0 {
		add("configurations", "at least one configuration is required")
	}
	seen := map[string]struct{}{}
	for i, item := range items {
		field := fmt.Sprintf("configurations[%d]", i)
		if item.Name == "" {
			add(field+".name", "is required")
		} else if _, ok := seen[item.Name]; ok {
			add(field+".name", fmt.Sprintf("duplicate configuration name %q", item.Name))
		} else {
			seen[item.Name] = struct{}{}
		}
		if item.Description == "" {
			add(field+".description", "is required")
		}
	}
}

func validateScenarios(scenarios []spec.Scenario, add issueAdder) {
	if len(scenarios) == 0 {
		add("scenarios", "at least one scenario is required")
	}
	seen := map[int]struct{}{}
	for i, scenario := range scenarios {
		field := fmt.Sprintf("scenarios[%d]", i)
		if scenario.ID <= 0 {
			add(field+".id", "must be a positive integer")
		} else if _, ok := seen[scenario.ID]; ok {
			add(field+".id", fmt.Sprintf("duplicate scenario id %d", scenario.ID))
		} else {
			seen[scenario.ID] = struct{}{}
		}
		if scenario.Name == "" {
			add(field+".name", "is required")
		}
		if strings.TrimSpace(scenario.UserMessage) == "" {
			add(field+".user_message", "is required")
		}
		if len(scenario.ExpectedElements) == 0 {
			add(field+".expected_elements", "at least one tag is required")
		}
		for j, tag := range scenario.ExpectedElements {
			if tag == "" {
				add(fmt.Sprintf("%s.expected_elements[%d]", field, j), "tag must not be empty")
			}
		}
		for j, turn := range scenario.Context {
			turnField := fmt.Sprintf("%s.context[%d]", field, j)
			if turn.Role == "" {
				add(turnField+".role", "is required")
			}
			if strings.TrimSpace(turn.Message) == "" {
				add(turnField+".message", "is required")
			}
		}
	}
}

// Warnings reports non-fatal problems: expected tags with no rule behind
// them. Such tags still count toward the maximum score but can never be
// satisfied.
func Warnings(cfg spec.Config) []Issue {
	var warnings []Issue
	for i, scenario := range cfg.Scenarios {
		for j, tag := range scenario.ExpectedElements {
			if tag == "" {
				continue
			}
			_, keyword := cfg.Evaluation.Keywords[tag]
			_, inverted := cfg.Evaluation.Inverted[tag]
			if !keyword && !inverted {
				warnings = append(warnings, Issue{
					Field:   fmt.Sprintf("scenarios[%d].expected_elements[%d]", i, j),
					Message: fmt.Sprintf("tag %q has no evaluation rule and can never be satisfied", tag),
				})
			}
		}
	}
	return warnings
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
