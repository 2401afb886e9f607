package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"convcompare/internal/spec"
)

// validConfig returns a minimal normalized config used by validation tests.
func validConfig() spec.Config {
	cfg := spec.Config{
		Version: 1,
		Evaluation: spec.EvaluationConfig{
			Keywords: map[string][]string{"공감": {"네요"}},
			Inverted: map[string][]string{"의료조언 회피": {"병원"}},
		},
		Configurations: []spec.Configuration{
			{Name: "baseline", Description: "current"},
		},
		Scenarios: []spec.Scenario{
			{ID: 1, Name: "greeting", UserMessage: "hello", ExpectedElements: []string{"공감"}},
		},
	}
	Normalize(&cfg)
	return cfg
}

func TestDefaultConfigLoads(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("load default: %v", err)
	}
	if len(cfg.Scenarios) != 5 {
		t.Fatalf("expected 5 scenarios, got %d", len(cfg.Scenarios))
	}
	names := make([]string, 0, len(cfg.Configurations))
	for _, item := range cfg.Configurations {
		names = append(names, item.Name)
	}
	if got := strings.Join(names, ","); got != "baseline,improved_prompt,improved_params,improved_combined" {
		t.Fatalf("unexpected configurations: %s", got)
	}
	if cfg.Timeouts.Chat != 30*time.Second || cfg.Delays.Scenario != 2*time.Second {
		t.Fatalf("unexpected timings: %+v %+v", cfg.Timeouts, cfg.Delays)
	}
	if got := cfg.Evaluation.Inverted["의료조언 회피"]; len(got) != 6 {
		t.Fatalf("unexpected medical terms: %v", got)
	}
	if len(cfg.Scenarios[3].Context) != 2 {
		t.Fatalf("expected multi-turn scenario to carry two context turns")
	}
}

// TestDefaultConfigWarnsOnUnmappedTag verifies the family scenario's follow-up tag is flagged but not rejected.
func TestDefaultConfigWarnsOnUnmappedTag(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("load default: %v", err)
	}
	warnings := Warnings(cfg)
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %+v", warnings)
	}
	if !strings.Contains(warnings[0].Message, "추가 질문") {
		t.Fatalf("unexpected warning: %+v", warnings[0])
	}
}

func TestNormalizeFillsDefaults(t *testing.T) {
	cfg := spec.Config{Target: spec.TargetConfig{BaseURL: " http://example.test/ "}}
	Normalize(&cfg)

	if cfg.Target.BaseURL != "http://example.test" {
		t.Fatalf("unexpected base url: %q", cfg.Target.BaseURL)
	}
	if cfg.Target.Endpoints.Messages != DefaultMessagesPath {
		t.Fatalf("unexpected messages path: %q", cfg.Target.Endpoints.Messages)
	}
	if cfg.Contract.ReplyPath != DefaultReplyPath || cfg.Contract.Version != 1 {
		t.Fatalf("unexpected contract: %+v", cfg.Contract)
	}
	if cfg.Auth.Mode != spec.AuthModeSignupToken {
		t.Fatalf("unexpected auth mode: %q", cfg.Auth.Mode)
	}
	if cfg.Delays.ContextTurn != DefaultContextTurnDelay || cfg.Delays.Scenario != DefaultScenarioDelay {
		t.Fatalf("unexpected delays: %+v", cfg.Delays)
	}
	if cfg.Report.Recommendation != spec.RecommendRecompute {
		t.Fatalf("unexpected recommendation rule: %q", cfg.Report.Recommendation)
	}
}

// TestNormalizeKeepsExplicitDelays verifies a partially set delays block is preserved.
func TestNormalizeKeepsExplicitDelays(t *testing.T) {
	cfg := spec.Config{Delays: spec.DelayConfig{Scenario: time.Second}}
	Normalize(&cfg)
	if cfg.Delays.ContextTurn != 0 || cfg.Delays.Scenario != time.Second {
		t.Fatalf("unexpected delays: %+v", cfg.Delays)
	}
}

func TestValidateAcceptsValidConfig(t *testing.T) {
	cfg := validConfig()
	if err := Validate(&cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateDetectsDuplicates(t *testing.T) {
	cfg := validConfig()
	cfg.Configurations = append(cfg.Configurations, cfg.Configurations[0])
	cfg.Scenarios = append(cfg.Scenarios, cfg.Scenarios[0])

	err := Validate(&cfg)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(validationErr.Issues) != 2 {
		t.Fatalf("expected two issues, got %+v", validationErr.Issues)
	}
	if !strings.Contains(err.Error(), "duplicate configuration name") || !strings.Contains(err.Error(), "duplicate scenario id") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsBadSettings(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*spec.Config)
		field  string
	}{
		{"bad-version", func(cfg *spec.Config) { cfg.Version = 2 }, "version"},
		{"bad-url", func(cfg *spec.Config) { cfg.Target.BaseURL = "localhost:8080" }, "target.base_url"},
		{"bad-endpoint", func(cfg *spec.Config) { cfg.Target.Endpoints.Signup = "api/auth" }, "target.endpoints.signup"},
		{"bad-auth-mode", func(cfg *spec.Config) { cfg.Auth.Mode = "oauth" }, "auth.mode"},
		{"bad-rule", func(cfg *spec.Config) { cfg.Report.Recommendation = "vote" }, "report.recommendation"},
		{"bad-timeout", func(cfg *spec.Config) { cfg.Timeouts.Chat = -time.Second }, "timeouts.chat"},
		{"negative-delay", func(cfg *spec.Config) { cfg.Delays.Scenario = -time.Second }, "delays.scenario"},
		{"empty-trigger-list", func(cfg *spec.Config) { cfg.Evaluation.Keywords["질문"] = nil }, `evaluation.keywords["질문"]`},
		{"tag-in-both-tables", func(cfg *spec.Config) { cfg.Evaluation.Keywords["의료조언 회피"] = []string{"x"} }, `evaluation.keywords["의료조언 회피"]`},
		{"missing-message", func(cfg *spec.Config) { cfg.Scenarios[0].UserMessage = " " }, "scenarios[0].user_message"},
		{"missing-tags", func(cfg *spec.Config) { cfg.Scenarios[0].ExpectedElements = nil }, "scenarios[0].expected_elements"},
		{"missing-role", func(cfg *spec.Config) {
			cfg.Scenarios[0].Context = []spec.Turn{{Message: "hi"}}
		}, "scenarios[0].context[0].role"},
		{"no-configurations", func(cfg *spec.Config) { cfg.Configurations = nil }, "configurations"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := Validate(&cfg)
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.field+":") {
				t.Fatalf("expected issue for %s, got %q", tc.field, err.Error())
			}
		})
	}
}

func TestFindConfigPathSearchesUpward(t *testing.T) {
	root := t.TempDir()
	configPath := ConfigPath(root)
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(configPath, DefaultYAML(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir nested: %v", err)
	}

	found, err := FindConfigPath(nested)
	if err != nil {
		t.Fatalf("find config: %v", err)
	}
	if found != configPath {
		t.Fatalf("expected %q, got %q", configPath, found)
	}
	if ProjectRootFromConfigPath(found) != root {
		t.Fatalf("unexpected project root: %q", ProjectRootFromConfigPath(found))
	}
}

func TestFindConfigPathNotFound(t *testing.T) {
	_, err := FindConfigPath(t.TempDir())
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestScaffoldWritesLoadableConfig(t *testing.T) {
	configPath := ConfigPath(t.TempDir())
	if err := Scaffold(configPath, []byte("{}\n")); err != nil {
		t.Fatalf("scaffold: %v", err)
	}
	if _, err := Load(configPath); err != nil {
		t.Fatalf("load scaffolded config: %v", err)
	}
	if _, err := os.Stat(SchemaPath(configPath)); err != nil {
		t.Fatalf("expected schema file: %v", err)
	}
	if err := Scaffold(configPath, nil); err == nil {
		t.Fatalf("expected error when config already exists")
	}
}
