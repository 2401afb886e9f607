package spec

import (
	"testing"
	"time"
)

// TestParseConfigValid verifies valid config parsing succeeds.
func TestParseConfigValid(t *testing.T) {
	data := []byte(`version: 1
target:
  base_url: "http://localhost:8080"
timeouts:
  chat: 45s
delays:
  context_turn: 500ms
configurations:
  - name: baseline
    description: current settings
scenarios:
  - id: 1
    name: greeting
    category: positive
    context:
      - role: user
        message: hello
    user_message: how are you
    expected_elements: ["공감", "질문"]
`)
	cfg, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("expected parse to succeed, got %v", err)
	}
	if cfg.Timeouts.Chat != 45*time.Second {
		t.Fatalf("unexpected chat timeout: %v", cfg.Timeouts.Chat)
	}
	if cfg.Delays.ContextTurn != 500*time.Millisecond {
		t.Fatalf("unexpected context delay: %v", cfg.Delays.ContextTurn)
	}
	if len(cfg.Scenarios) != 1 || !cfg.Scenarios[0].HasContext() {
		t.Fatalf("unexpected scenarios: %+v", cfg.Scenarios)
	}
	if cfg.Scenarios[0].Context[0].Role != RoleUser {
		t.Fatalf("unexpected role: %q", cfg.Scenarios[0].Context[0].Role)
	}
}

// TestParseConfigUnknownField verifies unknown fields are rejected.
func TestParseConfigUnknownField(t *testing.T) {
	data := []byte(`version: 1
unknown: true
`)
	if _, err := ParseConfig(data); err == nil {
		t.Fatalf("expected parse error for unknown field")
	}
}

// TestParseConfigRejectsMultipleDocs verifies multiple YAML docs are rejected.
func TestParseConfigRejectsMultipleDocs(t *testing.T) {
	data := []byte("version: 1\n---\nversion: 1\n")
	if _, err := ParseConfig(data); err == nil {
		t.Fatalf("expected parse error for multiple documents")
	}
}

func TestParseConfigRejectsEmpty(t *testing.T) {
	if _, err := ParseConfig(nil); err == nil {
		t.Fatalf("expected parse error for empty document")
	}
}
