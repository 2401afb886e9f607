package spec

import "time"

// Config is the root of a convcompare YAML file.
type Config struct {
	Version        int              `yaml:"version"`
	Target         TargetConfig     `yaml:"target"`
	Contract       ContractConfig   `yaml:"contract"`
	Auth           AuthConfig       `yaml:"auth"`
	Timeouts       TimeoutConfig    `yaml:"timeouts"`
	Delays         DelayConfig      `yaml:"delays"`
	Output         OutputConfig     `yaml:"output"`
	Evaluation     EvaluationConfig `yaml:"evaluation"`
	Report         ReportConfig     `yaml:"report"`
	Configurations []Configuration  `yaml:"configurations"`
	Scenarios      []Scenario       `yaml:"scenarios"`
}

type TargetConfig struct {
	BaseURL   string         `yaml:"base_url"`
	Endpoints EndpointConfig `yaml:"endpoints"`
}

type EndpointConfig struct {
	Health   string `yaml:"health"`
	Signup   string `yaml:"signup"`
	Login    string `yaml:"login"`
	Messages string `yaml:"messages"`
}

// ContractConfig names the gjson paths used to read target responses.
type ContractConfig struct {
	Version     int    `yaml:"version"`
	TokenPath   string `yaml:"token_path"`
	ReplyPath   string `yaml:"reply_path"`
	EmotionPath string `yaml:"emotion_path"`
}

// Auth modes supported by the session provisioner.
const (
	AuthModeSignupToken = "signup_token"
	AuthModeSignupLogin = "signup_login"
)

type AuthConfig struct {
	Mode        string `yaml:"mode"`
	LoginPrefix string `yaml:"login_prefix"`
	Password    string `yaml:"password"`
	Name        string `yaml:"name"`
}

type TimeoutConfig struct {
	Health time.Duration `yaml:"health"`
	Auth   time.Duration `yaml:"auth"`
	Chat   time.Duration `yaml:"chat"`
}

type DelayConfig struct {
	ContextTurn time.Duration `yaml:"context_turn"`
	Scenario    time.Duration `yaml:"scenario"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// EvaluationConfig holds the keyword tables for the heuristic evaluator.
// Keywords map a tag to trigger substrings; Inverted map a tag to forbidden
// substrings.
type EvaluationConfig struct {
	Keywords map[string][]string `yaml:"keywords"`
	Inverted map[string][]string `yaml:"inverted"`
}

// Recommendation rules for the report.
const (
	RecommendRecompute = "recompute"
	RecommendRecorded  = "recorded"
)

type ReportConfig struct {
	Recommendation string `yaml:"recommendation"`
}

// Configuration describes one server profile under comparison. The harness
// never applies it; an operator follows File, Changes and Steps by hand.
type Configuration struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	File        string   `yaml:"file"`
	Changes     []string `yaml:"changes"`
	Steps       []string `yaml:"steps"`
	Strengths   string   `yaml:"strengths"`
	Weaknesses  string   `yaml:"weaknesses"`
	Highlights  []string `yaml:"highlights"`
}

type Scenario struct {
	ID               int      `yaml:"id"`
	Name             string   `yaml:"name"`
	Category         string   `yaml:"category"`
	Description      string   `yaml:"description"`
	Context          []Turn   `yaml:"context"`
	UserMessage      string   `yaml:"user_message"`
	ExpectedElements []string `yaml:"expected_elements"`
}

// RoleUser is the only turn role replayed against the target.
const RoleUser = "user"

// Turn is a prior conversation turn replayed before the probe message.
type Turn struct {
	Role    string `yaml:"role"`
	Message string `yaml:"message"`
}

// HasContext reports whether the scenario replays prior turns.
func (s Scenario) HasContext() bool {
	return len(s.Context) > 0
}
