// Package results defines the JSON artifact a comparison run produces.
package results

import "time"

// RunResult is the full output of one comparison run.
type RunResult struct {
	RunID          string                `json:"run_id" jsonschema:"description=Unique run identifier"`
	TestDate       time.Time             `json:"test_date" jsonschema:"description=When the run started"`
	FinishedAt     *time.Time            `json:"finished_at,omitempty"`
	BaseURL        string                `json:"base_url"`
	Aborted        bool                  `json:"aborted,omitempty" jsonschema:"description=Set when the run was cancelled before every configuration finished"`
	Catalog        []CatalogEntry        `json:"catalog,omitempty" jsonschema:"description=Scenario list in catalog order"`
	Configurations []ConfigurationResult `json:"configurations"`
}

// CatalogEntry identifies one scenario of the catalog the run used.
type CatalogEntry struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	Category         string   `json:"category"`
	UserMessage      string   `json:"user_message,omitempty"`
	ExpectedElements []string `json:"expected_elements,omitempty"`
	HasContext       bool     `json:"has_context,omitempty"`
}

// ConfigurationResult holds every captured scenario for one server profile.
type ConfigurationResult struct {
	ConfigName        string           `json:"config_name"`
	ConfigDescription string           `json:"config_description"`
	Profile           *Profile         `json:"profile,omitempty"`
	Scenarios         []ScenarioResult `json:"scenarios"`
	Failures          []Failure        `json:"failures,omitempty"`
	TestTime          time.Time        `json:"test_time"`
}

// Profile carries the operator-facing notes for a configuration.
type Profile struct {
	File       string   `json:"file,omitempty"`
	Changes    []string `json:"changes,omitempty"`
	Steps      []string `json:"steps,omitempty"`
	Strengths  string   `json:"strengths,omitempty"`
	Weaknesses string   `json:"weaknesses,omitempty"`
	Highlights []string `json:"highlights,omitempty"`
}

// ScenarioResult is one captured probe reply.
type ScenarioResult struct {
	ScenarioID       int       `json:"scenario_id"`
	ScenarioName     string    `json:"scenario_name"`
	Category         string    `json:"category"`
	UserMessage      string    `json:"user_message"`
	UserEmotion      string    `json:"user_emotion"`
	AIResponse       string    `json:"ai_response"`
	ExpectedElements []string  `json:"expected_elements"`
	HasContext       bool      `json:"has_context"`
	Timestamp        time.Time `json:"timestamp"`
	Score            *int      `json:"score,omitempty" jsonschema:"description=Satisfied tags at capture time"`
	MaxScore         *int      `json:"max_score,omitempty"`
	Rating           int       `json:"rating,omitempty" jsonschema:"minimum=0,maximum=5"`
}

// Failure stages.
const (
	StageProvision = "provision"
	StageProbe     = "probe"
)

// Failure records a scenario dropped from a configuration's results.
type Failure struct {
	ScenarioID int    `json:"scenario_id"`
	Stage      string `json:"stage" jsonschema:"enum=provision,enum=probe"`
	Error      string `json:"error"`
}

// Recorded reports whether capture-time scores are present.
func (s ScenarioResult) Recorded() bool {
	return s.Score != nil && s.MaxScore != nil
}

// ScenarioByID finds a configuration's result for a scenario id.
func (c ConfigurationResult) ScenarioByID(id int) (ScenarioResult, bool) {
	for _, scenario := range c.Scenarios {
		if scenario.ScenarioID == id {
			return scenario, true
		}
	}
	return ScenarioResult{}, false
}
