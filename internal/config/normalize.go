package config

import (
	"strings"
	"time"

	"convcompare/internal/spec"
)

// Defaults applied by Normalize when a field is left empty.
const (
	DefaultBaseURL          = "http://localhost:8080"
	DefaultHealthPath       = "/actuator/health"
	DefaultSignupPath       = "/api/auth/signup"
	DefaultLoginPath        = "/api/auth/login"
	DefaultMessagesPath     = "/api/conversations/messages"
	DefaultTokenPath        = "data.accessToken"
	DefaultReplyPath        = "data.aiResponse.content"
	DefaultEmotionPath      = "data.userMessage.emotion"
	DefaultLoginPrefix      = "test_ai"
	DefaultPassword         = "Test1234!"
	DefaultAccountName      = "AI테스트사용자"
	DefaultHealthTimeout    = 5 * time.Second
	DefaultAuthTimeout      = 10 * time.Second
	DefaultChatTimeout      = 30 * time.Second
	DefaultContextTurnDelay = 1 * time.Second
	DefaultScenarioDelay    = 2 * time.Second
)

// Normalize fills defaults and trims user-entered values in place.
// Delays are left alone so an explicit zero disables them; only a config
// that omits the delays block entirely gets the defaults.
func Normalize(cfg *spec.Config) {
	target := &cfg.Target
	target.BaseURL = strings.TrimRight(strings.TrimSpace(target.BaseURL), "/")
	if target.BaseURL == "" {
		target.BaseURL = DefaultBaseURL
	}
	setDefault(&target.Endpoints.Health, DefaultHealthPath)
	setDefault(&target.Endpoints.Signup, DefaultSignupPath)
	setDefault(&target.Endpoints.Login, DefaultLoginPath)
	setDefault(&target.Endpoints.Messages, DefaultMessagesPath)

	if cfg.Contract.Version == 0 {
		cfg.Contract.Version = 1
	}
	setDefault(&cfg.Contract.TokenPath, DefaultTokenPath)
	setDefault(&cfg.Contract.ReplyPath, DefaultReplyPath)
	setDefault(&cfg.Contract.EmotionPath, DefaultEmotionPath)

	cfg.Auth.Mode = strings.ToLower(strings.TrimSpace(cfg.Auth.Mode))
	setDefault(&cfg.Auth.Mode, spec.AuthModeSignupToken)
	setDefault(&cfg.Auth.LoginPrefix, DefaultLoginPrefix)
	setDefault(&cfg.Auth.Password, DefaultPassword)
	setDefault(&cfg.Auth.Name, DefaultAccountName)

	if cfg.Timeouts.Health == 0 {
		cfg.Timeouts.Health = DefaultHealthTimeout
	}
	if cfg.Timeouts.Auth == 0 {
		cfg.Timeouts.Auth = DefaultAuthTimeout
	}
	if cfg.Timeouts.Chat == 0 {
		cfg.Timeouts.Chat = DefaultChatTimeout
	}
	if cfg.Delays == (spec.DelayConfig{}) {
		cfg.Delays = spec.DelayConfig{
			ContextTurn: DefaultContextTurnDelay,
			Scenario:    DefaultScenarioDelay,
		}
	}

	setDefault(&cfg.Output.Dir, DefaultOutputDir)

	cfg.Report.Recommendation = strings.ToLower(strings.TrimSpace(cfg.Report.Recommendation))
	setDefault(&cfg.Report.Recommendation, spec.RecommendRecompute)

	for i := range cfg.Configurations {
		item := &cfg.Configurations[i]
		item.Name = strings.TrimSpace(item.Name)
		item.Description = strings.TrimSpace(item.Description)
	}
	for i := range cfg.Scenarios {
		scenario := &cfg.Scenarios[i]
		scenario.Name = strings.TrimSpace(scenario.Name)
		scenario.Category = strings.TrimSpace(scenario.Category)
		for j := range scenario.Context {
			scenario.Context[j].Role = strings.ToLower(strings.TrimSpace(scenario.Context[j].Role))
		}
		for j := range scenario.ExpectedElements {
			scenario.ExpectedElements[j] = strings.TrimSpace(scenario.ExpectedElements[j])
		}
	}
}

func setDefault(field *string, value string) {
	*field = strings.TrimSpace(*field)
	if *field == "" {
		*field = value
	}
}
