package target

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"convcompare/internal/spec"
)

// Contract names the gjson paths that locate fields in target responses.
type Contract struct {
	TokenPath   string
	ReplyPath   string
	EmotionPath string
}

// ContractFromConfig builds a Contract from config paths.
func ContractFromConfig(cfg spec.ContractConfig) Contract {
	return Contract{
		TokenPath:   cfg.TokenPath,
		ReplyPath:   cfg.ReplyPath,
		EmotionPath: cfg.EmotionPath,
	}
}

func (c Contract) validate() error {
	var missing []string
	if strings.TrimSpace(c.TokenPath) == "" {
		missing = append(missing, "token path")
	}
	if strings.TrimSpace(c.ReplyPath) == "" {
		missing = append(missing, "reply path")
	}
	if strings.TrimSpace(c.EmotionPath) == "" {
		missing = append(missing, "emotion path")
	}
	if len(missing) > 0 {
		return fmt.Errorf("contract: %s required", strings.Join(missing, ", "))
	}
	return nil
}

// Reply is the part of a chat response the harness records.
type Reply struct {
	UserEmotion string
	AIResponse  string
}

// Token extracts a non-empty access token from an auth response.
func (c Contract) Token(op string, body []byte) (string, error) {
	value, err := lookup(op, c.TokenPath, body)
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(value.String())
	if token == "" {
		return "", &ContractError{Op: op, Path: c.TokenPath, Reason: "empty token", Body: string(body)}
	}
	return token, nil
}

// Reply extracts the AI reply and the user's classified emotion from a chat response.
func (c Contract) Reply(op string, body []byte) (Reply, error) {
	content, err := lookup(op, c.ReplyPath, body)
	if err != nil {
		return Reply{}, err
	}
	emotion, err := lookup(op, c.EmotionPath, body)
	if err != nil {
		return Reply{}, err
	}
	return Reply{UserEmotion: emotion.String(), AIResponse: content.String()}, nil
}

func lookup(op, path string, body []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, &ContractError{Op: op, Path: path, Reason: "invalid JSON", Body: string(body)}
	}
	result := gjson.GetBytes(body, path)
	if !result.Exists() || result.Type == gjson.Null {
		return gjson.Result{}, &ContractError{Op: op, Path: path, Reason: "missing field", Body: string(body)}
	}
	return result, nil
}
