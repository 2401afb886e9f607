package target

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"convcompare/internal/spec"
)

// HTTPDoer abstracts HTTP clients used to reach the target server.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configures a Client.
type Options struct {
	BaseURL   string
	Endpoints spec.EndpointConfig
	Timeouts  spec.TimeoutConfig
	Contract  Contract
	HTTP      HTTPDoer
	Logger    zerolog.Logger
}

// Client talks to the chat server under test. Every call runs under its own
// timeout derived from the caller's context.
type Client struct {
	baseURL   string
	endpoints spec.EndpointConfig
	timeouts  spec.TimeoutConfig
	contract  Contract
	http      HTTPDoer
	logger    zerolog.Logger
}

// NewClient validates options and constructs a Client.
func NewClient(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if err := opts.Contract.validate(); err != nil {
		return nil, err
	}
	client := opts.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		baseURL:   baseURL,
		endpoints: opts.Endpoints,
		timeouts:  opts.Timeouts,
		contract:  opts.Contract,
		http:      client,
		logger:    opts.Logger,
	}, nil
}

// BaseURL returns the normalized server URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Contract returns the response paths the client reads.
func (c *Client) Contract() Contract {
	return c.contract
}

// Health checks the server is up. Only HTTP 200 counts as healthy.
func (c *Client) Health(ctx context.Context) error {
	body, status, err := c.do(ctx, "health", http.MethodGet, c.endpoints.Health, "", nil, c.timeouts.Health)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return &StatusError{Op: "health", Code: status, Body: string(body)}
	}
	return nil
}

// SignupRequest is the payload for account creation.
type SignupRequest struct {
	LoginID     string `json:"loginId"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
}

// LoginRequest is the payload for password login.
type LoginRequest struct {
	LoginID  string `json:"loginId"`
	Password string `json:"password"`
}

// MessageRequest is the payload for one chat turn.
type MessageRequest struct {
	Content string `json:"content"`
}

// Signup creates an account and returns the raw response body.
func (c *Client) Signup(ctx context.Context, req SignupRequest) ([]byte, error) {
	return c.postJSON(ctx, "signup", c.endpoints.Signup, "", req, c.timeouts.Auth)
}

// Login authenticates an account and returns the raw response body.
func (c *Client) Login(ctx context.Context, req LoginRequest) ([]byte, error) {
	return c.postJSON(ctx, "login", c.endpoints.Login, "", req, c.timeouts.Auth)
}

// PostMessage sends one chat turn as the bearer of token and returns the raw response body.
func (c *Client) PostMessage(ctx context.Context, token, content string) ([]byte, error) {
	return c.postJSON(ctx, "send message", c.endpoints.Messages, token, MessageRequest{Content: content}, c.timeouts.Chat)
}

func (c *Client) postJSON(ctx context.Context, op, path, token string, payload any, timeout time.Duration) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal request: %w", op, err)
	}
	body, status, err := c.do(ctx, op, http.MethodPost, path, token, encoded, timeout)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &StatusError{Op: op, Code: status, Body: string(body)}
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, op, method, path, token string, payload []byte, timeout time.Duration) ([]byte, int, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	endpoint := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: create request: %w", op, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug().Str("op", op).Str("url", endpoint).Err(err).Msg("request failed")
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%s: read response: %w", op, err)
	}
	c.logger.Debug().
		Str("op", op).
		Str("url", endpoint).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("request done")
	return body, resp.StatusCode, nil
}
