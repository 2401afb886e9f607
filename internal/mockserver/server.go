// Package mockserver implements a stand-in for the chat server under test:
// health, signup, login, and a conversation endpoint with canned replies.
package mockserver

import (
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// Reply field names the mock can emit for the AI message object.
const (
	ReplyFieldAIResponse = "aiResponse"
	ReplyFieldAIMessage  = "aiMessage"
)

// Responder produces the AI reply for a message given the session's earlier messages.
type Responder func(history []string, message string) string

// Options configures the mock server.
type Options struct {
	// ReplyField is the key of the AI message object inside data.
	ReplyField string
	// RequireLogin omits the token from signup replies so clients must log in.
	RequireLogin bool
	// Responder overrides the canned replies.
	Responder Responder
	// FailOn maps a message substring to an HTTP status returned for it.
	FailOn map[string]int
	// Unhealthy makes the health endpoint return 503.
	Unhealthy bool
	Logger    zerolog.Logger
}

type account struct {
	loginID  string
	password string
	name     string
}

// Server is an in-memory chat server. It is safe for concurrent use.
type Server struct {
	opts Options
	echo *echo.Echo

	mu       sync.Mutex
	accounts map[string]account
	tokens   map[string]string
	history  map[string][]string
	signups  int
}

// New builds a Server with its routes registered.
func New(opts Options) *Server {
	if opts.ReplyField == "" {
		opts.ReplyField = ReplyFieldAIResponse
	}
	if opts.Responder == nil {
		opts.Responder = CannedReply
	}
	s := &Server{
		opts:     opts,
		accounts: map[string]account{},
		tokens:   map[string]string{},
		history:  map[string][]string{},
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			opts.Logger.Debug().Str("method", v.Method).Str("uri", v.URI).Int("status", v.Status).Msg("request")
			return nil
		},
	}))
	s.RegisterRoutes(e)
	s.echo = e
	return s
}

// Handler exposes the server for httptest or http.Server.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until the server is shut down.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// RegisterRoutes registers the target endpoints.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/actuator/health", s.Health)
	e.POST("/api/auth/signup", s.Signup)
	e.POST("/api/auth/login", s.Login)
	e.POST("/api/conversations/messages", s.PostMessage)
}

// Signups returns how many accounts were created.
func (s *Server) Signups() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.signups
}

// History returns the messages received for an account, in arrival order.
func (s *Server) History(loginID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, owner := range s.tokens {
		if owner == loginID {
			return append([]string(nil), s.history[token]...)
		}
	}
	return nil
}

// Health reports server status.
// GET /actuator/health
func (s *Server) Health(c echo.Context) error {
	if s.opts.Unhealthy {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "DOWN"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "UP"})
}

type signupRequest struct {
	LoginID     string `json:"loginId"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
}

// Signup creates an account.
// POST /api/auth/signup
func (s *Server) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.LoginID) == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "loginId and password are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[req.LoginID]; exists {
		return fail(c, http.StatusConflict, "loginId already exists")
	}
	s.accounts[req.LoginID] = account{loginID: req.LoginID, password: req.Password, name: req.Name}
	s.signups++

	data := map[string]any{"loginId": req.LoginID, "name": req.Name}
	if !s.opts.RequireLogin {
		data["accessToken"] = s.issueTokenLocked(req.LoginID)
	}
	return ok(c, data)
}

type loginRequest struct {
	LoginID  string `json:"loginId"`
	Password string `json:"password"`
}

// Login issues a token for an existing account.
// POST /api/auth/login
func (s *Server) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, exists := s.accounts[req.LoginID]
	if !exists || acct.password != req.Password {
		return fail(c, http.StatusUnauthorized, "invalid credentials")
	}
	return ok(c, map[string]any{"accessToken": s.issueTokenLocked(req.LoginID)})
}

type messageRequest struct {
	Content string `json:"content"`
}

// PostMessage records a user message and answers it.
// POST /api/conversations/messages
func (s *Server) PostMessage(c echo.Context) error {
	token := strings.TrimSpace(strings.TrimPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer "))
	var req messageRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Content) == "" {
		return fail(c, http.StatusBadRequest, "content is required")
	}
	for needle, status := range s.opts.FailOn {
		if needle != "" && strings.Contains(req.Content, needle) {
			return fail(c, status, "injected failure")
		}
	}

	s.mu.Lock()
	if _, known := s.tokens[token]; !known {
		s.mu.Unlock()
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	prior := append([]string(nil), s.history[token]...)
	s.history[token] = append(s.history[token], req.Content)
	s.mu.Unlock()

	reply := s.opts.Responder(prior, req.Content)
	return ok(c, map[string]any{
		"userMessage": map[string]any{
			"content": req.Content,
			"type":    "USER_MESSAGE",
			"emotion": ClassifyEmotion(req.Content),
		},
		s.opts.ReplyField: map[string]any{
			"content": reply,
			"type":    "AI_RESPONSE",
		},
	})
}

func (s *Server) issueTokenLocked(loginID string) string {
	token := "mock." + uuid.NewString()
	s.tokens[token] = loginID
	return token
}

func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": data})
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]any{"success": false, "message": message})
}
