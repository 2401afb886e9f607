package target

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"convcompare/internal/spec"
)

// Session is an authenticated throwaway account.
type Session struct {
	LoginID string
	Token   string
}

// Provisioner creates a fresh account per call so every scenario starts
// with an empty conversation history.
type Provisioner struct {
	client *Client
	auth   spec.AuthConfig
	now    func() time.Time
	suffix func() string
}

// ProvisionerOption customizes a Provisioner.
type ProvisionerOption func(*Provisioner)

// WithClock overrides the clock used for login ids and phone numbers.
func WithClock(now func() time.Time) ProvisionerOption {
	return func(p *Provisioner) {
		if now != nil {
			p.now = now
		}
	}
}

// WithSuffix overrides the random login id suffix.
func WithSuffix(suffix func() string) ProvisionerOption {
	return func(p *Provisioner) {
		if suffix != nil {
			p.suffix = suffix
		}
	}
}

// NewProvisioner builds a Provisioner for the given auth settings.
func NewProvisioner(client *Client, auth spec.AuthConfig, opts ...ProvisionerOption) *Provisioner {
	p := &Provisioner{
		client: client,
		auth:   auth,
		now:    time.Now,
		suffix: randomSuffix,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// NewIdentity generates signup details. Login ids combine the unix time with
// a random suffix so two sessions in the same second stay distinct.
func (p *Provisioner) NewIdentity() SignupRequest {
	now := p.now()
	return SignupRequest{
		LoginID:     fmt.Sprintf("%s_%d_%s", p.auth.LoginPrefix, now.Unix(), p.suffix()),
		Password:    p.auth.Password,
		Name:        p.auth.Name,
		PhoneNumber: fmt.Sprintf("010%08d", now.UnixMilli()%100000000),
	}
}

// Provision signs up a new account and returns its bearer token, either read
// from the signup reply or obtained from a follow-up login.
func (p *Provisioner) Provision(ctx context.Context) (Session, error) {
	identity := p.NewIdentity()
	logger := p.client.logger.With().Str("login_id", identity.LoginID).Logger()
	logger.Debug().Msg("creating test account")

	body, err := p.client.Signup(ctx, identity)
	if err != nil {
		return Session{}, fmt.Errorf("provision %s: %w", identity.LoginID, err)
	}
	op := "signup"
	if p.auth.Mode == spec.AuthModeSignupLogin {
		op = "login"
		body, err = p.client.Login(ctx, LoginRequest{LoginID: identity.LoginID, Password: identity.Password})
		if err != nil {
			return Session{}, fmt.Errorf("provision %s: %w", identity.LoginID, err)
		}
	}
	token, err := p.client.contract.Token(op, body)
	if err != nil {
		return Session{}, fmt.Errorf("provision %s: %w", identity.LoginID, err)
	}
	logger.Debug().Str("token", MaskToken(token)).Msg("session ready")
	return Session{LoginID: identity.LoginID, Token: token}, nil
}

// MaskToken keeps a short prefix of a token for display.
func MaskToken(token string) string {
	const keep = 20
	if len(token) <= keep {
		return token
	}
	return token[:keep] + "..."
}
