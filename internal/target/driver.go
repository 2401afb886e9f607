package target

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"convcompare/internal/spec"
)

// Driver sends chat turns on behalf of one session.
type Driver struct {
	client    *Client
	session   Session
	sleep     SleepFunc
	turnDelay time.Duration
	logger    zerolog.Logger
}

// NewDriver binds a client to a session. A nil sleep uses Sleep.
func NewDriver(client *Client, session Session, turnDelay time.Duration, sleep SleepFunc) *Driver {
	if sleep == nil {
		sleep = Sleep
	}
	return &Driver{
		client:    client,
		session:   session,
		sleep:     sleep,
		turnDelay: turnDelay,
		logger:    client.logger.With().Str("login_id", session.LoginID).Logger(),
	}
}

// Send posts one message and extracts the reply through the contract.
func (d *Driver) Send(ctx context.Context, text string) (Reply, error) {
	body, err := d.client.PostMessage(ctx, d.session.Token, text)
	if err != nil {
		return Reply{}, err
	}
	return d.client.contract.Reply("send message", body)
}

// TurnOutcome describes what happened to one context turn.
type TurnOutcome struct {
	Index   int
	Turn    spec.Turn
	Reply   Reply
	Err     error
	Skipped bool
}

// BuildContext replays prior turns in order. Non-user turns are skipped and
// failed turns are logged and passed over; neither stops the replay. The
// context delay follows every turn that was sent. Only cancellation of ctx
// returns an error.
func (d *Driver) BuildContext(ctx context.Context, turns []spec.Turn, observe func(TurnOutcome)) error {
	for i, turn := range turns {
		outcome := TurnOutcome{Index: i + 1, Turn: turn}
		if turn.Role != spec.RoleUser {
			outcome.Skipped = true
			d.logger.Warn().Int("turn", outcome.Index).Str("role", turn.Role).Msg("skipping non-user context turn")
			notify(observe, outcome)
			continue
		}

		reply, err := d.Send(ctx, turn.Message)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return fmt.Errorf("build context: %w", ctxErr)
			}
			outcome.Err = err
			d.logger.Warn().Int("turn", outcome.Index).Err(err).Msg("context turn failed")
		} else {
			outcome.Reply = reply
			d.logger.Debug().Int("turn", outcome.Index).Str("user", turn.Message).Str("ai", reply.AIResponse).Msg("context turn")
		}
		notify(observe, outcome)

		if err := d.sleep(ctx, d.turnDelay); err != nil {
			return fmt.Errorf("build context: %w", err)
		}
	}
	return nil
}

func notify(observe func(TurnOutcome), outcome TurnOutcome) {
	if observe != nil {
		observe(outcome)
	}
}
