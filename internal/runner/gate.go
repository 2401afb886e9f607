package runner

import (
	"context"

	"convcompare/internal/spec"
)

// Gate blocks between configurations until the operator has switched the
// server to next. A non-nil error aborts the run.
type Gate interface {
	Wait(ctx context.Context, next spec.Configuration) error
}

// GateFunc adapts a function to Gate.
type GateFunc func(ctx context.Context, next spec.Configuration) error

// Wait calls f.
func (f GateFunc) Wait(ctx context.Context, next spec.Configuration) error {
	return f(ctx, next)
}

// ReadyGate never blocks. It is used for unattended runs and tests.
type ReadyGate struct{}

// Wait returns ctx.Err().
func (ReadyGate) Wait(ctx context.Context, _ spec.Configuration) error {
	return ctx.Err()
}
