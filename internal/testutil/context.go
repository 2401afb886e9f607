// Package testutil holds helpers shared by the runner and CLI tests.
package testutil

import (
	"context"
	"testing"
	"time"
)

// DefaultTimeout bounds a single test run against an in-memory target.
const DefaultTimeout = 5 * time.Second

// Context returns a context that expires before the test deadline and is
// cancelled when the test ends.
func Context(t testing.TB, timeout time.Duration) context.Context {
	t.Helper()
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if dt, ok := t.(interface{ Deadline() (time.Time, bool) }); ok {
		if deadline, ok := dt.Deadline(); ok {
			if remaining := time.Until(deadline) - time.Second; remaining > 0 && remaining < timeout {
				timeout = remaining
			}
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}
