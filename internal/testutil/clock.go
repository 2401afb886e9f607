package testutil

import (
	"context"
	"sync"
	"time"
)

// FakeClock is a manual clock whose Sleep records the delay and advances
// time instead of blocking.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	delays []time.Duration
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Sleep matches target.SleepFunc. It returns ctx.Err() so cancellation
// still ends a run.
func (c *FakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	c.delays = append(c.delays, d)
	c.now = c.now.Add(d)
	c.mu.Unlock()
	return ctx.Err()
}

// Delays returns every requested sleep in order.
func (c *FakeClock) Delays() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.delays...)
}

// Count reports how many sleeps of exactly d were requested.
func (c *FakeClock) Count(d time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, delay := range c.delays {
		if delay == d {
			n++
		}
	}
	return n
}
