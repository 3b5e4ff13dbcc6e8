package resource

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Config holds resource limits.
type Config struct {
	// MaxConcurrent is the maximum number of tasks in flight.
	// If 0, defaults to runtime.GOMAXPROCS(0).
	MaxConcurrent int64
}

// Controller limits concurrent tasks and tracks usage.
type Controller struct {
	cfg Config

	sem      *semaphore.Weighted
	inFlight atomic.Int64
	peak     atomic.Int64
	total    atomic.Int64
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = int64(runtime.GOMAXPROCS(0))
	}

	return &Controller{
		cfg: cfg,
		sem: semaphore.NewWeighted(cfg.MaxConcurrent),
	}
}

// Acquire reserves a task slot. Blocks until a slot is free or ctx is done.
func (c *Controller) Acquire(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	c.started()
	return nil
}

func (c *Controller) started() {
	n := c.inFlight.Add(1)
	c.total.Add(1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			return
		}
	}
}

// Release releases a task slot.
func (c *Controller) Release() {
	if c == nil {
		return
	}
	c.inFlight.Add(-1)
	c.sem.Release(1)
}

// InFlight returns the number of tasks currently holding a slot.
func (c *Controller) InFlight() int64 {
	if c == nil {
		return 0
	}
	return c.inFlight.Load()
}

// Peak returns the largest number of simultaneous tasks observed.
func (c *Controller) Peak() int64 {
	if c == nil {
		return 0
	}
	return c.peak.Load()
}

// Total returns the number of slots handed out so far.
func (c *Controller) Total() int64 {
	if c == nil {
		return 0
	}
	return c.total.Load()
}

// Limit returns the configured concurrency limit.
func (c *Controller) Limit() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MaxConcurrent
}
