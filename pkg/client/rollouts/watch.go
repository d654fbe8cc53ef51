package rollouts

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrWatchTimeout indicates the rollout did not reach a terminal phase
// before the watch deadline.
var ErrWatchTimeout = errors.New("timeout watching rollout")

// Watch defaults.
const (
	DefaultWatchInterval = 2 * time.Second
	DefaultWatchTimeout  = 5 * time.Minute
)

// WatchOptions configures the Watch poll loop. Zero values select the
// defaults.
type WatchOptions struct {
	Interval time.Duration
	Timeout  time.Duration
}

// Watch polls the rollout and hands each observed status to observe until
// the rollout reaches a terminal phase or the timeout expires. The last
// observed status is returned either way.
func (c *Client) Watch(
	ctx context.Context,
	name string,
	opts WatchOptions,
	observe func(Status),
) (Status, error) {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultWatchInterval
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultWatchTimeout
	}

	watchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last Status

	for {
		status, err := c.Status(watchCtx, name)
		if err != nil {
			return last, err
		}

		last = status

		if observe != nil {
			observe(status)
		}

		if status.Terminal() {
			return status, nil
		}

		select {
		case <-watchCtx.Done():
			if errors.Is(watchCtx.Err(), context.DeadlineExceeded) {
				return last, fmt.Errorf("%w: %s", ErrWatchTimeout, name)
			}

			//nolint:wrapcheck // context cancellation passes through untouched
			return last, watchCtx.Err()
		case <-ticker.C:
		}
	}
}
