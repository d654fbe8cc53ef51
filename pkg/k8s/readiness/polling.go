package readiness

import (
	"context"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

// pollInterval is the interval between readiness checks.
const pollInterval = 2 * time.Second

// PollForReadiness polls the given check function until it reports ready,
// returns an error, or the deadline is exceeded.
//
// The check runs immediately and then every poll interval. A check returning
// (true, nil) stops polling with success. A check returning a non-nil error
// aborts polling and the error is propagated. Checks that want to keep
// polling through transient failures should swallow the error and return
// (false, nil) instead.
//
// Returns an error wrapping ErrTimeoutExceeded when the deadline passes or
// the context is cancelled before the check succeeds.
func PollForReadiness(
	ctx context.Context,
	deadline time.Duration,
	check func(ctx context.Context) (bool, error),
) error {
	err := wait.PollUntilContextTimeout(ctx, pollInterval, deadline, true, check)
	if err != nil {
		if wait.Interrupted(err) {
			return fmt.Errorf("failed to poll for readiness: %w", ErrTimeoutExceeded)
		}

		return fmt.Errorf("failed to poll for readiness: %w", err)
	}

	return nil
}
