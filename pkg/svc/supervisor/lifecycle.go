package supervisor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"
)

// Stop terminates a supervised process and removes its state.
// The whole process group receives SIGTERM, then SIGKILL if it is still
// alive after the grace period. Stale state for an already-dead process is
// removed and reported as ErrProcessNotFound.
func (s *Supervisor) Stop(ctx context.Context, name string) error {
	state, err := s.Load(name)
	if err != nil {
		return err
	}

	if !isAlive(state.PID) {
		_ = os.Remove(s.statePath(name))

		return fmt.Errorf("%w: %s (pid %d is not running)", ErrProcessNotFound, name, state.PID)
	}

	// Setpgid at start makes the pgid equal the pid, so the negative pid
	// addresses the process and everything it spawned.
	err = killGroup(state.PID, syscall.SIGTERM)
	if err != nil && !errors.Is(err, syscall.ESRCH) {
		return fmt.Errorf("failed to signal process %s (pid %d): %w", name, state.PID, err)
	}

	err = s.awaitExit(ctx, state.PID)
	if err != nil {
		_ = killGroup(state.PID, syscall.SIGKILL)

		err = s.awaitExit(ctx, state.PID)
		if err != nil {
			return fmt.Errorf("failed to stop process %s (pid %d): %w", name, state.PID, err)
		}
	}

	err = os.Remove(s.statePath(name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove process state for %s: %w", name, err)
	}

	return nil
}

// StopAll stops every supervised process of the cluster, continuing past
// individual failures. Processes that are already gone are not errors.
func (s *Supervisor) StopAll(ctx context.Context) error {
	statuses, err := s.Status()
	if err != nil {
		return err
	}

	var errs []error

	for _, status := range statuses {
		err = s.Stop(ctx, status.Name)
		if err != nil && !errors.Is(err, ErrProcessNotFound) {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// awaitExit polls until the process group leader is gone, the grace period
// elapses, or the context is cancelled.
func (s *Supervisor) awaitExit(ctx context.Context, pid int) error {
	deadline := time.Now().Add(s.stopGrace)

	for time.Now().Before(deadline) {
		if !isAlive(pid) {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err() //nolint:wrapcheck // context cancellation passes through untouched
		case <-time.After(pollInterval):
		}
	}

	if !isAlive(pid) {
		return nil
	}

	return fmt.Errorf("process %d still running after %s", pid, s.stopGrace)
}

// isAlive reports whether a pid refers to a running process using a null
// signal. EPERM still means the process exists.
func isAlive(pid int) bool {
	if pid <= 0 {
		return false
	}

	err := syscall.Kill(pid, syscall.Signal(0))

	return err == nil || errors.Is(err, syscall.EPERM)
}

// killGroup signals the process group rooted at pid.
func killGroup(pid int, sig syscall.Signal) error {
	return syscall.Kill(-pid, sig) //nolint:wrapcheck // callers add process context
}
