package forwarder

import (
	"context"
	"fmt"

	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
)

// Forward pairs a configured forward with its running tunnel.
type Forward struct {
	Spec   v1alpha1.ForwardSpec
	Tunnel Tunnel
}

// Session is a set of established tunnels that live and die together.
type Session struct {
	forwards []Forward
}

// Forwards returns the established forwards in configuration order.
func (s *Session) Forwards() []Forward {
	return s.forwards
}

// Wait blocks until the context ends or any tunnel terminates, then stops
// every tunnel in the session. A context cancellation passes through so the
// caller can tell a requested shutdown from a failed forward.
func (s *Session) Wait(ctx context.Context) error {
	failed := make(chan error, len(s.forwards))

	for _, fwd := range s.forwards {
		go func() {
			err := <-fwd.Tunnel.Done()
			if err != nil {
				failed <- fmt.Errorf("forward %q terminated: %w", fwd.Spec.Name, err)

				return
			}

			failed <- fmt.Errorf("%w: %s", ErrTunnelClosed, fwd.Spec.Name)
		}()
	}

	var result error

	select {
	case <-ctx.Done():
		result = ctx.Err()
	case err := <-failed:
		result = err
	}

	s.Close()

	return result
}

// Close stops every tunnel in the session. Safe to call more than once.
func (s *Session) Close() {
	for _, fwd := range s.forwards {
		fwd.Tunnel.Stop()
	}
}
