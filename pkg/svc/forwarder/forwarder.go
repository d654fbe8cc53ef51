// Package forwarder establishes and monitors the configured port-forwards of
// an environment. It drives the port-forward client once per configured
// forward and keeps the resulting tunnels together as a session, so a single
// failure tears the whole set down instead of leaving half the forwards up.
package forwarder

import (
	"context"
	"errors"
	"fmt"

	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
	"github.com/k8s-rollouts/devctl/pkg/client/portforward"
)

// ErrNoForwards is returned when the environment configures no forwards.
var ErrNoForwards = errors.New("no forwards configured")

// ErrTunnelClosed is returned when a tunnel ends without reporting an error,
// e.g. when the target pod goes away.
var ErrTunnelClosed = errors.New("tunnel closed")

// Tunnel is the running half of a forward. *portforward.Tunnel implements it.
type Tunnel interface {
	// Addr returns the local address the tunnel listens on.
	Addr() string

	// Done yields the tunnel's result once it terminates.
	Done() <-chan error

	// Stop terminates the tunnel. Safe to call more than once.
	Stop()
}

// TunnelStarter opens a single port-forward tunnel.
type TunnelStarter interface {
	Start(ctx context.Context, opts portforward.Options) (Tunnel, error)
}

// ClientStarter adapts the port-forward client to the TunnelStarter interface.
type ClientStarter struct {
	Forwarder *portforward.Forwarder
}

// Start opens a tunnel through the underlying client.
func (c ClientStarter) Start(ctx context.Context, opts portforward.Options) (Tunnel, error) {
	tunnel, err := c.Forwarder.Start(ctx, opts)
	if err != nil {
		return nil, err //nolint:wrapcheck // the client wraps with pod and namespace context
	}

	return tunnel, nil
}

// Service establishes the configured forwards of an environment.
type Service struct {
	starter TunnelStarter
}

// NewService creates a forward service over the given tunnel starter.
func NewService(starter TunnelStarter) *Service {
	return &Service{starter: starter}
}

// NewServiceForKubeconfig creates a forward service backed by a real
// port-forward client. An empty kubeContext selects the current context.
func NewServiceForKubeconfig(kubeconfigPath, kubeContext string) (*Service, error) {
	fwd, err := portforward.NewForwarder(kubeconfigPath, kubeContext)
	if err != nil {
		return nil, fmt.Errorf("failed to create port-forward client: %w", err)
	}

	return NewService(ClientStarter{Forwarder: fwd}), nil
}

// StartAll establishes every configured forward in order. When one fails,
// the forwards already established are stopped before the error is returned.
func (s *Service) StartAll(
	ctx context.Context,
	specs []v1alpha1.ForwardSpec,
) (*Session, error) {
	if len(specs) == 0 {
		return nil, ErrNoForwards
	}

	session := &Session{}

	for _, spec := range specs {
		tunnel, err := s.starter.Start(ctx, portforward.Options{
			Namespace:  spec.Namespace,
			Selector:   spec.Selector,
			LocalPort:  int(spec.LocalPort),
			RemotePort: int(spec.RemotePort),
		})
		if err != nil {
			session.Close()

			return nil, fmt.Errorf("failed to establish forward %q: %w", spec.Name, err)
		}

		session.forwards = append(session.forwards, Forward{Spec: spec, Tunnel: tunnel})
	}

	return session, nil
}
