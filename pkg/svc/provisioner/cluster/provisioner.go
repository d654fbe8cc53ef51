package clusterprovisioner

import (
	"context"

	"github.com/k8s-rollouts/devctl/pkg/svc/provider"
)

// ClusterProvisioner defines methods for managing local Kubernetes clusters.
// Provisioners handle tool-specific operations (bootstrapping, configuration)
// while delegating container-level operations to a Provider where the tool
// has no lifecycle command of its own.
type ClusterProvisioner interface {
	// Create creates a Kubernetes cluster. If name is non-empty, target that name; otherwise use config defaults.
	// Returns an error wrapping provider.ErrSkipAction when the cluster is already up.
	Create(ctx context.Context, name string) error

	// Delete deletes a Kubernetes cluster by name or config default when name is empty.
	Delete(ctx context.Context, name string) error

	// Start starts a Kubernetes cluster by name or config default when name is empty.
	Start(ctx context.Context, name string) error

	// Stop stops a Kubernetes cluster by name or config default when name is empty.
	Stop(ctx context.Context, name string) error

	// List lists all Kubernetes clusters.
	List(ctx context.Context) ([]string, error)

	// Exists checks if a Kubernetes cluster exists by name or config default when name is empty.
	Exists(ctx context.Context, name string) (bool, error)
}

// ProviderAware is an optional interface for provisioners that can use a provider
// for infrastructure operations (start/stop nodes).
type ProviderAware interface {
	// SetProvider sets the infrastructure provider for node operations.
	SetProvider(p provider.Provider)
}

// StateReporter is an optional interface for provisioners that can report the
// coarse lifecycle state of a cluster (Running, Stopped, Nonexistent).
type StateReporter interface {
	// State returns the lifecycle state of the cluster by name or config default when name is empty.
	State(ctx context.Context, name string) (string, error)
}
