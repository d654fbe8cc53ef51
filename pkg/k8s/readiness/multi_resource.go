package readiness

import (
	"context"
	"fmt"
	"time"

	"k8s.io/client-go/kubernetes"
)

// Check identifies a single workload whose readiness should be awaited.
// Type is either "deployment" or "daemonset".
type Check struct {
	Type      string
	Namespace string
	Name      string
}

// WaitForMultipleResources waits for every check in order, sharing the same
// deadline per resource. The first resource that fails to become ready aborts
// the wait and its error is returned.
func WaitForMultipleResources(
	ctx context.Context,
	clientset kubernetes.Interface,
	checks []Check,
	deadline time.Duration,
) error {
	for _, check := range checks {
		var err error

		switch check.Type {
		case "deployment":
			err = WaitForDeploymentReady(ctx, clientset, check.Namespace, check.Name, deadline)
		case "daemonset":
			err = WaitForDaemonSetReady(ctx, clientset, check.Namespace, check.Name, deadline)
		default:
			err = fmt.Errorf("%w: %q", errUnknownResourceType, check.Type)
		}

		if err != nil {
			return fmt.Errorf("wait for %s %s/%s: %w", check.Type, check.Namespace, check.Name, err)
		}
	}

	return nil
}
