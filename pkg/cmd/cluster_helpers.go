package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
	"github.com/k8s-rollouts/devctl/pkg/k8s"
	"github.com/k8s-rollouts/devctl/pkg/k8s/readiness"
	"github.com/k8s-rollouts/devctl/pkg/utils/notify"
)

const (
	// defaultReadinessTimeout bounds the post-provisioning waits when no
	// connection timeout is configured.
	defaultReadinessTimeout = 5 * time.Minute

	// stableSuccesses is the number of consecutive API server responses
	// required before the cluster counts as stable. Right after provisioning
	// the API server may answer once and then drop connections while control
	// plane components restart.
	stableSuccesses = 3
)

// ReadinessTimeout returns the configured connection timeout, falling back to
// the default when unset.
func ReadinessTimeout(env *v1alpha1.Environment) time.Duration {
	if env != nil && env.Spec.Connection.Timeout.Duration > 0 {
		return env.Spec.Connection.Timeout.Duration
	}

	return defaultReadinessTimeout
}

// WaitForClusterReady blocks until the cluster's API server answers
// consistently and at least one node reports Ready. It is called after
// provisioning so the component stack installs against a usable cluster.
func WaitForClusterReady(
	ctx context.Context,
	env *v1alpha1.Environment,
	writer io.Writer,
) error {
	clientset, err := k8s.NewClientset(
		env.Spec.Connection.Kubeconfig,
		env.Spec.Connection.Context,
	)
	if err != nil {
		return fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	timeout := ReadinessTimeout(env)

	notify.Activityf(writer, "waiting for the API server to become ready")

	err = readiness.WaitForAPIServerReady(ctx, clientset, timeout)
	if err != nil {
		return fmt.Errorf("API server did not become ready: %w", err)
	}

	err = readiness.WaitForAPIServerStable(ctx, clientset, timeout, stableSuccesses)
	if err != nil {
		return fmt.Errorf("API server did not stabilize: %w", err)
	}

	notify.Activityf(writer, "waiting for a node to report Ready")

	err = readiness.WaitForNodeReady(ctx, clientset, timeout)
	if err != nil {
		return fmt.Errorf("no node became ready: %w", err)
	}

	return nil
}
