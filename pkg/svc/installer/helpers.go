package installer

import (
	"time"

	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
)

const (
	// DefaultInstallTimeout is the default timeout (5 minutes) for component installation.
	DefaultInstallTimeout = 5 * time.Minute
	// KubePrometheusStackInstallTimeout is the timeout (10 minutes) for
	// kube-prometheus-stack installation. The chart ships CRDs, the operator,
	// Grafana, and the exporters, which take longer than other components to
	// become ready on a fresh cluster.
	KubePrometheusStackInstallTimeout = 10 * time.Minute
)

// GetInstallTimeout determines the timeout for component installation.
// Uses the connection timeout if configured, otherwise DefaultInstallTimeout.
//
// Returns DefaultInstallTimeout if env is nil.
func GetInstallTimeout(env *v1alpha1.Environment) time.Duration {
	if env == nil {
		return DefaultInstallTimeout
	}

	// Use explicit timeout if configured
	if env.Spec.Connection.Timeout.Duration > 0 {
		return env.Spec.Connection.Timeout.Duration
	}

	return DefaultInstallTimeout
}

// MaxTimeout returns the larger of the two durations. Components with slow
// startup use it to raise the configured timeout to their own floor.
func MaxTimeout(configured, floor time.Duration) time.Duration {
	if configured > floor {
		return configured
	}

	return floor
}
