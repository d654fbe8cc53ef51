package installer

import (
	"context"
	"fmt"
	"time"

	"github.com/k8s-rollouts/devctl/pkg/k8s"
	"github.com/k8s-rollouts/devctl/pkg/k8s/readiness"
	"k8s.io/client-go/kubernetes"
)

// WaitForResourceReadiness waits for multiple Kubernetes resources to become ready.
func WaitForResourceReadiness(
	ctx context.Context,
	kubeconfig, context string,
	checks []readiness.Check,
	timeout time.Duration,
	componentName string,
) error {
	restConfig, err := k8s.BuildRESTConfig(kubeconfig, context)
	if err != nil {
		return fmt.Errorf("build kubernetes client config: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return fmt.Errorf("create kubernetes client: %w", err)
	}

	return waitWithDiagnostics(ctx, clientset, checks, timeout, componentName)
}

// waitWithDiagnostics awaits the checks and, on failure, appends a summary of
// failing pods in the checked namespaces so a timeout error names the actual
// broken workload instead of just the deadline.
func waitWithDiagnostics(
	ctx context.Context,
	clientset kubernetes.Interface,
	checks []readiness.Check,
	timeout time.Duration,
	componentName string,
) error {
	err := readiness.WaitForMultipleResources(ctx, clientset, checks, timeout)
	if err == nil {
		return nil
	}

	diagnosis := k8s.DiagnosePodFailures(ctx, clientset, checkNamespaces(checks))

	return fmt.Errorf("wait for %s components: %w%s", componentName, err, diagnosis)
}

// checkNamespaces returns the unique namespaces of the checks in first-seen order.
func checkNamespaces(checks []readiness.Check) []string {
	seen := make(map[string]struct{})

	var namespaces []string

	for _, check := range checks {
		if check.Namespace == "" {
			continue
		}

		if _, ok := seen[check.Namespace]; ok {
			continue
		}

		seen[check.Namespace] = struct{}{}
		namespaces = append(namespaces, check.Namespace)
	}

	return namespaces
}
