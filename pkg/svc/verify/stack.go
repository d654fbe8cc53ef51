package verify

import (
	"context"
	"fmt"
	"strings"

	"github.com/k8s-rollouts/devctl/pkg/svc/installer"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

const stackSuiteName = "stack"

// argoGroupVersion is the API group/version registered by the Argo CRDs.
const argoGroupVersion = "argoproj.io/v1alpha1"

// requiredArgoResources are the CRD-backed resources the demo depends on.
func requiredArgoResources() []string {
	return []string{"rollouts", "analysistemplates", "applications"}
}

// StackSuite checks the installed component stack: workload availability per
// component and the CRDs the demo depends on.
type StackSuite struct {
	client     kubernetes.Interface
	components []installer.Component
}

// NewStackSuite creates the stack suite for the given components.
func NewStackSuite(client kubernetes.Interface, components []installer.Component) *StackSuite {
	return &StackSuite{client: client, components: components}
}

// Name implements Suite.
func (s *StackSuite) Name() string { return stackSuiteName }

// Run implements Suite.
func (s *StackSuite) Run(ctx context.Context) []Result {
	results := make([]Result, 0, len(s.components)+1)

	for _, component := range s.components {
		results = append(results, s.checkComponent(ctx, component))
	}

	results = append(results, s.checkArgoCRDs())

	return results
}

// checkComponent verifies every readiness deployment of a component has at
// least one available replica.
func (s *StackSuite) checkComponent(ctx context.Context, component installer.Component) Result {
	name := component.Name + "-available"

	var unavailable []string

	for _, check := range component.Readiness {
		if check.Type != "deployment" {
			continue
		}

		deployment, err := s.client.AppsV1().
			Deployments(check.Namespace).
			Get(ctx, check.Name, metav1.GetOptions{})
		if err != nil {
			unavailable = append(unavailable, fmt.Sprintf("%s (%v)", check.Name, err))

			continue
		}

		if deployment.Status.AvailableReplicas == 0 {
			unavailable = append(unavailable, check.Name+" (0 available)")
		}
	}

	if len(unavailable) > 0 {
		return fail(stackSuiteName, name, "%s", strings.Join(unavailable, ", "))
	}

	return pass(stackSuiteName, name)
}

// checkArgoCRDs verifies the Argo CRDs are registered with the API server via
// discovery, which works for any CRD without needing the apiextensions client.
func (s *StackSuite) checkArgoCRDs() Result {
	const name = "argo-crds-registered"

	resourceList, err := s.client.Discovery().ServerResourcesForGroupVersion(argoGroupVersion)
	if err != nil {
		return fail(stackSuiteName, name, "%s not registered: %v", argoGroupVersion, err)
	}

	registered := make(map[string]bool, len(resourceList.APIResources))
	for _, resource := range resourceList.APIResources {
		registered[resource.Name] = true
	}

	var missing []string

	for _, required := range requiredArgoResources() {
		if !registered[required] {
			missing = append(missing, required)
		}
	}

	if len(missing) > 0 {
		return fail(stackSuiteName, name, "missing resources: %s", strings.Join(missing, ", "))
	}

	return pass(stackSuiteName, name)
}
