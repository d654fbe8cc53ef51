package installer_test

import (
	"context"
	"testing"
	"time"

	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
	"github.com/k8s-rollouts/devctl/pkg/client/helm"
	"github.com/k8s-rollouts/devctl/pkg/svc/installer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestFactory(mockClient *helm.MockInterface) *installer.Factory {
	return installer.NewFactory(
		func() (helm.Interface, error) { return mockClient, nil },
		5*time.Minute,
	)
}

func newTestEnvironment() *v1alpha1.Environment {
	env := v1alpha1.NewEnvironment()
	env.Spec.Observability.Namespace = "monitoring"
	env.Spec.Observability.PrometheusHost = "prometheus.local"
	env.Spec.Observability.GrafanaHost = "grafana.local"
	env.Spec.Observability.GrafanaAdminPassword = "admin"

	return env
}

func TestFactory_Components_NilEnvironment(t *testing.T) {
	t.Parallel()

	factory := newTestFactory(helm.NewMockInterface())

	_, err := factory.Components(nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "environment config is nil")
}

func TestFactory_Components_FullStack(t *testing.T) {
	t.Parallel()

	factory := newTestFactory(helm.NewMockInterface())

	components, err := factory.Components(newTestEnvironment())

	require.NoError(t, err)
	require.Len(t, components, 4)

	names := make([]string, 0, len(components))
	for _, component := range components {
		names = append(names, component.Name)
	}

	assert.Equal(t, []string{
		"argo-cd",
		"kube-prometheus-stack",
		"ingress-nginx",
		"argo-rollouts",
	}, names)
}

func TestFactory_Components_StageOrdering(t *testing.T) {
	t.Parallel()

	factory := newTestFactory(helm.NewMockInterface())

	components, err := factory.Components(newTestEnvironment())
	require.NoError(t, err)

	stages := make(map[string]int, len(components))
	for _, component := range components {
		stages[component.Name] = component.Stage
	}

	assert.Equal(t, 0, stages["argo-cd"])
	assert.Equal(t, 0, stages["kube-prometheus-stack"])
	assert.Equal(t, 0, stages["ingress-nginx"])
	assert.Equal(t, 1, stages["argo-rollouts"], "argo-rollouts needs the ServiceMonitor CRDs")
}

func TestFactory_Components_ReadinessChecks(t *testing.T) {
	t.Parallel()

	factory := newTestFactory(helm.NewMockInterface())

	components, err := factory.Components(newTestEnvironment())
	require.NoError(t, err)

	byName := make(map[string]installer.Component, len(components))
	for _, component := range components {
		byName[component.Name] = component
	}

	argocd := byName["argo-cd"]
	require.Len(t, argocd.Readiness, 4)
	assert.Equal(t, "argocd-server", argocd.Readiness[0].Name)
	assert.Equal(t, "argocd", argocd.Readiness[0].Namespace)

	kps := byName["kube-prometheus-stack"]
	require.Len(t, kps.Readiness, 2)
	assert.Equal(t, "monitoring", kps.Readiness[0].Namespace)

	nginx := byName["ingress-nginx"]
	require.Len(t, nginx.Readiness, 1)
	assert.Equal(t, "ingress-nginx-controller", nginx.Readiness[0].Name)
}

func TestFactory_ComponentsByName_Subset(t *testing.T) {
	t.Parallel()

	factory := newTestFactory(helm.NewMockInterface())

	components, err := factory.ComponentsByName(
		newTestEnvironment(),
		[]string{"ingress-nginx", "argo-cd"},
	)

	require.NoError(t, err)
	require.Len(t, components, 2)
	// Install order is preserved regardless of the order names were given.
	assert.Equal(t, "argo-cd", components[0].Name)
	assert.Equal(t, "ingress-nginx", components[1].Name)
}

func TestFactory_ComponentsByName_UnknownComponent(t *testing.T) {
	t.Parallel()

	factory := newTestFactory(helm.NewMockInterface())

	_, err := factory.ComponentsByName(newTestEnvironment(), []string{"cert-manager"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown component")
	assert.Contains(t, err.Error(), "cert-manager")
	assert.Contains(t, err.Error(), "argo-cd")
}

func TestFactory_ComponentsByName_HelmClientError(t *testing.T) {
	t.Parallel()

	factory := installer.NewFactory(
		func() (helm.Interface, error) { return nil, assert.AnError },
		5*time.Minute,
	)

	_, err := factory.ComponentsByName(newTestEnvironment(), []string{"argo-cd"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create helm client for argo-cd")
}

func TestGetImagesForEnvironment(t *testing.T) {
	t.Parallel()

	mockClient := helm.NewMockInterface()
	mockClient.On("TemplateChart", mock.Anything, mock.Anything).
		Return("image: quay.io/argoproj/argocd:v3.2.1\n", nil)

	factory := newTestFactory(mockClient)

	images, err := factory.GetImagesForEnvironment(context.Background(), newTestEnvironment())

	require.NoError(t, err)
	// Every component templates to the same manifest here; the list dedups.
	assert.Equal(t, []string{"quay.io/argoproj/argocd:v3.2.1"}, images)
}

func TestComponentNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{
		"argo-cd",
		"kube-prometheus-stack",
		"ingress-nginx",
		"argo-rollouts",
	}, installer.ComponentNames())
}
