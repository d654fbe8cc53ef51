package kubeprometheusstackinstaller_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/k8s-rollouts/devctl/pkg/client/helm"
	kubeprometheusstackinstaller "github.com/k8s-rollouts/devctl/pkg/svc/installer/kubeprometheusstack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewInstaller(t *testing.T) {
	t.Parallel()

	client := helm.NewMockInterface()
	installer := kubeprometheusstackinstaller.NewInstaller(
		client,
		5*time.Minute,
		testConfig(),
	)

	assert.NotNil(t, installer)
}

func TestKubePrometheusStackInstallerInstallSuccess(t *testing.T) {
	t.Parallel()

	installer, client := newKubePrometheusStackInstallerWithDefaults(t)
	expectKubePrometheusStackInstall(t, client, nil)

	err := installer.Install(context.Background())

	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestKubePrometheusStackInstallerInstallError(t *testing.T) {
	t.Parallel()

	installer, client := newKubePrometheusStackInstallerWithDefaults(t)
	expectKubePrometheusStackInstall(t, client, assert.AnError)

	err := installer.Install(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to install kube-prometheus-stack")
	client.AssertExpectations(t)
}

func TestKubePrometheusStackInstallerInstallAddRepositoryError(t *testing.T) {
	t.Parallel()

	installer, client := newKubePrometheusStackInstallerWithDefaults(t)
	expectKubePrometheusStackAddRepository(t, client, assert.AnError)

	err := installer.Install(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to add prometheus-community repository")
	client.AssertExpectations(t)
}

func TestKubePrometheusStackInstallerUninstall(t *testing.T) {
	t.Parallel()

	installer, client := newKubePrometheusStackInstallerWithDefaults(t)
	client.On("UninstallRelease", mock.Anything, "kube-prometheus-stack", "monitoring").
		Return(nil)

	err := installer.Uninstall(context.Background())

	require.NoError(t, err)
	client.AssertExpectations(t)
}

func testConfig() kubeprometheusstackinstaller.Config {
	return kubeprometheusstackinstaller.Config{
		Namespace:            "monitoring",
		PrometheusHost:       "prometheus.local",
		GrafanaHost:          "grafana.local",
		GrafanaAdminPassword: "admin",
	}
}

func newKubePrometheusStackInstallerWithDefaults(
	t *testing.T,
) (*kubeprometheusstackinstaller.Installer, *helm.MockInterface) {
	t.Helper()

	client := helm.NewMockInterface()
	installer := kubeprometheusstackinstaller.NewInstaller(
		client,
		5*time.Second,
		testConfig(),
	)

	return installer, client
}

func expectKubePrometheusStackAddRepository(
	t *testing.T,
	client *helm.MockInterface,
	err error,
) {
	t.Helper()
	client.On("AddRepository",
		mock.Anything,
		mock.MatchedBy(func(entry *helm.RepositoryEntry) bool {
			assert.Equal(t, "prometheus-community", entry.Name)
			assert.Equal(t, "https://prometheus-community.github.io/helm-charts", entry.URL)

			return true
		}),
		mock.Anything,
	).Return(err)
}

func expectKubePrometheusStackInstall(
	t *testing.T,
	client *helm.MockInterface,
	installErr error,
) {
	t.Helper()
	expectKubePrometheusStackAddRepository(t, client, nil)
	client.On("InstallOrUpgradeChart",
		mock.Anything,
		mock.MatchedBy(func(spec *helm.ChartSpec) bool {
			assert.Equal(t, "kube-prometheus-stack", spec.ReleaseName)
			assert.Equal(t, "prometheus-community/kube-prometheus-stack", spec.ChartName)
			assert.Equal(t, "monitoring", spec.Namespace)
			assert.Equal(t, "https://prometheus-community.github.io/helm-charts", spec.RepoURL)
			assert.True(t, spec.CreateNamespace)
			assert.True(t, spec.Atomic)
			assert.True(t, spec.Wait)
			assert.True(t, strings.Contains(spec.ValuesYaml, "grafana.local"))
			assert.True(t, strings.Contains(spec.ValuesYaml, "prometheus.local"))
			assert.True(
				t,
				strings.Contains(spec.ValuesYaml, "serviceMonitorSelectorNilUsesHelmValues"),
			)

			return true
		}),
	).Return(nil, installErr)
}
