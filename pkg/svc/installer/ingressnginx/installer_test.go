package ingressnginxinstaller_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/k8s-rollouts/devctl/pkg/client/helm"
	ingressnginxinstaller "github.com/k8s-rollouts/devctl/pkg/svc/installer/ingressnginx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewInstaller(t *testing.T) {
	t.Parallel()

	client := helm.NewMockInterface()
	installer := ingressnginxinstaller.NewInstaller(client, 5*time.Minute)

	assert.NotNil(t, installer)
}

func TestIngressNginxInstallerInstallSuccess(t *testing.T) {
	t.Parallel()

	installer, client := newIngressNginxInstallerWithDefaults(t)
	expectIngressNginxInstall(t, client, nil)

	err := installer.Install(context.Background())

	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestIngressNginxInstallerInstallError(t *testing.T) {
	t.Parallel()

	installer, client := newIngressNginxInstallerWithDefaults(t)
	expectIngressNginxInstall(t, client, assert.AnError)

	err := installer.Install(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to install ingress-nginx")
	client.AssertExpectations(t)
}

func TestIngressNginxInstallerInstallAddRepositoryError(t *testing.T) {
	t.Parallel()

	installer, client := newIngressNginxInstallerWithDefaults(t)
	expectIngressNginxAddRepository(t, client, assert.AnError)

	err := installer.Install(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to add ingress-nginx repository")
	client.AssertExpectations(t)
}

func TestIngressNginxInstallerUninstall(t *testing.T) {
	t.Parallel()

	installer, client := newIngressNginxInstallerWithDefaults(t)
	client.On("UninstallRelease", mock.Anything, "ingress-nginx", "ingress-nginx").
		Return(nil)

	err := installer.Uninstall(context.Background())

	require.NoError(t, err)
	client.AssertExpectations(t)
}

func newIngressNginxInstallerWithDefaults(
	t *testing.T,
) (*ingressnginxinstaller.Installer, *helm.MockInterface) {
	t.Helper()

	client := helm.NewMockInterface()
	installer := ingressnginxinstaller.NewInstaller(client, 5*time.Second)

	return installer, client
}

func expectIngressNginxAddRepository(
	t *testing.T,
	client *helm.MockInterface,
	err error,
) {
	t.Helper()
	client.On("AddRepository",
		mock.Anything,
		mock.MatchedBy(func(entry *helm.RepositoryEntry) bool {
			assert.Equal(t, "ingress-nginx", entry.Name)
			assert.Equal(t, "https://kubernetes.github.io/ingress-nginx", entry.URL)

			return true
		}),
		mock.Anything,
	).Return(err)
}

func expectIngressNginxInstall(
	t *testing.T,
	client *helm.MockInterface,
	installErr error,
) {
	t.Helper()
	expectIngressNginxAddRepository(t, client, nil)
	client.On("InstallOrUpgradeChart",
		mock.Anything,
		mock.MatchedBy(func(spec *helm.ChartSpec) bool {
			assert.Equal(t, "ingress-nginx", spec.ReleaseName)
			assert.Equal(t, "ingress-nginx/ingress-nginx", spec.ChartName)
			assert.Equal(t, "ingress-nginx", spec.Namespace)
			assert.Equal(t, "https://kubernetes.github.io/ingress-nginx", spec.RepoURL)
			assert.True(t, spec.CreateNamespace)
			assert.True(t, spec.Atomic)
			assert.True(t, strings.Contains(spec.ValuesYaml, "ingressClassResource"))

			return true
		}),
	).Return(nil, installErr)
}
