package argocdinstaller

import (
	"context"
	"fmt"
	"time"

	"github.com/k8s-rollouts/devctl/pkg/client/helm"
	"github.com/k8s-rollouts/devctl/pkg/svc/installer/internal/helmutil"
)

const (
	// ReleaseName is the Helm release Argo CD installs as.
	ReleaseName = "argocd"
	// Namespace is the namespace Argo CD runs in.
	Namespace = "argocd"

	chartName = "oci://ghcr.io/argoproj/argo-helm/argo-cd"
)

// argoCDValuesYaml configures Argo CD for a local demo cluster: the API
// server runs without TLS so the forwarded port serves plain HTTP, and the
// service is a NodePort so it stays reachable without a LoadBalancer.
const argoCDValuesYaml = `configs:
  params:
    server.insecure: true
server:
  service:
    type: NodePort
`

// Installer installs or upgrades Argo CD via its Helm OCI chart.
type Installer struct {
	timeout time.Duration
	client  helm.Interface
}

// NewInstaller creates a new Argo CD installer instance.
func NewInstaller(client helm.Interface, timeout time.Duration) *Installer {
	return &Installer{client: client, timeout: timeout}
}

// Install installs or upgrades Argo CD via its Helm chart.
func (a *Installer) Install(ctx context.Context) error {
	spec := a.chartSpec()

	installCtx, cancel := context.WithTimeout(ctx, a.timeout+helm.ContextTimeoutBuffer)
	defer cancel()

	err := helm.InstallChartWithRetry(installCtx, a.client, spec, "Argo CD")
	if err != nil {
		return fmt.Errorf("failed to install Argo CD: %w", err)
	}

	return nil
}

// Uninstall removes the Helm release for Argo CD.
func (a *Installer) Uninstall(ctx context.Context) error {
	err := a.client.UninstallRelease(ctx, ReleaseName, Namespace)
	if err != nil {
		return fmt.Errorf("failed to uninstall Argo CD release: %w", err)
	}

	return nil
}

// Images returns the container images used by the Argo CD chart.
func (a *Installer) Images(ctx context.Context) ([]string, error) {
	return helmutil.ImagesFromChart(ctx, a.client, a.chartSpec())
}

func (a *Installer) chartSpec() *helm.ChartSpec {
	return &helm.ChartSpec{
		ReleaseName:     ReleaseName,
		ChartName:       chartName,
		Namespace:       Namespace,
		Version:         chartVersion(),
		CreateNamespace: true,
		Atomic:          true,
		UpgradeCRDs:     true,
		Silent:          true,
		Timeout:         a.timeout,
		Wait:            true,
		WaitForJobs:     true,
		ValuesYaml:      argoCDValuesYaml,
	}
}
