package argorolloutsinstaller

import (
	"context"
	"fmt"
	"time"

	"github.com/k8s-rollouts/devctl/pkg/client/helm"
	"github.com/k8s-rollouts/devctl/pkg/svc/installer/internal/helmutil"
)

const (
	// ReleaseName is the Helm release Argo Rollouts installs as.
	ReleaseName = "argo-rollouts"
	// Namespace is the namespace the Argo Rollouts controller runs in.
	Namespace = "argo-rollouts"

	chartName = "oci://ghcr.io/argoproj/argo-helm/argo-rollouts"
)

// argoRolloutsValuesYaml enables controller metrics with a ServiceMonitor so
// Prometheus scrapes the rollout counters the analysis dashboards rely on.
// Installing requires the monitoring.coreos.com CRDs, so this component must
// install after kube-prometheus-stack.
const argoRolloutsValuesYaml = `controller:
  metrics:
    enabled: true
    serviceMonitor:
      enabled: true
`

// Installer installs or upgrades Argo Rollouts via its Helm OCI chart.
type Installer struct {
	timeout time.Duration
	client  helm.Interface
}

// NewInstaller creates a new Argo Rollouts installer instance.
func NewInstaller(client helm.Interface, timeout time.Duration) *Installer {
	return &Installer{client: client, timeout: timeout}
}

// Install installs or upgrades Argo Rollouts via its Helm chart.
func (a *Installer) Install(ctx context.Context) error {
	spec := a.chartSpec()

	installCtx, cancel := context.WithTimeout(ctx, a.timeout+helm.ContextTimeoutBuffer)
	defer cancel()

	err := helm.InstallChartWithRetry(installCtx, a.client, spec, "Argo Rollouts")
	if err != nil {
		return fmt.Errorf("failed to install Argo Rollouts: %w", err)
	}

	return nil
}

// Uninstall removes the Helm release for Argo Rollouts.
func (a *Installer) Uninstall(ctx context.Context) error {
	err := a.client.UninstallRelease(ctx, ReleaseName, Namespace)
	if err != nil {
		return fmt.Errorf("failed to uninstall Argo Rollouts release: %w", err)
	}

	return nil
}

// Images returns the container images used by the Argo Rollouts chart.
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
		ValuesYaml:      argoRolloutsValuesYaml,
	}
}
