package kubeprometheusstackinstaller

import (
	"fmt"
	"time"

	"github.com/k8s-rollouts/devctl/pkg/client/helm"
	"github.com/k8s-rollouts/devctl/pkg/svc/installer/internal/helmutil"
)

const (
	// ReleaseName is the Helm release kube-prometheus-stack installs as.
	ReleaseName = "kube-prometheus-stack"

	repoName  = "prometheus-community"
	repoURL   = "https://prometheus-community.github.io/helm-charts"
	chartName = "prometheus-community/kube-prometheus-stack"
)

// Config carries the environment-specific values for the monitoring stack.
type Config struct {
	// Namespace the stack installs into (e.g. "monitoring").
	Namespace string
	// PrometheusHost is the ingress host serving the Prometheus UI.
	PrometheusHost string
	// GrafanaHost is the ingress host serving Grafana.
	GrafanaHost string
	// GrafanaAdminPassword is the admin password for the demo Grafana.
	GrafanaAdminPassword string
}

// Installer installs or upgrades kube-prometheus-stack.
//
// It embeds helmutil.Base to provide standard Helm chart lifecycle management.
type Installer struct {
	*helmutil.Base
}

// NewInstaller creates a new kube-prometheus-stack installer instance.
func NewInstaller(
	client helm.Interface,
	timeout time.Duration,
	cfg Config,
) *Installer {
	return &Installer{
		Base: helmutil.NewBase(
			"kube-prometheus-stack",
			client,
			timeout,
			&helm.RepositoryEntry{
				Name: repoName,
				URL:  repoURL,
			},
			&helm.ChartSpec{
				ReleaseName:     ReleaseName,
				ChartName:       chartName,
				Namespace:       cfg.Namespace,
				Version:         chartVersion(),
				RepoURL:         repoURL,
				CreateNamespace: true,
				Atomic:          true,
				Silent:          true,
				Wait:            true,
				WaitForJobs:     true,
				Timeout:         timeout,
				ValuesYaml:      buildValuesYaml(cfg),
			},
		),
	}
}

// buildValuesYaml returns the Helm values YAML for kube-prometheus-stack.
//
// serviceMonitorSelectorNilUsesHelmValues is disabled so Prometheus picks up
// ServiceMonitors created by other releases (Argo Rollouts, the sample app)
// instead of only those labelled by this chart.
func buildValuesYaml(cfg Config) string {
	return fmt.Sprintf(`grafana:
  adminPassword: %s
  ingress:
    enabled: true
    ingressClassName: nginx
    hosts:
      - %s
prometheus:
  ingress:
    enabled: true
    ingressClassName: nginx
    hosts:
      - %s
  prometheusSpec:
    serviceMonitorSelectorNilUsesHelmValues: false
`, cfg.GrafanaAdminPassword, cfg.GrafanaHost, cfg.PrometheusHost)
}
