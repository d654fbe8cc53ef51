package ingressnginxinstaller

import (
	"time"

	"github.com/k8s-rollouts/devctl/pkg/client/helm"
	"github.com/k8s-rollouts/devctl/pkg/svc/installer/internal/helmutil"
)

const (
	// ReleaseName is the Helm release ingress-nginx installs as.
	ReleaseName = "ingress-nginx"
	// Namespace is the namespace the ingress-nginx controller runs in.
	Namespace = "ingress-nginx"

	repoURL   = "https://kubernetes.github.io/ingress-nginx"
	chartName = "ingress-nginx/ingress-nginx"
)

// ingressNginxValuesYaml marks the nginx class as the cluster default so the
// demo Ingress resources resolve without an explicit ingressClassName, and
// keeps the canary traffic-split annotations available to Argo Rollouts.
const ingressNginxValuesYaml = `controller:
  ingressClassResource:
    default: true
  allowSnippetAnnotations: true
`

// Installer installs or upgrades ingress-nginx.
//
// It embeds helmutil.Base to provide standard Helm chart lifecycle management.
type Installer struct {
	*helmutil.Base
}

// NewInstaller creates a new ingress-nginx installer instance.
func NewInstaller(
	client helm.Interface,
	timeout time.Duration,
) *Installer {
	return &Installer{
		Base: helmutil.NewBase(
			"ingress-nginx",
			client,
			timeout,
			&helm.RepositoryEntry{
				Name: "ingress-nginx",
				URL:  repoURL,
			},
			&helm.ChartSpec{
				ReleaseName:     ReleaseName,
				ChartName:       chartName,
				Namespace:       Namespace,
				Version:         chartVersion(),
				RepoURL:         repoURL,
				CreateNamespace: true,
				Atomic:          true,
				Silent:          true,
				Wait:            true,
				WaitForJobs:     true,
				Timeout:         timeout,
				ValuesYaml:      ingressNginxValuesYaml,
			},
		),
	}
}
