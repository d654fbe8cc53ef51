package v1alpha1

const (
	// DefaultClusterName is the default cluster name (minikube profile / kind cluster).
	DefaultClusterName = "k8s-rollouts"
	// DefaultNodes is the default number of cluster nodes.
	DefaultNodes int32 = 1
	// DefaultCPUs is the default number of CPUs per node.
	DefaultCPUs int32 = 4
	// DefaultMemory is the default memory per node.
	DefaultMemory = "8g"
	// DefaultKubeconfigPath is the default path to the kubeconfig file.
	DefaultKubeconfigPath = "~/.kube/config"
	// DefaultTargetRevision is the default git revision Argo CD tracks.
	DefaultTargetRevision = "main"
	// DefaultChartPath is the default chart path inside the GitOps repository.
	DefaultChartPath = "charts/sample-app"
	// DefaultAppOfAppsPath is the default app-of-apps path inside the GitOps repository.
	DefaultAppOfAppsPath = "argocd/apps"
	// DefaultProject is the default Argo CD project.
	DefaultProject = "default"
	// DefaultSampleAppNamespace is the namespace the sample application deploys into.
	DefaultSampleAppNamespace = "sample-app"
	// DefaultReleaseName is the release name of the sample application.
	DefaultReleaseName = "sample-api"
	// DefaultReplicas is the default sample application replica count.
	DefaultReplicas int32 = 2
	// DefaultImageRepository is the default sample application image repository.
	DefaultImageRepository = "sample-api"
	// DefaultImageTag is the default sample application image tag.
	DefaultImageTag = "0.2.1"
	// DefaultAppHost is the ingress host serving the active version.
	DefaultAppHost = "app.local"
	// DefaultPreviewHost is the ingress host serving the preview version.
	DefaultPreviewHost = "preview.app.local"
	// DefaultObservabilityNamespace is the namespace of the monitoring stack.
	DefaultObservabilityNamespace = "monitoring"
	// DefaultPrometheusHost is the ingress host for Prometheus.
	DefaultPrometheusHost = "prometheus.local"
	// DefaultGrafanaHost is the ingress host for Grafana.
	DefaultGrafanaHost = "grafana.local"
	// DefaultGrafanaAdminPassword is the Grafana admin password for the demo environment.
	DefaultGrafanaAdminPassword = "admin"
)

// DefaultAddons returns the minikube addons enabled by default.
func DefaultAddons() []string {
	return []string{"metrics-server"}
}

// DefaultForwards returns the port-forwards configured by default.
// Each forward targets the primary service of one stack component.
func DefaultForwards() []ForwardSpec {
	return []ForwardSpec{
		{
			Name:       "argocd",
			Namespace:  "argocd",
			Selector:   "app.kubernetes.io/name=argocd-server",
			LocalPort:  8080,
			RemotePort: 8080,
		},
		{
			Name:       "grafana",
			Namespace:  DefaultObservabilityNamespace,
			Selector:   "app.kubernetes.io/name=grafana",
			LocalPort:  3000,
			RemotePort: 3000,
		},
		{
			Name:       "prometheus",
			Namespace:  DefaultObservabilityNamespace,
			Selector:   "app.kubernetes.io/name=prometheus",
			LocalPort:  9090,
			RemotePort: 9090,
		},
		{
			Name:       "sample-api",
			Namespace:  DefaultSampleAppNamespace,
			Selector:   "app.kubernetes.io/name=sample-api",
			LocalPort:  8000,
			RemotePort: 8000,
		},
	}
}
