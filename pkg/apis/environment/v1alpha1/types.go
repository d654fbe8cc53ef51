package v1alpha1

import metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

const (
	// Group is the API group for devctl.
	Group = "devctl.dev"
	// Version is the API version for devctl.
	Version = "v1alpha1"
	// Kind is the kind for devctl environments.
	Kind = "Environment"
	// APIVersion is the full API version for devctl.
	APIVersion = Group + "/" + Version
)

// --- Core Types ---

// Environment represents a devctl environment configuration including API metadata
// and desired state. It contains TypeMeta for API versioning information and Spec
// for the environment specification.
type Environment struct {
	metav1.TypeMeta `json:",inline" mapstructure:",squash"`

	Spec Spec `json:"spec,omitzero" mapstructure:"spec,omitempty"`
}

// Spec defines the desired state of a devctl environment.
type Spec struct {
	Cluster       ClusterSpec       `json:"cluster,omitzero"`
	Connection    Connection        `json:"connection,omitzero"`
	GitOps        GitOpsSpec        `json:"gitops,omitzero"`
	SampleApp     SampleAppSpec     `json:"sampleApp,omitzero"`
	Observability ObservabilitySpec `json:"observability,omitzero"`
	Forwards      []ForwardSpec     `json:"forwards,omitzero"`
}

// ClusterSpec defines the local cluster to provision.
type ClusterSpec struct {
	Name              string      `json:"name,omitzero"              jsonschema:"description=Cluster name (minikube profile or kind cluster name)"` //nolint:lll
	Provisioner       Provisioner `json:"provisioner,omitzero"`
	KubernetesVersion string      `json:"kubernetesVersion,omitzero" jsonschema:"description=Kubernetes version to provision (provisioner default when empty)"` //nolint:lll
	Nodes             int32       `json:"nodes,omitzero"`
	CPUs              int32       `json:"cpus,omitzero"`
	Memory            string      `json:"memory,omitzero"            jsonschema:"description=Memory per node (e.g. 8g)"`
	Addons            []string    `json:"addons,omitzero"            jsonschema:"description=Minikube addons to enable (ignored by kind)"` //nolint:lll
}

// Connection defines connection options for the environment's cluster.
type Connection struct {
	Kubeconfig string          `default:"~/.kube/config" json:"kubeconfig,omitzero"`
	Context    string          `                         json:"context,omitzero"`
	Timeout    metav1.Duration `                         json:"timeout,omitzero"`
}

// GitOpsSpec defines the Argo CD source the environment reconciles from.
type GitOpsSpec struct {
	RepoURL        string `json:"repoURL,omitzero"        jsonschema:"description=Git repository URL Argo CD pulls manifests from"` //nolint:lll
	TargetRevision string `json:"targetRevision,omitzero"`
	ChartPath      string `json:"chartPath,omitzero"      jsonschema:"description=Path to the sample app chart inside the repository"` //nolint:lll
	AppOfAppsPath  string `json:"appOfAppsPath,omitzero"  jsonschema:"description=Path to the app-of-apps manifests inside the repository"` //nolint:lll
	Project        string `json:"project,omitzero"`
}

// SampleAppSpec defines the demo application deployed through GitOps.
type SampleAppSpec struct {
	Namespace   string    `json:"namespace,omitzero"`
	ReleaseName string    `json:"releaseName,omitzero"`
	Strategy    Strategy  `json:"strategy,omitzero"`
	Replicas    int32     `json:"replicas,omitzero"`
	Image       ImageSpec `json:"image,omitzero"`
	Hosts       HostsSpec `json:"hosts,omitzero"`
}

// ImageSpec identifies the sample application container image.
type ImageSpec struct {
	Repository string `json:"repository,omitzero"`
	Tag        string `json:"tag,omitzero"`
}

// HostsSpec defines the ingress hosts for the sample application.
type HostsSpec struct {
	App     string `json:"app,omitzero"     jsonschema:"description=Ingress host serving the active version"`
	Preview string `json:"preview,omitzero" jsonschema:"description=Ingress host serving the preview version during a rollout"` //nolint:lll
}

// ObservabilitySpec defines the monitoring stack configuration.
type ObservabilitySpec struct {
	Namespace            string `json:"namespace,omitzero"`
	PrometheusHost       string `json:"prometheusHost,omitzero"`
	GrafanaHost          string `json:"grafanaHost,omitzero"`
	GrafanaAdminPassword string `json:"grafanaAdminPassword,omitzero"`
}

// ForwardSpec defines a named port-forward into the cluster.
type ForwardSpec struct {
	Name       string `json:"name,omitzero"`
	Namespace  string `json:"namespace,omitzero"`
	Selector   string `json:"selector,omitzero"   jsonschema:"description=Label selector matching the pods to forward to"` //nolint:lll
	LocalPort  int32  `json:"localPort,omitzero"  jsonschema:"description=Local port to listen on (0 picks a free port)"`
	RemotePort int32  `json:"remotePort,omitzero"`
}
