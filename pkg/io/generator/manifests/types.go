package manifests

// Metadata is the object metadata shared by all generated manifests.
type Metadata struct {
	Name        string            `json:"name"`
	Namespace   string            `json:"namespace,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty"`
}

// Rollout is an Argo Rollouts workload manifest.
type Rollout struct {
	APIVersion string      `json:"apiVersion"`
	Kind       string      `json:"kind"`
	Metadata   Metadata    `json:"metadata"`
	Spec       RolloutSpec `json:"spec"`
}

// RolloutSpec mirrors the fields of the Rollout CRD the demo uses.
type RolloutSpec struct {
	Replicas             int32           `json:"replicas"`
	RevisionHistoryLimit int32           `json:"revisionHistoryLimit,omitempty"`
	Selector             LabelSelector   `json:"selector"`
	Template             PodTemplate     `json:"template"`
	Strategy             RolloutStrategy `json:"strategy"`
}

// LabelSelector matches pods by label.
type LabelSelector struct {
	MatchLabels map[string]string `json:"matchLabels"`
}

// PodTemplate is the pod template of the Rollout.
type PodTemplate struct {
	Metadata Metadata `json:"metadata"`
	Spec     PodSpec  `json:"spec"`
}

// PodSpec holds the container list of the pod template.
type PodSpec struct {
	Containers []Container `json:"containers"`
}

// Container describes the sample application container.
type Container struct {
	Name           string          `json:"name"`
	Image          string          `json:"image"`
	Ports          []ContainerPort `json:"ports,omitempty"`
	Env            []EnvVar        `json:"env,omitempty"`
	Resources      *Resources      `json:"resources,omitempty"`
	StartupProbe   *Probe          `json:"startupProbe,omitempty"`
	LivenessProbe  *Probe          `json:"livenessProbe,omitempty"`
	ReadinessProbe *Probe          `json:"readinessProbe,omitempty"`
}

// ContainerPort names a port the container exposes.
type ContainerPort struct {
	Name          string `json:"name"`
	ContainerPort int32  `json:"containerPort"`
}

// EnvVar is a container environment variable, literal or field-sourced.
type EnvVar struct {
	Name      string        `json:"name"`
	Value     string        `json:"value,omitempty"`
	ValueFrom *EnvVarSource `json:"valueFrom,omitempty"`
}

// EnvVarSource sources an environment variable from the pod.
type EnvVarSource struct {
	FieldRef *FieldRef `json:"fieldRef,omitempty"`
}

// FieldRef selects a pod field by path.
type FieldRef struct {
	FieldPath string `json:"fieldPath"`
}

// Resources holds container resource requests and limits.
type Resources struct {
	Requests map[string]string `json:"requests,omitempty"`
	Limits   map[string]string `json:"limits,omitempty"`
}

// Probe is an HTTP health probe.
type Probe struct {
	HTTPGet             HTTPGet `json:"httpGet"`
	InitialDelaySeconds int32   `json:"initialDelaySeconds,omitempty"`
	PeriodSeconds       int32   `json:"periodSeconds,omitempty"`
	FailureThreshold    int32   `json:"failureThreshold,omitempty"`
}

// HTTPGet addresses a path on a named container port.
type HTTPGet struct {
	Path string `json:"path"`
	Port string `json:"port"`
}

// RolloutStrategy selects exactly one deployment strategy.
type RolloutStrategy struct {
	BlueGreen *BlueGreenStrategy `json:"blueGreen,omitempty"`
	Canary    *CanaryStrategy    `json:"canary,omitempty"`
}

// BlueGreenStrategy switches traffic between an active and a preview service.
type BlueGreenStrategy struct {
	ActiveService        string `json:"activeService"`
	PreviewService       string `json:"previewService"`
	AutoPromotionEnabled bool   `json:"autoPromotionEnabled"`
}

// CanaryStrategy shifts traffic stepwise between a stable and a canary
// service through the ingress controller.
type CanaryStrategy struct {
	CanaryService  string          `json:"canaryService"`
	StableService  string          `json:"stableService"`
	TrafficRouting *TrafficRouting `json:"trafficRouting,omitempty"`
	Steps          []CanaryStep    `json:"steps"`
}

// TrafficRouting selects the traffic shifting mechanism.
type TrafficRouting struct {
	Nginx *NginxTrafficRouting `json:"nginx,omitempty"`
}

// NginxTrafficRouting points Argo Rollouts at the stable ingress to clone
// for weighted canary traffic.
type NginxTrafficRouting struct {
	StableIngress string `json:"stableIngress"`
}

// CanaryStep is one step of the canary sequence; exactly one field is set.
type CanaryStep struct {
	SetWeight *int32        `json:"setWeight,omitempty"`
	Pause     *PauseStep    `json:"pause,omitempty"`
	Analysis  *AnalysisStep `json:"analysis,omitempty"`
}

// PauseStep pauses the rollout, indefinitely when no duration is given.
type PauseStep struct {
	Duration string `json:"duration,omitempty"`
}

// AnalysisStep runs the referenced analysis templates.
type AnalysisStep struct {
	Templates []AnalysisTemplateRef `json:"templates"`
}

// AnalysisTemplateRef names an AnalysisTemplate in the same namespace.
type AnalysisTemplateRef struct {
	TemplateName string `json:"templateName"`
}

// Service is a Kubernetes Service manifest.
type Service struct {
	APIVersion string      `json:"apiVersion"`
	Kind       string      `json:"kind"`
	Metadata   Metadata    `json:"metadata"`
	Spec       ServiceSpec `json:"spec"`
}

// ServiceSpec selects the sample application pods. Argo Rollouts injects the
// pod-template-hash selector on the preview and canary services at runtime.
type ServiceSpec struct {
	Selector map[string]string `json:"selector"`
	Ports    []ServicePort     `json:"ports"`
}

// ServicePort maps a service port to a named container port.
type ServicePort struct {
	Name       string `json:"name"`
	Port       int32  `json:"port"`
	TargetPort string `json:"targetPort"`
	Protocol   string `json:"protocol,omitempty"`
}

// AnalysisTemplate is an Argo Rollouts analysis manifest.
type AnalysisTemplate struct {
	APIVersion string               `json:"apiVersion"`
	Kind       string               `json:"kind"`
	Metadata   Metadata             `json:"metadata"`
	Spec       AnalysisTemplateSpec `json:"spec"`
}

// AnalysisTemplateSpec lists the metrics the analysis evaluates.
type AnalysisTemplateSpec struct {
	Metrics []AnalysisMetric `json:"metrics"`
}

// AnalysisMetric is one measured metric with its success condition.
type AnalysisMetric struct {
	Name             string           `json:"name"`
	Interval         string           `json:"interval,omitempty"`
	Count            int32            `json:"count,omitempty"`
	SuccessCondition string           `json:"successCondition,omitempty"`
	FailureLimit     int32            `json:"failureLimit,omitempty"`
	Provider         AnalysisProvider `json:"provider"`
}

// AnalysisProvider selects the metric backend.
type AnalysisProvider struct {
	Prometheus *PrometheusProvider `json:"prometheus,omitempty"`
}

// PrometheusProvider queries a Prometheus instance.
type PrometheusProvider struct {
	Address string `json:"address"`
	Query   string `json:"query"`
}

// Ingress is a Kubernetes Ingress manifest.
type Ingress struct {
	APIVersion string      `json:"apiVersion"`
	Kind       string      `json:"kind"`
	Metadata   Metadata    `json:"metadata"`
	Spec       IngressSpec `json:"spec"`
}

// IngressSpec routes one or more hosts to backend services.
type IngressSpec struct {
	IngressClassName string        `json:"ingressClassName,omitempty"`
	Rules            []IngressRule `json:"rules"`
}

// IngressRule routes one host.
type IngressRule struct {
	Host string   `json:"host"`
	HTTP HTTPRule `json:"http"`
}

// HTTPRule lists the paths of a rule.
type HTTPRule struct {
	Paths []HTTPPath `json:"paths"`
}

// HTTPPath routes a path prefix to a service backend.
type HTTPPath struct {
	Path     string  `json:"path"`
	PathType string  `json:"pathType"`
	Backend  Backend `json:"backend"`
}

// Backend is the service behind an ingress path.
type Backend struct {
	Service ServiceBackend `json:"service"`
}

// ServiceBackend names the service and port.
type ServiceBackend struct {
	Name string      `json:"name"`
	Port BackendPort `json:"port"`
}

// BackendPort addresses a service port by number.
type BackendPort struct {
	Number int32 `json:"number"`
}
