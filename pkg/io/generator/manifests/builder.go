package manifests

import (
	"fmt"

	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
)

const (
	rolloutAPIVersion    = "argoproj.io/v1alpha1"
	serviceAPIVersion    = "v1"
	networkingAPIVersion = "networking.k8s.io/v1"

	appLabelKey = "app.kubernetes.io/name"

	containerPortName = "http"
	containerPort     = 8000
	servicePort       = 80

	previewSuffix = "-preview"
	canarySuffix  = "-canary"

	// analysisTemplateName is referenced by the canary analysis step and
	// must match the generated AnalysisTemplate metadata.
	analysisTemplateName = "success-rate"

	canaryPauseDuration = "30s"

	ingressClassName = "nginx"
)

// successRateQuery measures the share of non-5xx requests served by the
// sample application over the trailing window.
const successRateQuery = `sum(rate(http_requests_total{status!~"5.."}[2m])) / sum(rate(http_requests_total[2m]))`

// Builder builds the typed manifest set from the environment configuration.
type Builder struct {
	app           v1alpha1.SampleAppSpec
	observability v1alpha1.ObservabilitySpec
}

// NewBuilder creates a manifest builder for the environment.
func NewBuilder(env *v1alpha1.Environment) *Builder {
	return &Builder{
		app:           env.Spec.SampleApp,
		observability: env.Spec.Observability,
	}
}

// Rollout builds the Argo Rollout for the configured strategy.
func (b *Builder) Rollout() Rollout {
	return Rollout{
		APIVersion: rolloutAPIVersion,
		Kind:       "Rollout",
		Metadata:   b.metadata(b.releaseName()),
		Spec: RolloutSpec{
			Replicas:             b.replicas(),
			RevisionHistoryLimit: 3,
			Selector:             LabelSelector{MatchLabels: b.labels()},
			Template:             b.podTemplate(),
			Strategy:             b.strategy(),
		},
	}
}

// Services builds the stable, preview and canary Services. All three share
// the pod selector; Argo Rollouts narrows the preview and canary selectors
// with a pod-template-hash at runtime.
func (b *Builder) Services() []Service {
	name := b.releaseName()

	services := make([]Service, 0, 3)
	for _, serviceName := range []string{name, name + previewSuffix, name + canarySuffix} {
		services = append(services, Service{
			APIVersion: serviceAPIVersion,
			Kind:       "Service",
			Metadata:   b.metadata(serviceName),
			Spec: ServiceSpec{
				Selector: b.labels(),
				Ports: []ServicePort{
					{
						Name:       containerPortName,
						Port:       servicePort,
						TargetPort: containerPortName,
						Protocol:   "TCP",
					},
				},
			},
		})
	}

	return services
}

// AnalysisTemplate builds the success-rate analysis backed by Prometheus.
func (b *Builder) AnalysisTemplate() AnalysisTemplate {
	return AnalysisTemplate{
		APIVersion: rolloutAPIVersion,
		Kind:       "AnalysisTemplate",
		Metadata:   b.metadata(analysisTemplateName),
		Spec: AnalysisTemplateSpec{
			Metrics: []AnalysisMetric{
				{
					Name:             "success-rate",
					Interval:         "30s",
					Count:            5,
					SuccessCondition: "result[0] >= 0.95",
					FailureLimit:     1,
					Provider: AnalysisProvider{
						Prometheus: &PrometheusProvider{
							Address: b.prometheusAddress(),
							Query:   successRateQuery,
						},
					},
				},
			},
		},
	}
}

// Ingresses builds the app and preview host Ingress resources. The app
// ingress is the stable ingress canary traffic routing clones.
func (b *Builder) Ingresses() []Ingress {
	name := b.releaseName()

	return []Ingress{
		b.ingress(name, b.appHost(), name),
		b.ingress(name+previewSuffix, b.previewHost(), name+previewSuffix),
	}
}

func (b *Builder) ingress(name, host, serviceName string) Ingress {
	return Ingress{
		APIVersion: networkingAPIVersion,
		Kind:       "Ingress",
		Metadata:   b.metadata(name),
		Spec: IngressSpec{
			IngressClassName: ingressClassName,
			Rules: []IngressRule{
				{
					Host: host,
					HTTP: HTTPRule{
						Paths: []HTTPPath{
							{
								Path:     "/",
								PathType: "Prefix",
								Backend: Backend{
									Service: ServiceBackend{
										Name: serviceName,
										Port: BackendPort{Number: servicePort},
									},
								},
							},
						},
					},
				},
			},
		},
	}
}

func (b *Builder) strategy() RolloutStrategy {
	name := b.releaseName()

	if b.app.Strategy == v1alpha1.StrategyCanary {
		return RolloutStrategy{
			Canary: &CanaryStrategy{
				CanaryService: name + canarySuffix,
				StableService: name,
				TrafficRouting: &TrafficRouting{
					Nginx: &NginxTrafficRouting{StableIngress: name},
				},
				Steps: canarySteps(),
			},
		}
	}

	return RolloutStrategy{
		BlueGreen: &BlueGreenStrategy{
			ActiveService:        name,
			PreviewService:       name + previewSuffix,
			AutoPromotionEnabled: false,
		},
	}
}

// canarySteps shifts 20%, pauses, shifts 50%, pauses, runs the success-rate
// analysis, then completes. The bounded pauses let the canary progress
// without manual promotion.
func canarySteps() []CanaryStep {
	return []CanaryStep{
		{SetWeight: int32Ref(20)},
		{Pause: &PauseStep{Duration: canaryPauseDuration}},
		{SetWeight: int32Ref(50)},
		{Pause: &PauseStep{Duration: canaryPauseDuration}},
		{Analysis: &AnalysisStep{
			Templates: []AnalysisTemplateRef{{TemplateName: analysisTemplateName}},
		}},
		{SetWeight: int32Ref(100)},
	}
}

func (b *Builder) podTemplate() PodTemplate {
	return PodTemplate{
		Metadata: Metadata{Labels: b.labels()},
		Spec: PodSpec{
			Containers: []Container{
				{
					Name:  b.releaseName(),
					Image: b.image(),
					Ports: []ContainerPort{
						{Name: containerPortName, ContainerPort: containerPort},
					},
					Env: []EnvVar{
						{Name: "SAMPLE_API_VERSION", Value: b.imageTag()},
						{Name: "SAMPLE_API_STRATEGY", Value: string(b.strategyName())},
						{
							Name: "POD_NAME",
							ValueFrom: &EnvVarSource{
								FieldRef: &FieldRef{FieldPath: "metadata.name"},
							},
						},
						{
							Name: "POD_NAMESPACE",
							ValueFrom: &EnvVarSource{
								FieldRef: &FieldRef{FieldPath: "metadata.namespace"},
							},
						},
					},
					Resources: &Resources{
						Requests: map[string]string{"cpu": "100m", "memory": "128Mi"},
						Limits:   map[string]string{"cpu": "500m", "memory": "256Mi"},
					},
					StartupProbe: &Probe{
						HTTPGet:          HTTPGet{Path: "/health/startup", Port: containerPortName},
						PeriodSeconds:    2,
						FailureThreshold: 15,
					},
					LivenessProbe: &Probe{
						HTTPGet:             HTTPGet{Path: "/health/live", Port: containerPortName},
						InitialDelaySeconds: 5,
						PeriodSeconds:       10,
					},
					ReadinessProbe: &Probe{
						HTTPGet:             HTTPGet{Path: "/health/ready", Port: containerPortName},
						InitialDelaySeconds: 5,
						PeriodSeconds:       5,
					},
				},
			},
		},
	}
}

func (b *Builder) metadata(name string) Metadata {
	return Metadata{
		Name:      name,
		Namespace: b.namespace(),
		Labels:    b.labels(),
	}
}

func (b *Builder) labels() map[string]string {
	return map[string]string{appLabelKey: b.releaseName()}
}

func (b *Builder) releaseName() string {
	if b.app.ReleaseName == "" {
		return v1alpha1.DefaultReleaseName
	}

	return b.app.ReleaseName
}

func (b *Builder) namespace() string {
	if b.app.Namespace == "" {
		return v1alpha1.DefaultSampleAppNamespace
	}

	return b.app.Namespace
}

func (b *Builder) replicas() int32 {
	if b.app.Replicas <= 0 {
		return v1alpha1.DefaultReplicas
	}

	return b.app.Replicas
}

func (b *Builder) strategyName() v1alpha1.Strategy {
	if b.app.Strategy == v1alpha1.StrategyCanary {
		return v1alpha1.StrategyCanary
	}

	return v1alpha1.StrategyBlueGreen
}

func (b *Builder) image() string {
	return fmt.Sprintf("%s:%s", b.imageRepository(), b.imageTag())
}

func (b *Builder) imageRepository() string {
	if b.app.Image.Repository == "" {
		return v1alpha1.DefaultImageRepository
	}

	return b.app.Image.Repository
}

func (b *Builder) imageTag() string {
	if b.app.Image.Tag == "" {
		return v1alpha1.DefaultImageTag
	}

	return b.app.Image.Tag
}

func (b *Builder) appHost() string {
	if b.app.Hosts.App == "" {
		return v1alpha1.DefaultAppHost
	}

	return b.app.Hosts.App
}

func (b *Builder) previewHost() string {
	if b.app.Hosts.Preview == "" {
		return v1alpha1.DefaultPreviewHost
	}

	return b.app.Hosts.Preview
}

func (b *Builder) prometheusAddress() string {
	namespace := b.observability.Namespace
	if namespace == "" {
		namespace = v1alpha1.DefaultObservabilityNamespace
	}

	return fmt.Sprintf("http://prometheus-operated.%s.svc.cluster.local:9090", namespace)
}

func int32Ref(value int32) *int32 {
	return &value
}
