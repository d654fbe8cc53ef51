package installer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
	"github.com/k8s-rollouts/devctl/pkg/client/helm"
	"github.com/k8s-rollouts/devctl/pkg/k8s/readiness"
	argocdinstaller "github.com/k8s-rollouts/devctl/pkg/svc/installer/argocd"
	argorolloutsinstaller "github.com/k8s-rollouts/devctl/pkg/svc/installer/argorollouts"
	ingressnginxinstaller "github.com/k8s-rollouts/devctl/pkg/svc/installer/ingressnginx"
	kubeprometheusstackinstaller "github.com/k8s-rollouts/devctl/pkg/svc/installer/kubeprometheusstack"
)

// Stack component names as used on the CLI.
const (
	ComponentArgoCD              = "argo-cd"
	ComponentArgoRollouts        = "argo-rollouts"
	ComponentKubePrometheusStack = "kube-prometheus-stack"
	ComponentIngressNginx        = "ingress-nginx"
)

var (
	errNilEnvironment   = errors.New("environment config is nil")
	errUnknownComponent = errors.New("unknown component")
)

// ComponentNames returns the valid stack component names in install order.
func ComponentNames() []string {
	return []string{
		ComponentArgoCD,
		ComponentKubePrometheusStack,
		ComponentIngressNginx,
		ComponentArgoRollouts,
	}
}

// Factory creates the component stack for an environment.
//
// Each component receives its own helm client from newHelmClient: the helm
// action configuration carries per-namespace state, so sharing one client
// across concurrently installing components would race.
type Factory struct {
	newHelmClient func() (helm.Interface, error)
	timeout       time.Duration
}

// NewFactory creates a new installer factory. The timeout applies to every
// component; components with a higher floor raise it via MaxTimeout.
func NewFactory(
	newHelmClient func() (helm.Interface, error),
	timeout time.Duration,
) *Factory {
	return &Factory{
		newHelmClient: newHelmClient,
		timeout:       timeout,
	}
}

// Components returns the full component stack in install order.
//
// Argo CD, kube-prometheus-stack, and ingress-nginx share stage 0 and can
// install concurrently. Argo Rollouts installs in stage 1: its chart creates
// a ServiceMonitor, which needs the monitoring.coreos.com CRDs shipped by
// kube-prometheus-stack.
func (f *Factory) Components(env *v1alpha1.Environment) ([]Component, error) {
	return f.ComponentsByName(env, ComponentNames())
}

// ComponentsByName returns the named components in install order. Unknown
// names produce an error listing the valid component names.
func (f *Factory) ComponentsByName(
	env *v1alpha1.Environment,
	names []string,
) ([]Component, error) {
	if env == nil {
		return nil, errNilEnvironment
	}

	requested := make(map[string]bool, len(names))

	for _, name := range names {
		switch name {
		case ComponentArgoCD, ComponentArgoRollouts,
			ComponentKubePrometheusStack, ComponentIngressNginx:
			requested[name] = true
		default:
			return nil, fmt.Errorf(
				"%w: %q (valid: %s)",
				errUnknownComponent,
				name,
				strings.Join(ComponentNames(), ", "),
			)
		}
	}

	var components []Component

	for _, name := range ComponentNames() {
		if !requested[name] {
			continue
		}

		component, err := f.buildComponent(name, env)
		if err != nil {
			return nil, err
		}

		components = append(components, component)
	}

	return components, nil
}

func (f *Factory) buildComponent(
	name string,
	env *v1alpha1.Environment,
) (Component, error) {
	client, err := f.newHelmClient()
	if err != nil {
		return Component{}, fmt.Errorf("create helm client for %s: %w", name, err)
	}

	switch name {
	case ComponentArgoCD:
		return Component{
			Name:        ComponentArgoCD,
			ReleaseName: argocdinstaller.ReleaseName,
			Namespace:   argocdinstaller.Namespace,
			Stage:       0,
			Installer:   argocdinstaller.NewInstaller(client, f.timeout),
			Readiness: []readiness.Check{
				{Type: "deployment", Namespace: argocdinstaller.Namespace, Name: "argocd-server"},
				{Type: "deployment", Namespace: argocdinstaller.Namespace, Name: "argocd-repo-server"},
				{
					Type:      "deployment",
					Namespace: argocdinstaller.Namespace,
					Name:      "argocd-applicationset-controller",
				},
				{
					Type:      "deployment",
					Namespace: argocdinstaller.Namespace,
					Name:      "argocd-notifications-controller",
				},
			},
		}, nil

	case ComponentKubePrometheusStack:
		namespace := env.Spec.Observability.Namespace

		return Component{
			Name:        ComponentKubePrometheusStack,
			ReleaseName: kubeprometheusstackinstaller.ReleaseName,
			Namespace:   namespace,
			Stage:       0,
			Installer: kubeprometheusstackinstaller.NewInstaller(
				client,
				MaxTimeout(f.timeout, KubePrometheusStackInstallTimeout),
				kubeprometheusstackinstaller.Config{
					Namespace:            namespace,
					PrometheusHost:       env.Spec.Observability.PrometheusHost,
					GrafanaHost:          env.Spec.Observability.GrafanaHost,
					GrafanaAdminPassword: env.Spec.Observability.GrafanaAdminPassword,
				},
			),
			Readiness: []readiness.Check{
				{
					Type:      "deployment",
					Namespace: namespace,
					Name:      "kube-prometheus-stack-operator",
				},
				{
					Type:      "deployment",
					Namespace: namespace,
					Name:      "kube-prometheus-stack-grafana",
				},
			},
		}, nil

	case ComponentIngressNginx:
		return Component{
			Name:        ComponentIngressNginx,
			ReleaseName: ingressnginxinstaller.ReleaseName,
			Namespace:   ingressnginxinstaller.Namespace,
			Stage:       0,
			Installer:   ingressnginxinstaller.NewInstaller(client, f.timeout),
			Readiness: []readiness.Check{
				{
					Type:      "deployment",
					Namespace: ingressnginxinstaller.Namespace,
					Name:      "ingress-nginx-controller",
				},
			},
		}, nil

	case ComponentArgoRollouts:
		return Component{
			Name:        ComponentArgoRollouts,
			ReleaseName: argorolloutsinstaller.ReleaseName,
			Namespace:   argorolloutsinstaller.Namespace,
			Stage:       1,
			Installer:   argorolloutsinstaller.NewInstaller(client, f.timeout),
			Readiness: []readiness.Check{
				{
					Type:      "deployment",
					Namespace: argorolloutsinstaller.Namespace,
					Name:      "argo-rollouts",
				},
			},
		}, nil
	}

	return Component{}, fmt.Errorf("%w: %q", errUnknownComponent, name)
}

// GetImagesForEnvironment creates the component stack and retrieves the
// container images it would deploy.
func (f *Factory) GetImagesForEnvironment(
	ctx context.Context,
	env *v1alpha1.Environment,
) ([]string, error) {
	components, err := f.Components(env)
	if err != nil {
		return nil, err
	}

	return GetImagesFromComponents(ctx, components)
}
