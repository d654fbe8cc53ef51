package clusterprovisioner

import (
	"context"
	"errors"
	"fmt"

	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
	dockerclient "github.com/k8s-rollouts/devctl/pkg/client/docker"
	dockerprovider "github.com/k8s-rollouts/devctl/pkg/svc/provider/docker"
	kindprovisioner "github.com/k8s-rollouts/devctl/pkg/svc/provisioner/cluster/kind"
	minikubeprovisioner "github.com/k8s-rollouts/devctl/pkg/svc/provisioner/cluster/minikube"
)

// ErrUnsupportedProvisioner is returned when an unsupported provisioner is specified.
var ErrUnsupportedProvisioner = errors.New("unsupported provisioner")

const defaultKubeconfigPath = "~/.kube/config"

// Factory creates provisioner-specific cluster provisioners based on the
// environment configuration.
type Factory interface {
	Create(ctx context.Context, env *v1alpha1.Environment) (ClusterProvisioner, error)
}

// DefaultFactory implements Factory for the supported provisioners.
type DefaultFactory struct{}

// Create selects the correct cluster provisioner for the environment configuration.
// An empty provisioner defaults to minikube.
func (DefaultFactory) Create(
	_ context.Context,
	env *v1alpha1.Environment,
) (ClusterProvisioner, error) {
	if env == nil {
		return nil, fmt.Errorf(
			"environment configuration is required: %w",
			ErrUnsupportedProvisioner,
		)
	}

	spec := &env.Spec.Cluster

	kubeconfigPath := env.Spec.Connection.Kubeconfig
	if kubeconfigPath == "" {
		kubeconfigPath = defaultKubeconfigPath
	}

	switch spec.Provisioner {
	case v1alpha1.ProvisionerMinikube, "":
		return minikubeprovisioner.NewMinikubeClusterProvisioner(spec, kubeconfigPath), nil
	case v1alpha1.ProvisionerKind:
		return createKindProvisioner(spec, kubeconfigPath)
	default:
		return nil, fmt.Errorf(
			"%w: %s",
			ErrUnsupportedProvisioner,
			spec.Provisioner,
		)
	}
}

// createKindProvisioner wires the kind provisioner with a Docker-backed
// infrastructure provider for node start/stop, which kind itself lacks.
func createKindProvisioner(
	spec *v1alpha1.ClusterSpec,
	kubeconfigPath string,
) (*kindprovisioner.KindClusterProvisioner, error) {
	apiClient, err := dockerclient.GetDockerClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	infraProvider := dockerprovider.NewProvider(apiClient, dockerprovider.LabelSchemeKind)

	return kindprovisioner.NewKindClusterProvisioner(spec, kubeconfigPath, infraProvider), nil
}
