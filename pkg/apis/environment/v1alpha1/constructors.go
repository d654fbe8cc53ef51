package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// NewEnvironment creates a new Environment instance with minimal required structure.
// All default values are handled by the configuration system via field selectors.
func NewEnvironment() *Environment {
	return &Environment{
		TypeMeta: metav1.TypeMeta{
			Kind:       Kind,
			APIVersion: APIVersion,
		},
		Spec: NewEnvironmentSpec(),
	}
}

// NewEnvironmentSpec creates a new Spec with zero values.
func NewEnvironmentSpec() Spec {
	return Spec{
		Cluster:       NewClusterSpec(),
		Connection:    NewConnection(),
		GitOps:        GitOpsSpec{},
		SampleApp:     NewSampleAppSpec(),
		Observability: ObservabilitySpec{},
		Forwards:      nil,
	}
}

// NewClusterSpec creates a new ClusterSpec with zero values.
func NewClusterSpec() ClusterSpec {
	return ClusterSpec{
		Name:              "",
		Provisioner:       "",
		KubernetesVersion: "",
		Nodes:             0,
		CPUs:              0,
		Memory:            "",
		Addons:            nil,
	}
}

// NewConnection creates a new Connection with zero values.
func NewConnection() Connection {
	return Connection{
		Kubeconfig: "",
		Context:    "",
		Timeout:    metav1.Duration{Duration: 0},
	}
}

// NewSampleAppSpec creates a new SampleAppSpec with zero values.
func NewSampleAppSpec() SampleAppSpec {
	return SampleAppSpec{
		Namespace:   "",
		ReleaseName: "",
		Strategy:    "",
		Replicas:    0,
		Image:       ImageSpec{},
		Hosts:       HostsSpec{},
	}
}
