package configmanager

import (
	"time"

	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// defaultTimeout bounds cluster provisioning and workload readiness waits.
const defaultTimeout = 5 * time.Minute

// FieldSelector defines a field and its metadata for configuration management.
type FieldSelector[T any] struct {
	Selector     func(*T) any // Function that returns a pointer to the field
	Description  string       // Human-readable description for CLI flags
	DefaultValue any          // Default value for the field
}

// DefaultProvisionerFieldSelector creates a standard field selector for the cluster provisioner.
func DefaultProvisionerFieldSelector() FieldSelector[v1alpha1.Environment] {
	return FieldSelector[v1alpha1.Environment]{
		Selector:     func(e *v1alpha1.Environment) any { return &e.Spec.Cluster.Provisioner },
		Description:  "Cluster provisioner to use",
		DefaultValue: v1alpha1.ProvisionerMinikube,
	}
}

// DefaultClusterNameFieldSelector creates a standard field selector for the cluster name.
func DefaultClusterNameFieldSelector() FieldSelector[v1alpha1.Environment] {
	return FieldSelector[v1alpha1.Environment]{
		Selector:     func(e *v1alpha1.Environment) any { return &e.Spec.Cluster.Name },
		Description:  "Name of the cluster (also the minikube profile name)",
		DefaultValue: v1alpha1.DefaultClusterName,
	}
}

// DefaultKubernetesVersionFieldSelector creates a standard field selector for the
// Kubernetes version. No default value is set as an empty version means the
// provisioner's bundled version is used.
func DefaultKubernetesVersionFieldSelector() FieldSelector[v1alpha1.Environment] {
	return FieldSelector[v1alpha1.Environment]{
		Selector:    func(e *v1alpha1.Environment) any { return &e.Spec.Cluster.KubernetesVersion },
		Description: "Kubernetes version for the cluster (empty uses the provisioner default)",
	}
}

// DefaultNodesFieldSelector creates a standard field selector for the node count.
func DefaultNodesFieldSelector() FieldSelector[v1alpha1.Environment] {
	return FieldSelector[v1alpha1.Environment]{
		Selector:     func(e *v1alpha1.Environment) any { return &e.Spec.Cluster.Nodes },
		Description:  "Number of cluster nodes",
		DefaultValue: v1alpha1.DefaultNodes,
	}
}

// DefaultCPUsFieldSelector creates a standard field selector for the CPU allocation.
func DefaultCPUsFieldSelector() FieldSelector[v1alpha1.Environment] {
	return FieldSelector[v1alpha1.Environment]{
		Selector:     func(e *v1alpha1.Environment) any { return &e.Spec.Cluster.CPUs },
		Description:  "Number of CPUs to allocate to the cluster",
		DefaultValue: v1alpha1.DefaultCPUs,
	}
}

// DefaultMemoryFieldSelector creates a standard field selector for the memory allocation.
func DefaultMemoryFieldSelector() FieldSelector[v1alpha1.Environment] {
	return FieldSelector[v1alpha1.Environment]{
		Selector:     func(e *v1alpha1.Environment) any { return &e.Spec.Cluster.Memory },
		Description:  "Amount of memory to allocate to the cluster (e.g. 8g)",
		DefaultValue: v1alpha1.DefaultMemory,
	}
}

// DefaultContextFieldSelector creates a standard field selector for the kubernetes context.
// No default value is set as the context is provisioner-specific and derived
// from the cluster name during loading.
func DefaultContextFieldSelector() FieldSelector[v1alpha1.Environment] {
	return FieldSelector[v1alpha1.Environment]{
		Selector:    func(e *v1alpha1.Environment) any { return &e.Spec.Connection.Context },
		Description: "Kubernetes context of cluster",
	}
}

// DefaultKubeconfigFieldSelector creates a standard field selector for kubeconfig.
func DefaultKubeconfigFieldSelector() FieldSelector[v1alpha1.Environment] {
	return FieldSelector[v1alpha1.Environment]{
		Selector:     func(e *v1alpha1.Environment) any { return &e.Spec.Connection.Kubeconfig },
		Description:  "Path to kubeconfig file",
		DefaultValue: v1alpha1.DefaultKubeconfigPath,
	}
}

// DefaultTimeoutFieldSelector creates a standard field selector for operation timeouts.
func DefaultTimeoutFieldSelector() FieldSelector[v1alpha1.Environment] {
	return FieldSelector[v1alpha1.Environment]{
		Selector:     func(e *v1alpha1.Environment) any { return &e.Spec.Connection.Timeout },
		Description:  "Timeout for cluster provisioning and workload readiness (e.g. 5m)",
		DefaultValue: metav1.Duration{Duration: defaultTimeout},
	}
}

// DefaultStrategyFieldSelector creates a standard field selector for the rollout strategy.
func DefaultStrategyFieldSelector() FieldSelector[v1alpha1.Environment] {
	return FieldSelector[v1alpha1.Environment]{
		Selector:     func(e *v1alpha1.Environment) any { return &e.Spec.SampleApp.Strategy },
		Description:  "Rollout strategy for the sample app (BlueGreen deploys a preview stack, Canary shifts traffic in steps)",
		DefaultValue: v1alpha1.StrategyBlueGreen,
	}
}

// DefaultReplicasFieldSelector creates a standard field selector for the sample app replica count.
func DefaultReplicasFieldSelector() FieldSelector[v1alpha1.Environment] {
	return FieldSelector[v1alpha1.Environment]{
		Selector:     func(e *v1alpha1.Environment) any { return &e.Spec.SampleApp.Replicas },
		Description:  "Number of sample app replicas",
		DefaultValue: v1alpha1.DefaultReplicas,
	}
}

// DefaultRepoURLFieldSelector creates a standard field selector for the GitOps repository URL.
// No default value is set as the repository is user-specific.
func DefaultRepoURLFieldSelector() FieldSelector[v1alpha1.Environment] {
	return FieldSelector[v1alpha1.Environment]{
		Selector:    func(e *v1alpha1.Environment) any { return &e.Spec.GitOps.RepoURL },
		Description: "Git repository URL Argo CD pulls manifests from",
	}
}

// DefaultTargetRevisionFieldSelector creates a standard field selector for the GitOps revision.
func DefaultTargetRevisionFieldSelector() FieldSelector[v1alpha1.Environment] {
	return FieldSelector[v1alpha1.Environment]{
		Selector:     func(e *v1alpha1.Environment) any { return &e.Spec.GitOps.TargetRevision },
		Description:  "Git revision Argo CD tracks (branch, tag, or commit)",
		DefaultValue: v1alpha1.DefaultTargetRevision,
	}
}

// DefaultEnvironmentFieldSelectors returns the default field selectors shared by all commands.
func DefaultEnvironmentFieldSelectors() []FieldSelector[v1alpha1.Environment] {
	return []FieldSelector[v1alpha1.Environment]{
		DefaultProvisionerFieldSelector(),
		DefaultClusterNameFieldSelector(),
		DefaultContextFieldSelector(),
		DefaultKubeconfigFieldSelector(),
		DefaultTimeoutFieldSelector(),
		DefaultStrategyFieldSelector(),
		DefaultReplicasFieldSelector(),
	}
}

// ClusterFieldSelectors returns the field selectors for cluster sizing options.
// These are registered in addition to the defaults on commands that create clusters.
func ClusterFieldSelectors() []FieldSelector[v1alpha1.Environment] {
	return []FieldSelector[v1alpha1.Environment]{
		DefaultKubernetesVersionFieldSelector(),
		DefaultNodesFieldSelector(),
		DefaultCPUsFieldSelector(),
		DefaultMemoryFieldSelector(),
	}
}

// GitOpsFieldSelectors returns the field selectors for GitOps repository options.
// These are registered in addition to the defaults on commands that manage Argo CD applications.
func GitOpsFieldSelectors() []FieldSelector[v1alpha1.Environment] {
	return []FieldSelector[v1alpha1.Environment]{
		DefaultRepoURLFieldSelector(),
		DefaultTargetRevisionFieldSelector(),
	}
}
