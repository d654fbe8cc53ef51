package verify

import (
	"context"
	"strings"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

const clusterSuiteName = "cluster"

// defaultStorageClassAnnotation marks a StorageClass as the cluster default.
const defaultStorageClassAnnotation = "storageclass.kubernetes.io/is-default-class"

// ClusterSuite checks basic cluster health: node readiness, required
// namespaces, default storage, and DNS.
type ClusterSuite struct {
	client             kubernetes.Interface
	requiredNamespaces []string
}

// NewClusterSuite creates the cluster suite.
func NewClusterSuite(client kubernetes.Interface, requiredNamespaces []string) *ClusterSuite {
	return &ClusterSuite{client: client, requiredNamespaces: requiredNamespaces}
}

// Name implements Suite.
func (s *ClusterSuite) Name() string { return clusterSuiteName }

// Run implements Suite.
func (s *ClusterSuite) Run(ctx context.Context) []Result {
	return []Result{
		s.checkNodesReady(ctx),
		s.checkNamespaces(ctx),
		s.checkDefaultStorageClass(ctx),
		s.checkCoreDNS(ctx),
	}
}

func (s *ClusterSuite) checkNodesReady(ctx context.Context) Result {
	const name = "nodes-ready"

	nodes, err := s.client.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return fail(clusterSuiteName, name, "failed to list nodes: %v", err)
	}

	if len(nodes.Items) == 0 {
		return fail(clusterSuiteName, name, "no nodes found")
	}

	var notReady []string

	for _, node := range nodes.Items {
		if !nodeIsReady(&node) {
			notReady = append(notReady, node.Name)
		}
	}

	if len(notReady) > 0 {
		return fail(clusterSuiteName, name, "nodes not ready: %s", strings.Join(notReady, ", "))
	}

	return pass(clusterSuiteName, name)
}

func (s *ClusterSuite) checkNamespaces(ctx context.Context) Result {
	const name = "namespaces"

	var missing []string

	for _, namespace := range s.requiredNamespaces {
		_, err := s.client.CoreV1().Namespaces().Get(ctx, namespace, metav1.GetOptions{})
		if err != nil {
			missing = append(missing, namespace)
		}
	}

	if len(missing) > 0 {
		return fail(clusterSuiteName, name, "missing namespaces: %s", strings.Join(missing, ", "))
	}

	return pass(clusterSuiteName, name)
}

func (s *ClusterSuite) checkDefaultStorageClass(ctx context.Context) Result {
	const name = "default-storageclass"

	classes, err := s.client.StorageV1().StorageClasses().List(ctx, metav1.ListOptions{})
	if err != nil {
		return fail(clusterSuiteName, name, "failed to list storage classes: %v", err)
	}

	for _, class := range classes.Items {
		if class.Annotations[defaultStorageClassAnnotation] == "true" {
			return pass(clusterSuiteName, name)
		}
	}

	return fail(clusterSuiteName, name, "no default storage class found")
}

func (s *ClusterSuite) checkCoreDNS(ctx context.Context) Result {
	const name = "coredns-available"

	deployment, err := s.client.AppsV1().
		Deployments("kube-system").
		Get(ctx, "coredns", metav1.GetOptions{})
	if err != nil {
		return fail(clusterSuiteName, name, "failed to get coredns deployment: %v", err)
	}

	if deployment.Status.AvailableReplicas == 0 {
		return fail(clusterSuiteName, name, "coredns has no available replicas")
	}

	return pass(clusterSuiteName, name)
}

func nodeIsReady(node *corev1.Node) bool {
	for _, condition := range node.Status.Conditions {
		if condition.Type == corev1.NodeReady {
			return condition.Status == corev1.ConditionTrue
		}
	}

	return false
}
