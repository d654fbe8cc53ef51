package rollouts

import (
	"fmt"

	"github.com/k8s-rollouts/devctl/pkg/svc/reconciler"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
)

// DefaultNamespace is where the demo environment deploys the sample rollout.
const DefaultNamespace = "sample-app"

// Client operates on Rollout custom resources in a single namespace.
type Client struct {
	*reconciler.Base

	namespace string
}

// rolloutGVR returns the GroupVersionResource for Argo Rollouts Rollout
// resources.
func rolloutGVR() schema.GroupVersionResource {
	return schema.GroupVersionResource{
		Group:    "argoproj.io",
		Version:  "v1alpha1",
		Resource: "rollouts",
	}
}

// NewClient creates a rollout client from a kubeconfig path and context.
// An empty namespace falls back to DefaultNamespace.
func NewClient(kubeconfigPath, kubeContext, namespace string) (*Client, error) {
	client, err := reconciler.New(kubeconfigPath, kubeContext, func(base *reconciler.Base) *Client {
		return newFromBase(base, namespace)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create rollout client: %w", err)
	}

	return client, nil
}

// NewClientWithClient creates a rollout client from an existing dynamic
// client. Used in tests with a fake client.
func NewClientWithClient(dynamicClient dynamic.Interface, namespace string) *Client {
	return reconciler.NewWithClient(dynamicClient, func(base *reconciler.Base) *Client {
		return newFromBase(base, namespace)
	})
}

func newFromBase(base *reconciler.Base, namespace string) *Client {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	return &Client{Base: base, namespace: namespace}
}

func (c *Client) rolloutClient() dynamic.ResourceInterface {
	return c.Dynamic.Resource(rolloutGVR()).Namespace(c.namespace)
}
