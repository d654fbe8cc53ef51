package readiness

import (
	"context"
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// WaitForDeploymentReady polls until the named deployment has all replicas
// updated and available. A deployment that does not exist yet keeps polling,
// so the wait can start before the resource has been created.
func WaitForDeploymentReady(
	ctx context.Context,
	clientset kubernetes.Interface,
	namespace string,
	name string,
	deadline time.Duration,
) error {
	return PollForReadiness(ctx, deadline, func(ctx context.Context) (bool, error) {
		deployment, err := clientset.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			if apierrors.IsNotFound(err) {
				return false, nil
			}

			return false, fmt.Errorf("get deployment %s/%s: %w", namespace, name, err)
		}

		return isDeploymentReady(deployment), nil
	})
}

// isDeploymentReady returns true when the deployment has at least one replica
// and all replicas are updated and available.
func isDeploymentReady(deployment *appsv1.Deployment) bool {
	status := deployment.Status

	return status.Replicas > 0 &&
		status.UpdatedReplicas == status.Replicas &&
		status.AvailableReplicas == status.Replicas
}
