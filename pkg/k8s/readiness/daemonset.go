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

// WaitForDaemonSetReady polls until the named daemonset has all scheduled
// pods updated and available. A daemonset that does not exist yet keeps
// polling, so the wait can start before the resource has been created.
func WaitForDaemonSetReady(
	ctx context.Context,
	clientset kubernetes.Interface,
	namespace string,
	name string,
	deadline time.Duration,
) error {
	return PollForReadiness(ctx, deadline, func(ctx context.Context) (bool, error) {
		daemonset, err := clientset.AppsV1().DaemonSets(namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			if apierrors.IsNotFound(err) {
				return false, nil
			}

			return false, fmt.Errorf("get daemonset %s/%s: %w", namespace, name, err)
		}

		return isDaemonSetReady(daemonset), nil
	})
}

// isDaemonSetReady returns true when every desired pod is scheduled, updated,
// and available. A daemonset with zero desired pods counts as ready.
func isDaemonSetReady(daemonset *appsv1.DaemonSet) bool {
	status := daemonset.Status

	return status.UpdatedNumberScheduled == status.DesiredNumberScheduled &&
		status.NumberUnavailable == 0
}
