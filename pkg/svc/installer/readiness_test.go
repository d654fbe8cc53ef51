package installer_test

import (
	"context"
	"testing"
	"time"

	"github.com/k8s-rollouts/devctl/pkg/k8s/readiness"
	"github.com/k8s-rollouts/devctl/pkg/svc/installer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

const readinessTestTimeout = 50 * time.Millisecond

func TestWaitWithDiagnosticsReportsFailingPods(t *testing.T) {
	t.Parallel()

	deployment := &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: "argocd-server", Namespace: "argocd"},
		Status: appsv1.DeploymentStatus{
			Replicas:          1,
			UpdatedReplicas:   1,
			AvailableReplicas: 0,
		},
	}
	pod := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "argocd-server-abc", Namespace: "argocd"},
		Status: corev1.PodStatus{
			Phase: corev1.PodPending,
			ContainerStatuses: []corev1.ContainerStatus{
				{
					Image: "quay.io/argoproj/argocd:v3.0.0",
					State: corev1.ContainerState{
						Waiting: &corev1.ContainerStateWaiting{Reason: "ImagePullBackOff"},
					},
				},
			},
		},
	}
	client := fake.NewClientset(deployment, pod)

	checks := []readiness.Check{
		{Type: "deployment", Namespace: "argocd", Name: "argocd-server"},
	}

	err := installer.WaitWithDiagnostics(
		context.Background(),
		client,
		checks,
		readinessTestTimeout,
		"argo-cd",
	)

	require.ErrorIs(t, err, readiness.ErrTimeoutExceeded)
	assert.ErrorContains(t, err, "wait for argo-cd components")
	assert.ErrorContains(t, err, "Failing pods in argocd namespace")
	assert.ErrorContains(t, err, "ImagePullBackOff")
}

func TestWaitWithDiagnosticsSucceedsWithoutListingPods(t *testing.T) {
	t.Parallel()

	deployment := &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: "argocd-server", Namespace: "argocd"},
		Status: appsv1.DeploymentStatus{
			Replicas:          1,
			UpdatedReplicas:   1,
			AvailableReplicas: 1,
		},
	}
	client := fake.NewClientset(deployment)

	checks := []readiness.Check{
		{Type: "deployment", Namespace: "argocd", Name: "argocd-server"},
	}

	err := installer.WaitWithDiagnostics(
		context.Background(),
		client,
		checks,
		readinessTestTimeout,
		"argo-cd",
	)

	require.NoError(t, err)
}

func TestCheckNamespacesDeduplicatesInOrder(t *testing.T) {
	t.Parallel()

	checks := []readiness.Check{
		{Type: "deployment", Namespace: "argocd", Name: "argocd-server"},
		{Type: "deployment", Namespace: "argocd", Name: "argocd-repo-server"},
		{Type: "daemonset", Namespace: "monitoring", Name: "node-exporter"},
		{Type: "deployment", Namespace: "", Name: "nameless"},
	}

	assert.Equal(t, []string{"argocd", "monitoring"}, installer.CheckNamespaces(checks))
}
