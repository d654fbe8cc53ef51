package readiness_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/k8s-rollouts/devctl/pkg/k8s/readiness"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"
)

var errAPIBoom = errors.New("boom")

func readyDeployment(namespace, name string) *appsv1.Deployment {
	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Status: appsv1.DeploymentStatus{
			Replicas:          1,
			UpdatedReplicas:   1,
			AvailableReplicas: 1,
		},
	}
}

func readyDaemonSet(namespace, name string) *appsv1.DaemonSet {
	return &appsv1.DaemonSet{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Status: appsv1.DaemonSetStatus{
			DesiredNumberScheduled: 1,
			NumberUnavailable:      0,
			UpdatedNumberScheduled: 1,
		},
	}
}

func TestWaitForDeploymentReady(t *testing.T) {
	t.Parallel()

	t.Run("ReadyOnFirstPoll", func(t *testing.T) {
		t.Parallel()

		client := fake.NewClientset(readyDeployment("test-system", "test-deployment"))

		err := readiness.WaitForDeploymentReady(
			context.Background(), client, "test-system", "test-deployment", 5*time.Second,
		)

		require.NoError(t, err)
	})

	t.Run("PropagatesAPIError", func(t *testing.T) {
		t.Parallel()

		client := fake.NewClientset()
		client.PrependReactor(
			"get", "deployments",
			func(k8stesting.Action) (bool, runtime.Object, error) {
				return true, nil, errAPIBoom
			},
		)

		err := readiness.WaitForDeploymentReady(
			context.Background(), client, "test-system", "test-deployment", 5*time.Second,
		)

		require.Error(t, err)
		assert.ErrorIs(t, err, errAPIBoom)
	})

	t.Run("TimesOutWhenNotReady", func(t *testing.T) {
		t.Parallel()

		client := fake.NewClientset(&appsv1.Deployment{
			ObjectMeta: metav1.ObjectMeta{Name: "test-deployment", Namespace: "test-system"},
			Status: appsv1.DeploymentStatus{
				Replicas:          2,
				UpdatedReplicas:   2,
				AvailableReplicas: 1,
			},
		})

		err := readiness.WaitForDeploymentReady(
			context.Background(), client, "test-system", "test-deployment", 100*time.Millisecond,
		)

		require.Error(t, err)
		assert.ErrorIs(t, err, readiness.ErrTimeoutExceeded)
	})

	t.Run("TimesOutWhenMissing", func(t *testing.T) {
		t.Parallel()

		client := fake.NewClientset()

		err := readiness.WaitForDeploymentReady(
			context.Background(), client, "test-system", "absent", 100*time.Millisecond,
		)

		require.Error(t, err)
		assert.ErrorIs(t, err, readiness.ErrTimeoutExceeded)
	})
}

func TestWaitForDaemonSetReady(t *testing.T) {
	t.Parallel()

	t.Run("ReadyOnFirstPoll", func(t *testing.T) {
		t.Parallel()

		client := fake.NewClientset(readyDaemonSet("kube-system", "test-daemon"))

		err := readiness.WaitForDaemonSetReady(
			context.Background(), client, "kube-system", "test-daemon", 5*time.Second,
		)

		require.NoError(t, err)
	})

	t.Run("PropagatesAPIError", func(t *testing.T) {
		t.Parallel()

		client := fake.NewClientset()
		client.PrependReactor(
			"get", "daemonsets",
			func(k8stesting.Action) (bool, runtime.Object, error) {
				return true, nil, errAPIBoom
			},
		)

		err := readiness.WaitForDaemonSetReady(
			context.Background(), client, "kube-system", "test-daemon", 5*time.Second,
		)

		require.Error(t, err)
		assert.ErrorIs(t, err, errAPIBoom)
	})

	t.Run("TimesOutWhenNotReady", func(t *testing.T) {
		t.Parallel()

		client := fake.NewClientset(&appsv1.DaemonSet{
			ObjectMeta: metav1.ObjectMeta{Name: "test-daemon", Namespace: "kube-system"},
			Status: appsv1.DaemonSetStatus{
				DesiredNumberScheduled: 2,
				NumberUnavailable:      1,
				UpdatedNumberScheduled: 2,
			},
		})

		err := readiness.WaitForDaemonSetReady(
			context.Background(), client, "kube-system", "test-daemon", 100*time.Millisecond,
		)

		require.Error(t, err)
		assert.ErrorIs(t, err, readiness.ErrTimeoutExceeded)
	})
}

func TestWaitForMultipleResources(t *testing.T) {
	t.Parallel()

	t.Run("EmptyChecks", func(t *testing.T) {
		t.Parallel()

		client := fake.NewClientset()

		err := readiness.WaitForMultipleResources(
			context.Background(), client, []readiness.Check{}, 100*time.Millisecond,
		)

		require.NoError(t, err)
	})

	t.Run("MixedResourceTypes", func(t *testing.T) {
		t.Parallel()

		client := fake.NewClientset(
			readyDeployment("ns1", "deploy1"),
			readyDeployment("ns2", "deploy2"),
			readyDaemonSet("ns1", "daemon1"),
		)

		checks := []readiness.Check{
			{Type: "deployment", Namespace: "ns1", Name: "deploy1"},
			{Type: "deployment", Namespace: "ns2", Name: "deploy2"},
			{Type: "daemonset", Namespace: "ns1", Name: "daemon1"},
		}

		err := readiness.WaitForMultipleResources(
			context.Background(), client, checks, 5*time.Second,
		)

		require.NoError(t, err)
	})

	t.Run("UnknownResourceType", func(t *testing.T) {
		t.Parallel()

		client := fake.NewClientset()

		checks := []readiness.Check{
			{Type: "statefulset", Namespace: "ns1", Name: "thing"},
		}

		err := readiness.WaitForMultipleResources(
			context.Background(), client, checks, 5*time.Second,
		)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown resource type")
	})

	t.Run("FirstFailureAborts", func(t *testing.T) {
		t.Parallel()

		client := fake.NewClientset(readyDeployment("ns1", "deploy1"))

		checks := []readiness.Check{
			{Type: "deployment", Namespace: "ns1", Name: "deploy1"},
			{Type: "deployment", Namespace: "ns1", Name: "absent"},
		}

		err := readiness.WaitForMultipleResources(
			context.Background(), client, checks, 100*time.Millisecond,
		)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "deployment ns1/absent")
	})
}
