package argocd_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/k8s-rollouts/devctl/pkg/client/argocd"
	"github.com/stretchr/testify/require"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	k8stesting "k8s.io/client-go/testing"
)

type testReconciler struct {
	rec *argocd.Reconciler
	dyn *dynamicfake.FakeDynamicClient
	gvr schema.GroupVersionResource
}

func newTestReconciler(t *testing.T, objects ...runtime.Object) testReconciler {
	t.Helper()

	gvr := applicationsGVR()
	scheme := runtime.NewScheme()
	dyn := dynamicfake.NewSimpleDynamicClientWithCustomListKinds(
		scheme,
		map[schema.GroupVersionResource]string{gvr: "ApplicationList"},
		objects...,
	)

	return testReconciler{
		rec: argocd.NewReconcilerWithClient(dyn),
		dyn: dyn,
		gvr: gvr,
	}
}

func applicationWithStatus(name, syncStatus, healthStatus string) *unstructured.Unstructured {
	app := newApplicationObject(name, "main")

	status := map[string]any{}
	if syncStatus != "" {
		status["sync"] = map[string]any{
			"status":   syncStatus,
			"revision": "4f3e2d1",
		}
	}

	if healthStatus != "" {
		status["health"] = map[string]any{"status": healthStatus}
	}

	app.Object["status"] = status

	return app
}

func withOperationState(
	app *unstructured.Unstructured,
	phase, message string,
) *unstructured.Unstructured {
	err := unstructured.SetNestedMap(app.Object, map[string]any{
		"phase":   phase,
		"message": message,
	}, "status", "operationState")
	if err != nil {
		panic(err)
	}

	return app
}

func withCondition(
	app *unstructured.Unstructured,
	conditionType, message string,
) *unstructured.Unstructured {
	err := unstructured.SetNestedSlice(app.Object, []any{
		map[string]any{
			"type":    conditionType,
			"message": message,
		},
	}, "status", "conditions")
	if err != nil {
		panic(err)
	}

	return app
}

func (r testReconciler) getApplication(t *testing.T, name string) *unstructured.Unstructured {
	t.Helper()

	app, err := r.dyn.Resource(r.gvr).
		Namespace(argocd.DefaultNamespace).
		Get(context.Background(), name, metav1.GetOptions{})
	require.NoError(t, err)

	return app
}

func TestReconcilerTriggerRefresh_SetsHardRefreshAnnotation(t *testing.T) {
	t.Parallel()

	rec := newTestReconciler(t, applicationWithStatus("sample-app", "Synced", "Healthy"))

	err := rec.rec.TriggerRefresh(context.Background(), "sample-app", true)
	require.NoError(t, err)

	app := rec.getApplication(t, "sample-app")
	require.Equal(t, "hard", app.GetAnnotations()["argocd.argoproj.io/refresh"])
}

func TestReconcilerTriggerRefresh_SetsNormalRefreshAnnotation(t *testing.T) {
	t.Parallel()

	rec := newTestReconciler(t, applicationWithStatus("sample-app", "Synced", "Healthy"))

	err := rec.rec.TriggerRefresh(context.Background(), "sample-app", false)
	require.NoError(t, err)

	app := rec.getApplication(t, "sample-app")
	require.Equal(t, "normal", app.GetAnnotations()["argocd.argoproj.io/refresh"])
}

func TestReconcilerTriggerRefresh_RetriesOnConflict(t *testing.T) {
	t.Parallel()

	rec := newTestReconciler(t, applicationWithStatus("sample-app", "Synced", "Healthy"))

	conflictErr := apierrors.NewConflict(
		schema.GroupResource{Group: "argoproj.io", Resource: "applications"},
		"sample-app",
		errors.New("object was modified"),
	)

	updates := 0
	rec.dyn.PrependReactor(
		"update",
		"applications",
		func(_ k8stesting.Action) (bool, runtime.Object, error) {
			updates++
			if updates == 1 {
				return true, nil, conflictErr
			}

			return false, nil, nil
		},
	)

	err := rec.rec.TriggerRefresh(context.Background(), "sample-app", true)
	require.NoError(t, err)
	require.Equal(t, 2, updates)

	app := rec.getApplication(t, "sample-app")
	require.Equal(t, "hard", app.GetAnnotations()["argocd.argoproj.io/refresh"])
}

func TestReconcilerTriggerRefresh_ReturnsErrorForMissingApplication(t *testing.T) {
	t.Parallel()

	rec := newTestReconciler(t)

	err := rec.rec.TriggerRefresh(context.Background(), "nonexistent", false)
	require.Error(t, err)
	require.ErrorContains(t, err, "get argocd application")
}

func TestReconcilerWaitForApplication_ReturnsWhenSyncedAndHealthy(t *testing.T) {
	t.Parallel()

	rec := newTestReconciler(t, applicationWithStatus("sample-app", "Synced", "Healthy"))

	err := rec.rec.WaitForApplication(context.Background(), "sample-app", 5*time.Second)
	require.NoError(t, err)
}

func TestReconcilerWaitForApplication_TimesOutWhileOutOfSync(t *testing.T) {
	t.Parallel()

	rec := newTestReconciler(t, applicationWithStatus("sample-app", "OutOfSync", "Progressing"))

	err := rec.rec.WaitForApplication(context.Background(), "sample-app", 100*time.Millisecond)
	require.Error(t, err)
	require.ErrorIs(t, err, argocd.ErrReconcileTimeout)
	require.ErrorContains(t, err, "sample-app")
}

func TestReconcilerWaitForApplication_ReportsFailedOperation(t *testing.T) {
	t.Parallel()

	app := withOperationState(
		applicationWithStatus("sample-app", "OutOfSync", "Degraded"),
		"Failed",
		"rpc error: permission denied",
	)
	rec := newTestReconciler(t, app)

	err := rec.rec.WaitForApplication(context.Background(), "sample-app", 5*time.Second)
	require.Error(t, err)
	require.ErrorIs(t, err, argocd.ErrOperationFailed)
	require.ErrorContains(t, err, "permission denied")
}

func TestReconcilerWaitForApplication_KeepsPollingWhileSourceUnavailable(t *testing.T) {
	t.Parallel()

	// A just-pushed revision can briefly be unresolvable while the chart
	// museum or git provider catches up. That must not abort the wait.
	app := withOperationState(
		applicationWithStatus("sample-app", "OutOfSync", "Progressing"),
		"Error",
		"rpc error: code = Unknown desc = manifest unknown: manifest unknown",
	)
	rec := newTestReconciler(t, app)

	err := rec.rec.WaitForApplication(context.Background(), "sample-app", 100*time.Millisecond)
	require.Error(t, err)
	require.ErrorIs(t, err, argocd.ErrReconcileTimeout)
	require.NotErrorIs(t, err, argocd.ErrOperationFailed)
}

func TestReconcilerWaitForApplication_ReportsErrorCondition(t *testing.T) {
	t.Parallel()

	app := withCondition(
		applicationWithStatus("sample-app", "Unknown", ""),
		"ComparisonError",
		"permission denied reading repository",
	)
	rec := newTestReconciler(t, app)

	err := rec.rec.WaitForApplication(context.Background(), "sample-app", 5*time.Second)
	require.Error(t, err)
	require.ErrorIs(t, err, argocd.ErrConditionFailed)
	require.ErrorContains(t, err, "ComparisonError")
}

func TestReconcilerWaitForApplication_IgnoresSourceRelatedCondition(t *testing.T) {
	t.Parallel()

	app := withCondition(
		applicationWithStatus("sample-app", "Unknown", ""),
		"ComparisonError",
		"repository not found",
	)
	rec := newTestReconciler(t, app)

	err := rec.rec.WaitForApplication(context.Background(), "sample-app", 100*time.Millisecond)
	require.Error(t, err)
	require.ErrorIs(t, err, argocd.ErrReconcileTimeout)
	require.NotErrorIs(t, err, argocd.ErrConditionFailed)
}

func TestReconcilerWaitForApplication_KeepsPollingForMissingApplication(t *testing.T) {
	t.Parallel()

	rec := newTestReconciler(t)

	err := rec.rec.WaitForApplication(context.Background(), "sample-app", 100*time.Millisecond)
	require.Error(t, err)
	require.ErrorIs(t, err, argocd.ErrReconcileTimeout)
}

func TestReconcilerReconcile_RefreshesAndWaits(t *testing.T) {
	t.Parallel()

	rec := newTestReconciler(t, applicationWithStatus("sample-app", "Synced", "Healthy"))

	err := rec.rec.Reconcile(context.Background(), "sample-app", argocd.ReconcileOptions{
		Timeout:     5 * time.Second,
		HardRefresh: true,
	})
	require.NoError(t, err)

	app := rec.getApplication(t, "sample-app")
	require.Equal(t, "hard", app.GetAnnotations()["argocd.argoproj.io/refresh"])
}

func TestReconcilerApplicationStatus(t *testing.T) {
	t.Parallel()

	app := withOperationState(
		applicationWithStatus("sample-app", "Synced", "Healthy"),
		"Succeeded",
		"successfully synced",
	)
	rec := newTestReconciler(t, app)

	status, err := rec.rec.ApplicationStatus(context.Background(), "sample-app")
	require.NoError(t, err)
	require.Equal(t, "sample-app", status.Name)
	require.Equal(t, "Synced", status.SyncStatus)
	require.Equal(t, "Healthy", status.HealthStatus)
	require.Equal(t, "Succeeded", status.OperationPhase)
	require.Equal(t, "4f3e2d1", status.Revision)
	require.Equal(t, "successfully synced", status.Message)
	require.True(t, status.Synced())
}

func TestReconcilerApplicationStatus_ReturnsErrorForMissingApplication(t *testing.T) {
	t.Parallel()

	rec := newTestReconciler(t)

	_, err := rec.rec.ApplicationStatus(context.Background(), "nonexistent")
	require.Error(t, err)
	require.ErrorContains(t, err, "get argocd application")
}

func TestReconcilerListApplicationStatuses(t *testing.T) {
	t.Parallel()

	rec := newTestReconciler(t,
		applicationWithStatus("app-of-apps", "Synced", "Healthy"),
		applicationWithStatus("sample-app", "OutOfSync", "Progressing"),
	)

	statuses, err := rec.rec.ListApplicationStatuses(context.Background())
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	names := make([]string, 0, len(statuses))
	for _, status := range statuses {
		names = append(names, status.Name)
	}

	require.ElementsMatch(t, []string{"app-of-apps", "sample-app"}, names)
}

func TestApplicationStatusSynced(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   argocd.ApplicationStatus
		expected bool
	}{
		{
			name:     "synced and healthy",
			status:   argocd.ApplicationStatus{SyncStatus: "Synced", HealthStatus: "Healthy"},
			expected: true,
		},
		{
			name:     "out of sync",
			status:   argocd.ApplicationStatus{SyncStatus: "OutOfSync", HealthStatus: "Healthy"},
			expected: false,
		},
		{
			name:     "degraded",
			status:   argocd.ApplicationStatus{SyncStatus: "Synced", HealthStatus: "Degraded"},
			expected: false,
		},
		{
			name:     "empty",
			status:   argocd.ApplicationStatus{},
			expected: false,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, testCase.expected, testCase.status.Synced())
		})
	}
}
