package argocd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/k8s-rollouts/devctl/pkg/k8s/readiness"
	"github.com/k8s-rollouts/devctl/pkg/svc/reconciler"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/util/retry"
)

// Reconciler errors.
var (
	// ErrReconcileTimeout is returned when reconciliation times out.
	ErrReconcileTimeout = errors.New("timeout waiting for argocd application sync")
	// ErrOperationFailed is returned when an Argo CD sync operation fails.
	ErrOperationFailed = errors.New("argocd operation failed")
	// ErrConditionFailed is returned when an Application reports a comparison
	// or sync error condition.
	ErrConditionFailed = errors.New("argocd application reported an error condition")
)

// Reconciler constants.
const (
	// DefaultNamespace is the namespace Argo CD Applications live in.
	DefaultNamespace = "argocd"
	// DefaultWaitTimeout bounds how long to wait for an Application to sync.
	DefaultWaitTimeout = 5 * time.Minute
)

// Reconciler handles Argo CD reconciliation operations.
type Reconciler struct {
	*reconciler.Base
}

// newFromBase creates a Reconciler from a base reconciler.
func newFromBase(base *reconciler.Base) *Reconciler {
	return &Reconciler{Base: base}
}

// NewReconciler creates a new Argo CD reconciler from a kubeconfig path.
func NewReconciler(kubeconfigPath, kubeContext string) (*Reconciler, error) {
	r, err := reconciler.New(kubeconfigPath, kubeContext, newFromBase)
	if err != nil {
		return nil, fmt.Errorf("create argocd reconciler: %w", err)
	}

	return r, nil
}

// NewReconcilerWithClient creates a Reconciler with a provided dynamic client (for testing).
func NewReconcilerWithClient(dynamicClient dynamic.Interface) *Reconciler {
	return reconciler.NewWithClient(dynamicClient, newFromBase)
}

// ReconcileOptions configures the reconciliation behavior.
type ReconcileOptions struct {
	// Timeout for waiting for application sync. Zero uses DefaultWaitTimeout.
	Timeout time.Duration
	// HardRefresh requests Argo CD to refresh caches.
	HardRefresh bool
}

// Reconcile triggers and waits for an Argo CD application sync.
func (r *Reconciler) Reconcile(ctx context.Context, name string, opts ReconcileOptions) error {
	err := r.TriggerRefresh(ctx, name, opts.HardRefresh)
	if err != nil {
		return err
	}

	return r.WaitForApplication(ctx, name, opts.Timeout)
}

// TriggerRefresh triggers an Argo CD application refresh.
// Uses retry logic to handle optimistic concurrency conflicts when the Application
// is modified by Argo CD controllers between GET and UPDATE operations.
func (r *Reconciler) TriggerRefresh(ctx context.Context, name string, hardRefresh bool) error {
	appClient := r.applicationClient()

	return retry.RetryOnConflict(retry.DefaultRetry, func() error {
		app, err := appClient.Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return fmt.Errorf("get argocd application %s: %w", name, err)
		}

		annotations := app.GetAnnotations()
		if annotations == nil {
			annotations = make(map[string]string)
		}

		if hardRefresh {
			annotations[argoCDRefreshAnnotationKey] = argoCDHardRefreshAnnotation
		} else {
			annotations[argoCDRefreshAnnotationKey] = argoCDNormalRefreshAnnotation
		}

		app.SetAnnotations(annotations)

		_, err = appClient.Update(ctx, app, metav1.UpdateOptions{})
		if err != nil {
			return fmt.Errorf("trigger argocd refresh: %w", err)
		}

		return nil
	})
}

// WaitForApplication waits for the named Application to be synced and healthy.
func (r *Reconciler) WaitForApplication(
	ctx context.Context,
	name string,
	timeout time.Duration,
) error {
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}

	appClient := r.applicationClient()

	err := readiness.PollForReadiness(ctx, timeout, func(ctx context.Context) (bool, error) {
		return r.checkApplicationStatus(ctx, appClient, name)
	})
	if err != nil {
		if errors.Is(err, readiness.ErrTimeoutExceeded) {
			return fmt.Errorf("%w: application %s", ErrReconcileTimeout, name)
		}

		return err
	}

	return nil
}

// ApplicationStatus returns the status summary of one Application.
func (r *Reconciler) ApplicationStatus(
	ctx context.Context,
	name string,
) (ApplicationStatus, error) {
	app, err := r.applicationClient().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return ApplicationStatus{}, fmt.Errorf("get argocd application %s: %w", name, err)
	}

	return applicationStatusFrom(app), nil
}

// ListApplicationStatuses returns the status summary of every Application.
func (r *Reconciler) ListApplicationStatuses(ctx context.Context) ([]ApplicationStatus, error) {
	list, err := r.applicationClient().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list argocd applications: %w", err)
	}

	statuses := make([]ApplicationStatus, 0, len(list.Items))
	for i := range list.Items {
		statuses = append(statuses, applicationStatusFrom(&list.Items[i]))
	}

	return statuses, nil
}

// applicationClient returns a dynamic client for Argo CD Applications.
func (r *Reconciler) applicationClient() dynamic.ResourceInterface {
	return r.Dynamic.Resource(applicationGVR()).Namespace(DefaultNamespace)
}

// checkApplicationStatus checks if the application is synced and healthy.
func (r *Reconciler) checkApplicationStatus(
	ctx context.Context,
	client dynamic.ResourceInterface,
	name string,
) (bool, error) {
	app, err := client.Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		// Child applications only appear once the root application has
		// synced, so a missing application keeps polling.
		if apierrors.IsNotFound(err) {
			return false, nil
		}

		return false, fmt.Errorf("get argocd application %s: %w", name, err)
	}

	// Check for operation state first (ongoing sync operations)
	err = r.checkOperationState(app)
	if err != nil {
		return false, err
	}

	// Check for error conditions
	err = r.checkConditions(app)
	if err != nil {
		return false, err
	}

	// Check if synced and healthy
	return isApplicationSynced(app), nil
}

// checkOperationState checks if there is a failed sync operation. Source
// availability problems are treated as transient: the revision may still be
// propagating to the repository, so polling continues.
func (r *Reconciler) checkOperationState(app *unstructured.Unstructured) error {
	operationState, found, _ := unstructured.NestedMap(app.Object, "status", "operationState")
	if !found {
		return nil // No operation in progress
	}

	phase, _, _ := unstructured.NestedString(operationState, "phase")
	if phase != "Error" && phase != "Failed" {
		return nil
	}

	message, _, _ := unstructured.NestedString(operationState, "message")
	if isSourceRelatedError(message) {
		return nil
	}

	return fmt.Errorf("%w: %s", ErrOperationFailed, message)
}

// checkConditions checks for error conditions, skipping transient source
// availability problems.
func (r *Reconciler) checkConditions(app *unstructured.Unstructured) error {
	conditions, found, _ := unstructured.NestedSlice(app.Object, "status", "conditions")
	if !found {
		return nil
	}

	for _, condition := range conditions {
		condMap, ok := condition.(map[string]any)
		if !ok {
			continue
		}

		condType, _, _ := unstructured.NestedString(condMap, "type")
		condMessage, _, _ := unstructured.NestedString(condMap, "message")

		if condType == "ComparisonError" || condType == "SyncError" {
			if isSourceRelatedError(condMessage) {
				continue
			}

			return fmt.Errorf("%w: %s: %s", ErrConditionFailed, condType, condMessage)
		}
	}

	return nil
}

// isSourceRelatedError checks if the error message indicates a source availability issue.
func isSourceRelatedError(message string) bool {
	sourceProblemPatterns := []string{
		"manifest unknown",
		"not found",
		"does not exist",
		"failed to fetch",
		"repository not found",
		"unable to resolve",
		"connection refused",
	}

	lowerMessage := strings.ToLower(message)
	for _, pattern := range sourceProblemPatterns {
		if strings.Contains(lowerMessage, pattern) {
			return true
		}
	}

	return false
}

// isApplicationSynced checks if the application is synced and healthy.
func isApplicationSynced(app *unstructured.Unstructured) bool {
	syncStatus, found, _ := unstructured.NestedString(app.Object, "status", "sync", "status")
	if !found || syncStatus != "Synced" {
		return false
	}

	healthStatus, found, _ := unstructured.NestedString(app.Object, "status", "health", "status")
	if !found || healthStatus != "Healthy" {
		return false
	}

	return true
}

// applicationStatusFrom extracts the user-facing status summary from an Application.
func applicationStatusFrom(app *unstructured.Unstructured) ApplicationStatus {
	syncStatus, _, _ := unstructured.NestedString(app.Object, "status", "sync", "status")
	healthStatus, _, _ := unstructured.NestedString(app.Object, "status", "health", "status")
	phase, _, _ := unstructured.NestedString(app.Object, "status", "operationState", "phase")
	revision, _, _ := unstructured.NestedString(app.Object, "status", "sync", "revision")

	message, _, _ := unstructured.NestedString(app.Object, "status", "operationState", "message")
	if message == "" {
		message = firstConditionMessage(app)
	}

	return ApplicationStatus{
		Name:           app.GetName(),
		SyncStatus:     syncStatus,
		HealthStatus:   healthStatus,
		OperationPhase: phase,
		Revision:       revision,
		Message:        message,
	}
}

func firstConditionMessage(app *unstructured.Unstructured) string {
	conditions, found, _ := unstructured.NestedSlice(app.Object, "status", "conditions")
	if !found || len(conditions) == 0 {
		return ""
	}

	condMap, ok := conditions[0].(map[string]any)
	if !ok {
		return ""
	}

	message, _, _ := unstructured.NestedString(condMap, "message")

	return message
}
