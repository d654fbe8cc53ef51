package argocd

import "context"

// Manager ensures Argo CD GitOps resources exist and can point them at a new
// git revision.
//
// Implementations are expected to be idempotent.
type Manager interface {
	Bootstrap(ctx context.Context, opts BootstrapOptions) error
	SetTargetRevision(ctx context.Context, opts SetRevisionOptions) error
}

// ApplicationStatus is a lightweight user-facing summary of one Application.
type ApplicationStatus struct {
	// Name is the Application name.
	Name string
	// SyncStatus is the Argo CD sync status, e.g. "Synced" or "OutOfSync".
	SyncStatus string
	// HealthStatus is the Argo CD health status, e.g. "Healthy" or "Progressing".
	HealthStatus string
	// OperationPhase is the phase of the last sync operation, if any.
	OperationPhase string
	// Revision is the revision the Application is synced to.
	Revision string
	// Message is a short status message from the last operation or condition.
	Message string
}

// Synced reports whether the Application is both synced and healthy.
func (s ApplicationStatus) Synced() bool {
	return s.SyncStatus == "Synced" && s.HealthStatus == "Healthy"
}
