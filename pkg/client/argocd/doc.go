// Package argocd provides Argo CD GitOps integration for devctl.
//
// This package is responsible for creating and maintaining the Argo CD
// resources backing the demo environment (repository Secret and root
// app-of-apps Application) and for triggering and awaiting reconciliation
// of Applications through the dynamic client.
//
// Implementations must remain credential-free: devctl must not fetch or print
// Argo CD admin credentials.
package argocd
