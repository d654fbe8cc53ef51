// Package client provides embedded Kubernetes and container tool clients.
//
// This package contains Go library wrappers for the tools devctl embeds
// directly, eliminating external binary dependencies:
//
//   - argocd: Argo CD application and repository management
//   - docker: Docker engine client construction
//   - helm: Helm chart installation and management
//   - kubeconform: Kubernetes manifest validation
//   - kubectl: Kubernetes API operations
//   - netretry: Retry policies for flaky network calls
//   - portforward: Pod port-forward tunnels
//   - rollouts: Argo Rollouts custom resource client
//
// By embedding these clients as Go libraries, devctl only requires Docker
// as an external dependency, simplifying installation and ensuring
// version consistency across all components.
package client
