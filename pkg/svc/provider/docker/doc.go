// Package docker provides a Docker-based infrastructure provider.
//
// The Docker provider inspects Kubernetes cluster nodes running as Docker
// containers. It supports the container labeling schemes of both supported
// provisioners:
//   - Minikube: Uses the container label "name.minikube.sigs.k8s.io"
//   - Kind: Uses the container labels "io.x-k8s.kind.cluster" and "io.x-k8s.kind.role"
//
// This provider is used for cluster status and list operations while the
// provisioners handle distribution-specific configuration.
package docker
