// Package provider defines infrastructure providers for running Kubernetes cluster nodes.
//
// Providers handle infrastructure-level operations:
//   - Inspecting nodes (Docker containers backing minikube and kind clusters)
//   - Starting and stopping nodes
//   - Cleaning up provider-specific resources
//
// This package is separate from the provisioner package which handles
// distribution-specific operations (creating clusters, waiting for the API
// server, deleting clusters).
//
// Currently supported providers:
//   - Docker: Inspects cluster nodes running as Docker containers (minikube
//     with the docker driver, kind)
package provider
