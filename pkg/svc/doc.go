// Package svc provides service layer components for devctl.
//
// This package contains the business logic layer that coordinates between
// the CLI commands and the underlying clients/infrastructure.
//
// Subpackages:
//   - forwarder: Port-forward session management and probing
//   - image: Container image extraction from rendered manifests
//   - installer: Helm component installers for the GitOps and observability stack
//   - provider: Infrastructure providers (Docker node containers)
//   - provisioner: Cluster provisioning for minikube and kind
//   - reconciler: Common base for GitOps reconciliation clients
//   - sampleapi: The demo HTTP service driven through rollouts
//   - supervisor: Detached background process management
//   - verify: Read-only verification suites for the environment
package svc
