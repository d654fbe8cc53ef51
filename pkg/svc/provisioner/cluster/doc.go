// Package clusterprovisioner provides cluster provisioning for the supported
// local provisioners.
//
// # Architecture
//
// Provisioners handle tool-specific Kubernetes lifecycle while delegating
// container operations to Providers (pkg/svc/provider) where the tool lacks a
// native command:
//
//   - Providers: start/stop/inspect node containers (Docker)
//   - Provisioners: drive the provisioning tool (minikube CLI, kind library)
//
// # Supported Provisioners
//
//   - Minikube: executes the minikube binary with the docker driver
//   - Kind: uses kind's Cobra commands through a CommandRunner
package clusterprovisioner
