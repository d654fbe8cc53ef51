// Package provisioner provides cluster provisioning services.
//
// The cluster subpackage manages local Kubernetes cluster lifecycles with
// provisioner-specific implementations (minikube, kind), handling create,
// start, stop, and delete operations.
package provisioner
