// Package clustererrors provides common error types for cluster provisioners.
//
// This package defines sentinel errors that are shared across the provisioner
// implementations (Minikube, Kind) to enable consistent error handling in
// command handlers.
package clustererrors

import "errors"

// ErrClusterNotFound is returned when a cluster operation is attempted on a non-existent cluster.
// This error is used by all provisioner implementations when attempting
// to delete, start, or stop a cluster that does not exist.
var ErrClusterNotFound = errors.New("cluster not found")

// ErrProviderNotSet is returned when a node operation requires an infrastructure
// provider and none has been configured on the provisioner.
var ErrProviderNotSet = errors.New("infrastructure provider not set")
