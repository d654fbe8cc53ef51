package v1alpha1

import "errors"

// ErrInvalidProvisioner is returned when an invalid provisioner is specified.
var ErrInvalidProvisioner = errors.New("invalid provisioner")

// ErrInvalidStrategy is returned when an invalid rollout strategy is specified.
var ErrInvalidStrategy = errors.New("invalid strategy")

// ErrClusterNameTooLong is returned when the cluster name exceeds the maximum length.
var ErrClusterNameTooLong = errors.New("cluster name is too long")

// ErrClusterNameInvalid is returned when the cluster name is not DNS-1123 compliant.
var ErrClusterNameInvalid = errors.New("cluster name is invalid")

// ErrInvalidReplicas is returned when the replica count is not positive.
var ErrInvalidReplicas = errors.New("replicas must be at least 1")

// ErrInvalidForward is returned when a forward entry is incomplete.
var ErrInvalidForward = errors.New("invalid forward")
