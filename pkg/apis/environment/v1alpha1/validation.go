package v1alpha1

import (
	"fmt"
	"regexp"
)

// clusterNameRegex matches DNS-1123 subdomain names: lowercase alphanumeric with optional hyphens.
// Must start with a letter, end with alphanumeric, and be at most 63 characters.
// See: https://kubernetes.io/docs/concepts/overview/working-with-objects/names/#dns-subdomain-names
var clusterNameRegex = regexp.MustCompile(`^[a-z][a-z0-9-]*[a-z0-9]$|^[a-z]$`)

// ClusterNameMaxLength is the maximum length for a cluster name.
const ClusterNameMaxLength = 63

// ValidateClusterName validates that a cluster name is DNS-1123 compliant.
// Cluster names are used in Docker container names, Kubernetes contexts, and YAML fields,
// which require DNS-1123 subdomain names (lowercase alphanumeric and dashes only).
//
// Returns nil if the name is valid, or an error describing the validation failure.
func ValidateClusterName(name string) error {
	if name == "" {
		return nil // Empty names are allowed (means use default)
	}

	if len(name) > ClusterNameMaxLength {
		return fmt.Errorf(
			"%w: %q exceeds max %d characters (got %d)",
			ErrClusterNameTooLong, name, ClusterNameMaxLength, len(name),
		)
	}

	if !clusterNameRegex.MatchString(name) {
		return fmt.Errorf(
			"%w: %q must be DNS-1123 compliant "+
				"(lowercase letters, numbers, and hyphens; must start with a letter; "+
				"must not end with a hyphen)",
			ErrClusterNameInvalid, name,
		)
	}

	return nil
}

// ValidateReplicas validates that the sample application replica count is positive.
// Zero is allowed (means use default).
func ValidateReplicas(replicas int32) error {
	if replicas < 0 {
		return fmt.Errorf("%w (got %d)", ErrInvalidReplicas, replicas)
	}

	return nil
}

// ValidateForward validates that a forward entry names its target.
// A forward needs a name, a namespace, a selector, and a remote port to be usable.
func ValidateForward(forward ForwardSpec) error {
	if forward.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidForward)
	}

	if forward.Namespace == "" {
		return fmt.Errorf("%w: %q has no namespace", ErrInvalidForward, forward.Name)
	}

	if forward.Selector == "" {
		return fmt.Errorf("%w: %q has no selector", ErrInvalidForward, forward.Name)
	}

	if forward.RemotePort <= 0 {
		return fmt.Errorf(
			"%w: %q has invalid remote port %d",
			ErrInvalidForward, forward.Name, forward.RemotePort,
		)
	}

	if forward.LocalPort < 0 {
		return fmt.Errorf(
			"%w: %q has invalid local port %d",
			ErrInvalidForward, forward.Name, forward.LocalPort,
		)
	}

	return nil
}
