package provider

import "errors"

// Common errors for provider operations.
var (
	// ErrNoNodes is returned when no nodes are found for a cluster.
	ErrNoNodes = errors.New("no nodes found for cluster")

	// ErrProviderUnavailable is returned when the provider is not available.
	ErrProviderUnavailable = errors.New("provider is not available")

	// ErrUnknownLabelScheme is returned when a provider is configured with an
	// unrecognized container label scheme.
	ErrUnknownLabelScheme = errors.New("unknown label scheme")

	// ErrSkipAction signals that a lifecycle action was skipped because the
	// cluster is already in the desired state.
	ErrSkipAction = errors.New("skip action")
)
