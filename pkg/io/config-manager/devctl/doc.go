// Package configmanager provides configuration management for devctl
// v1alpha1.Environment configurations.
//
// This package contains the core Manager implementation for handling
// environment configurations, field selector binding functionality for
// automatic CLI flag creation, and various field selection utilities for
// working with devctl environment configurations.
//
// Note: This package shares the "configmanager" package name with its parent
// directory (pkg/io/config-manager). Import with an alias for clarity:
//
//	import devctlconfigmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
package configmanager
