// Package apis provides API type definitions for devctl resources.
//
// This package contains versioned API types following Kubernetes API conventions:
//
//   - environment: Environment configuration types for devctl declarative configuration
//
// The API types are designed to be serializable to YAML and support
// declarative configuration workflows.
package apis
