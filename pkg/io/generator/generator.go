// Package generator provides an interface for generating files from code.
//
// The Generator interface is implemented by format-specific generators that
// turn Go models into file content, optionally writing the result to disk.
//
// Subpackages:
//   - yaml: Generic YAML generator for arbitrary models
//   - manifests: Kubernetes manifests for the sample application stack
package generator

// Generator is implemented by specific content generators.
// The Options type parameter allows each implementation to define its own options structure.
type Generator[T any, Options any] interface {
	Generate(model T, opts Options) (string, error)
}
