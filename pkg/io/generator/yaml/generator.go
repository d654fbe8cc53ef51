// Package yamlgenerator provides generation of YAML files from Go models.
package yamlgenerator

import (
	"fmt"

	"github.com/k8s-rollouts/devctl/pkg/fsutil"
	"github.com/k8s-rollouts/devctl/pkg/io/marshaller"
)

// Options configures YAML generation output behavior.
type Options struct {
	// Output is the file path to write the generated YAML to.
	// When empty, the YAML is only returned as a string.
	Output string
	// Force overwrites an existing output file.
	Force bool
}

// Generator generates YAML content from models of type T.
type Generator[T any] struct {
	marshaller marshaller.Marshaller[T]
}

// NewGenerator creates a YAML generator for models of type T.
func NewGenerator[T any]() *Generator[T] {
	return &Generator[T]{
		marshaller: marshaller.NewYAMLMarshaller[T](),
	}
}

// Generate marshals the model to YAML and optionally writes it to opts.Output.
// It returns the generated YAML content.
func (g *Generator[T]) Generate(model T, opts Options) (string, error) {
	content, err := g.marshaller.Marshal(model)
	if err != nil {
		return "", fmt.Errorf("failed to generate YAML: %w", err)
	}

	if opts.Output == "" {
		return content, nil
	}

	written, err := fsutil.TryWriteFile(content, opts.Output, opts.Force)
	if err != nil {
		return "", fmt.Errorf("failed to write YAML to file: %w", err)
	}

	return written, nil
}
