package marshaller

import (
	"fmt"

	"sigs.k8s.io/yaml"
)

// YAMLMarshaller marshals models to and from YAML.
type YAMLMarshaller[T any] struct{}

var _ Marshaller[struct{}] = YAMLMarshaller[struct{}]{}

// NewYAMLMarshaller creates a YAML marshaller for models of type T.
func NewYAMLMarshaller[T any]() YAMLMarshaller[T] {
	return YAMLMarshaller[T]{}
}

// Marshal serializes the model to a YAML string.
func (YAMLMarshaller[T]) Marshal(model T) (string, error) {
	data, err := yaml.Marshal(model)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	return string(data), nil
}

// Unmarshal deserializes YAML data into the model.
func (YAMLMarshaller[T]) Unmarshal(data []byte, model *T) error {
	err := yaml.Unmarshal(data, model)
	if err != nil {
		return fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	return nil
}

// UnmarshalString deserializes a YAML string into the model.
func (m YAMLMarshaller[T]) UnmarshalString(data string, model *T) error {
	return m.Unmarshal([]byte(data), model)
}
