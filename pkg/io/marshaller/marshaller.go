// Package marshaller provides serialization and deserialization of models.
//
// The Marshaller interface abstracts the wire format so generators and config
// managers can stay format-agnostic. The YAML implementation round-trips
// through JSON, so models follow their json tags (or exported field names when
// untagged) and map keys are emitted in sorted order.
package marshaller

// Marshaller converts models of type T to and from their serialized form.
type Marshaller[T any] interface {
	// Marshal serializes the model to a string.
	Marshal(model T) (string, error)
	// Unmarshal deserializes data into the model.
	Unmarshal(data []byte, model *T) error
	// UnmarshalString deserializes a string into the model.
	UnmarshalString(data string, model *T) error
}
