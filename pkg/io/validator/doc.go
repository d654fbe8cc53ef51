// Package validator provides interfaces for configuration file validation.
//
// This package defines the Validator interface and common validation types
// used by configuration validators for ensuring configuration correctness
// and consistency.
//
// Key functionality:
//   - Validator[T]: Generic interface for configuration validation
//   - ValidationResult: Structured validation results with errors and warnings
//   - ValidationError: Detailed error with field, message, fix suggestions, and location
//   - FileLocation: Precise file location information for errors
//   - ValidateMetadata: Common metadata validation for Kind/APIVersion fields
//
// Subpackages:
//   - environment: devctl Environment configuration validator
package validator
