// Package io provides utilities for input and output operations related to configuration management.
//
// This package contains domain-specific I/O utilities focused on configuration
// management, generation, validation, and scaffolding operations.
//
// Subpackages:
//   - config-manager: Configuration loading and management
//   - generator: Manifest and configuration generation
//   - marshaller: Serialization and deserialization
//   - scaffolder: Project scaffolding and file generation
//   - validator: Configuration validation
package io
