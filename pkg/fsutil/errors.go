package fsutil

import "errors"

// Sentinel errors for filesystem operations.
var (
	// ErrPathOutsideBase indicates a resolved path escaped its base directory.
	ErrPathOutsideBase = errors.New("invalid path: file is outside base directory")

	// ErrEmptyOutputPath indicates an empty output path was provided.
	ErrEmptyOutputPath = errors.New("output path cannot be empty")

	// ErrBasePath indicates an empty base path was provided.
	ErrBasePath = errors.New("base path cannot be empty")
)
