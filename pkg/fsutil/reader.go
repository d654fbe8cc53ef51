package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File reading operations.

// ReadFileSafe reads a file while ensuring it resolves inside the given base
// directory. Relative paths are resolved against basePath. The check guards
// against path traversal when the file path originates from user input.
//
// Returns ErrBasePath if basePath is empty, and ErrPathOutsideBase if the
// resolved path escapes the base directory.
func ReadFileSafe(basePath string, filePath string) ([]byte, error) {
	if basePath == "" {
		return nil, ErrBasePath
	}

	absBase, err := filepath.Abs(filepath.Clean(basePath))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base path %s: %w", basePath, err)
	}

	resolved := filePath
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(absBase, resolved)
	}

	resolved = filepath.Clean(resolved)

	relative, err := filepath.Rel(absBase, resolved)
	if err != nil || relative == ".." || strings.HasPrefix(relative, ".."+string(filepath.Separator)) {
		return nil, ErrPathOutsideBase
	}

	data, err := os.ReadFile(resolved) //nolint:gosec // G304: path is validated against the base directory above.
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", resolved, err)
	}

	return data, nil
}
