// Package security holds path validation helpers for file access driven by
// external input, such as exercise config names supplied over the API.
package security

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidatePathWithinDirectory checks that a file path resolves inside the
// given directory. It guards the config loader against path traversal: a
// config file name like "../../etc/passwd" must not escape the configured
// exercises directory, even through symlinks.
func ValidatePathWithinDirectory(filePath, safeDir string) error {
	absPath, err := filepath.Abs(filepath.Clean(filePath))
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	absSafeDir, err := filepath.Abs(safeDir)
	if err != nil {
		return fmt.Errorf("failed to resolve safe directory path: %w", err)
	}

	// Resolve symlinks where the paths exist. A nonexistent target is
	// checked against its deepest existing parent so a symlinked parent
	// directory cannot smuggle the path outside safeDir.
	canonicalPath := resolveExisting(absPath)
	canonicalSafeDir := resolveExisting(absSafeDir)

	rel, err := filepath.Rel(canonicalSafeDir, canonicalPath)
	if err != nil {
		return fmt.Errorf("failed to compare paths: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path %q escapes directory %q", filePath, safeDir)
	}
	return nil
}

// resolveExisting evaluates symlinks for the deepest existing prefix of an
// absolute path and rejoins the remaining components.
func resolveExisting(absPath string) string {
	if resolved, err := filepath.EvalSymlinks(absPath); err == nil {
		return resolved
	}

	checkPath := absPath
	for {
		parent := filepath.Dir(checkPath)
		if parent == checkPath {
			return absPath
		}
		if resolved, err := filepath.EvalSymlinks(parent); err == nil {
			rel, relErr := filepath.Rel(parent, absPath)
			if relErr != nil {
				return absPath
			}
			return filepath.Join(resolved, rel)
		}
		checkPath = parent
	}
}
