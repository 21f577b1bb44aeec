package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePathWithinDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	inside := filepath.Join(dir, "bicep_curl.json")
	require.NoError(t, os.WriteFile(inside, []byte("{}"), 0o644))

	t.Run("file inside directory", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, ValidatePathWithinDirectory(inside, dir))
	})

	t.Run("nonexistent file inside directory", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, ValidatePathWithinDirectory(filepath.Join(dir, "new.json"), dir))
	})

	t.Run("nested file inside directory", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, ValidatePathWithinDirectory(filepath.Join(dir, "sub", "a.json"), dir))
	})

	t.Run("traversal escapes directory", func(t *testing.T) {
		t.Parallel()
		err := ValidatePathWithinDirectory(filepath.Join(dir, "..", "escape.json"), dir)
		assert.ErrorContains(t, err, "escapes directory")
	})

	t.Run("absolute path outside directory", func(t *testing.T) {
		t.Parallel()
		err := ValidatePathWithinDirectory("/etc/passwd", dir)
		assert.ErrorContains(t, err, "escapes directory")
	})

	t.Run("symlinked parent escapes directory", func(t *testing.T) {
		t.Parallel()
		outside := t.TempDir()
		link := filepath.Join(dir, "sneaky")
		require.NoError(t, os.Symlink(outside, link))

		err := ValidatePathWithinDirectory(filepath.Join(link, "a.json"), dir)
		assert.ErrorContains(t, err, "escapes directory")
	})
}
