package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestFindFilesByExtension_FindsRecursivelyAndSorts(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "slides", "b.h5"))
	touch(t, filepath.Join(dir, "a.h5"))
	touch(t, filepath.Join(dir, "notes.txt"))

	// --- Act ---
	files, err := FindFilesByExtension(dir, ".h5")

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "a.h5"),
		filepath.Join(dir, "slides", "b.h5"),
	}, files)
}

func TestFindFilesByExtension_NoMatches(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "notes.txt"))

	// --- Act ---
	files, err := FindFilesByExtension(dir, ".h5")

	// --- Assert ---
	require.NoError(t, err)
	require.Empty(t, files)
}

func TestFindFilesByExtension_MissingRootFails(t *testing.T) {
	t.Parallel()

	// --- Act ---
	_, err := FindFilesByExtension(filepath.Join(t.TempDir(), "absent"), ".h5")

	// --- Assert ---
	require.Error(t, err)
}

func TestFindFilesByExtension_PanicsOnEmptyExtension(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		_, _ = FindFilesByExtension(t.TempDir(), "")
	})
}

func TestFirstUnique_CountsUpFromTakenNames(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	path := filepath.Join(dir, "stweave.log")

	// --- Act / Assert ---
	require.Equal(t, path, FirstUnique(path), "a free name is returned as is")

	touch(t, path)
	require.Equal(t, path+".1", FirstUnique(path))

	touch(t, path+".1")
	require.Equal(t, path+".2", FirstUnique(path))
}
