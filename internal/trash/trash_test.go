package trash

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPutMovesFileAndWritesInfo(t *testing.T) {
	work := t.TempDir()
	trashDir := t.TempDir()

	victim := filepath.Join(work, "old.log")
	require.NoError(t, os.WriteFile(victim, []byte("x"), 0o644))

	when := time.Date(2026, 8, 25, 14, 30, 0, 0, time.Local)
	require.NoError(t, put(victim, trashDir, when))

	_, err := os.Lstat(victim)
	require.True(t, os.IsNotExist(err), "original must be gone")

	moved := filepath.Join(trashDir, "files", "old.log")
	_, err = os.Lstat(moved)
	require.NoError(t, err)

	info, err := os.ReadFile(filepath.Join(trashDir, "info", "old.log.trashinfo"))
	require.NoError(t, err)
	require.Contains(t, string(info), "[Trash Info]")
	require.Contains(t, string(info), "Path="+victim)
	require.Contains(t, string(info), "DeletionDate=2026-08-25T14:30:00")
}

func TestPutDirectories(t *testing.T) {
	work := t.TempDir()
	trashDir := t.TempDir()

	dir := filepath.Join(work, "project")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "a.txt"), []byte("x"), 0o644))

	require.NoError(t, put(dir, trashDir, time.Now()))

	_, err := os.Lstat(filepath.Join(trashDir, "files", "project", "sub", "a.txt"))
	require.NoError(t, err)
}

func TestPutDisambiguatesNameCollisions(t *testing.T) {
	work := t.TempDir()
	trashDir := t.TempDir()

	for i := 0; i < 3; i++ {
		victim := filepath.Join(work, "dup.txt")
		require.NoError(t, os.WriteFile(victim, []byte{byte(i)}, 0o644))
		require.NoError(t, put(victim, trashDir, time.Now()))
	}

	for _, name := range []string{"dup.txt", "dup.txt.2", "dup.txt.3"} {
		_, err := os.Lstat(filepath.Join(trashDir, "files", name))
		require.NoError(t, err, name)
		_, err = os.Lstat(filepath.Join(trashDir, "info", name+".trashinfo"))
		require.NoError(t, err, name)
	}
}

func TestPutMissingFileFails(t *testing.T) {
	require.Error(t, put(filepath.Join(t.TempDir(), "nope"), t.TempDir(), time.Now()))
}

func TestDirPrefersXDGDataHome(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/custom/data")
	require.Equal(t, filepath.Join("/custom/data", "Trash"), Dir())
}
