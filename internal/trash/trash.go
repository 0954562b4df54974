// Package trash moves files into the XDG trash can instead of deleting
// them, writing the .trashinfo record the desktop restore tools expect.
package trash

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Dir returns the trash directory for the current user.
func Dir() string {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "Trash")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "Trash")
}

// Put moves path into the trash. Moving across filesystems is not
// attempted; the rename error is returned as is.
func Put(path string) error {
	return put(path, Dir(), time.Now())
}

func put(path, trashDir string, now time.Time) error {
	if trashDir == "" {
		return fmt.Errorf("trash: no trash directory")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	filesDir := filepath.Join(trashDir, "files")
	infoDir := filepath.Join(trashDir, "info")
	for _, d := range []string{filesDir, infoDir} {
		if err := os.MkdirAll(d, 0o700); err != nil {
			return err
		}
	}

	name := uniqueName(filesDir, infoDir, filepath.Base(abs))

	info := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		abs, now.Format("2006-01-02T15:04:05"))
	infoPath := filepath.Join(infoDir, name+".trashinfo")
	if err := os.WriteFile(infoPath, []byte(info), 0o600); err != nil {
		return err
	}
	if err := os.Rename(abs, filepath.Join(filesDir, name)); err != nil {
		_ = os.Remove(infoPath)
		return err
	}
	return nil
}

// uniqueName finds a target name not yet present in either trash
// subdirectory, appending a counter when needed.
func uniqueName(filesDir, infoDir, base string) string {
	name := base
	for i := 2; ; i++ {
		_, errFile := os.Lstat(filepath.Join(filesDir, name))
		_, errInfo := os.Lstat(filepath.Join(infoDir, name+".trashinfo"))
		if os.IsNotExist(errFile) && os.IsNotExist(errInfo) {
			return name
		}
		name = fmt.Sprintf("%s.%d", base, i)
	}
}
