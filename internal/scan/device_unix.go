//go:build unix

package scan

import (
	"os"
	"syscall"
)

// deviceID returns the filesystem device of a file, used to detect mount
// point boundaries. 0 when the platform stat data is unavailable.
func deviceID(fi os.FileInfo) uint64 {
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return 0
	}
	return uint64(st.Dev)
}
