//go:build !unix

package scan

import "os"

// deviceID is unavailable off unix; every directory looks like one
// filesystem, so mount point detection is effectively disabled.
func deviceID(fi os.FileInfo) uint64 { return 0 }
