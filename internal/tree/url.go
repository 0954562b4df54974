package tree

import "strings"

// Package views and unpackaged-file views are addressed with pseudo URL
// schemes. Neither can be scanned by the filesystem walker; they exist so
// that cached package trees keep their gating behavior.

// IsPkgURL reports whether the URL addresses an installed-packages view.
func IsPkgURL(url string) bool {
	return strings.HasPrefix(url, "pkg:")
}

// IsUnpkgURL reports whether the URL addresses an unpackaged-files view.
func IsUnpkgURL(url string) bool {
	return strings.HasPrefix(url, "unpkg:/")
}
