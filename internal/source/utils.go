package source

import "path/filepath"

// normalizePath gives callers a single canonical form to key a FileSet's
// index by, so the same logical path (however it was spelled) always
// resolves to the same FileID.
func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
