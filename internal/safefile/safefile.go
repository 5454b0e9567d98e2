// Package safefile reads credential-bearing files (token cache, config)
// with two guards: the path must not be a symlink, and the file must not
// exceed a size cap.
package safefile

import (
	"fmt"
	"os"
)

// Read returns the contents of path after checking that it is a regular
// file no larger than maxBytes. Symlinks are rejected via Lstat so the
// check cannot be bypassed through the link target.
func Read(path string, maxBytes int64) ([]byte, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, err
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return nil, fmt.Errorf("%s is a symbolic link (refusing to read)", path)
	}
	if info.Size() > maxBytes {
		return nil, fmt.Errorf("%s is too large (%d bytes, max %d)", path, info.Size(), maxBytes)
	}
	return os.ReadFile(path)
}
