// Package fileutil provides small filesystem helpers shared by run
// finalization and stages.
package fileutil

import (
	"os"
)

// NonEmptyFile reports whether path exists, is a regular file, and has a
// size greater than zero.
func NonEmptyFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() > 0
}
