package fileutil

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ZipDir packages the regular files under dir into a zip archive at dest.
// Files named in skip (base names) are excluded, as is dest itself when it
// lives inside dir. Entry names are slash-separated paths relative to dir.
func ZipDir(dir, dest string, skip ...string) error {
	skipSet := make(map[string]struct{}, len(skip)+1)
	for _, name := range skip {
		skipSet[name] = struct{}{}
	}
	skipSet[filepath.Base(dest)] = struct{}{}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	walkErr := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		if _, skipped := skipSet[entry.Name()]; skipped {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(strings.ReplaceAll(rel, string(filepath.Separator), "/"))
		if err != nil {
			return err
		}
		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()
		_, err = io.Copy(w, in)
		return err
	})
	if walkErr != nil {
		_ = zw.Close()
		return fmt.Errorf("archive %s: %w", dir, walkErr)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish archive: %w", err)
	}
	return out.Close()
}
