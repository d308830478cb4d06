package fileutil

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func TestNonEmptyFile(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty")
	full := filepath.Join(dir, "full")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if NonEmptyFile(empty) {
		t.Fatal("empty file reported non-empty")
	}
	if !NonEmptyFile(full) {
		t.Fatal("full file reported empty")
	}
	if NonEmptyFile(filepath.Join(dir, "missing")) {
		t.Fatal("missing file reported non-empty")
	}
	if NonEmptyFile(dir) {
		t.Fatal("directory reported as non-empty file")
	}
}

func TestZipDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"a.txt":        "alpha",
		"nested/b.txt": "beta",
		"skipme.log":   "noise",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	dest := filepath.Join(dir, "artifacts.zip")
	if err := ZipDir(dir, dest, "skipme.log"); err != nil {
		t.Fatal(err)
	}

	zr, err := zip.OpenReader(dest)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()

	names := make(map[string]bool, len(zr.File))
	for _, f := range zr.File {
		names[f.Name] = true
	}
	if !names["a.txt"] || !names["nested/b.txt"] {
		t.Fatalf("expected entries missing: %v", names)
	}
	if names["skipme.log"] {
		t.Fatal("skipped file present in archive")
	}
	if names["artifacts.zip"] {
		t.Fatal("archive contains itself")
	}
}
