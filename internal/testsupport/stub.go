package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

const exitZeroScript = "#!/bin/sh\nexit 0\n"

// StubBinaries installs stub executables on PATH for the duration of the
// test and returns the directory holding them. Each map value is a shell
// script body; an empty value installs a stub that exits 0.
func StubBinaries(t testing.TB, scripts map[string]string) string {
	t.Helper()

	binDir := filepath.Join(t.TempDir(), "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("create stub bin dir: %v", err)
	}
	for name, script := range scripts {
		if script == "" {
			script = exitZeroScript
		}
		if err := os.WriteFile(filepath.Join(binDir, name), []byte(script), 0o755); err != nil {
			t.Fatalf("write stub %s: %v", name, err)
		}
	}
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return binDir
}
