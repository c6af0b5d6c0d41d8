package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// WriteTrack creates a fake audio file of the requested size at path,
// creating parent directories as needed. A size <= 0 writes a single byte so
// the file never looks like an unfinished zero-byte download.
func WriteTrack(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, bytes.Repeat([]byte{0x42}, int(size)), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
