package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteBooks creates one small file per name inside folder.
func WriteBooks(t testing.TB, folder string, names ...string) {
	t.Helper()

	if err := os.MkdirAll(folder, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", folder, err)
	}
	for _, name := range names {
		path := filepath.Join(folder, name)
		if err := os.WriteFile(path, []byte{0x42}, 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
}
