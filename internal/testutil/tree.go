// Package testutil builds base and mod directory trees for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Tree maps slash separated relative paths to file contents.
type Tree map[string]string

// WriteTree creates every file of tree below root.
func WriteTree(t *testing.T, root string, tree Tree) {
	t.Helper()

	for rel, content := range tree {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", rel, err)
		}
	}
}

// Trees creates a base and a mod tree in fresh temporary directories and
// returns their paths. A nil mod tree still gets an (empty) directory.
func Trees(t *testing.T, base, mod Tree) (string, string) {
	t.Helper()

	baseDir := filepath.Join(t.TempDir(), "base")
	modDir := filepath.Join(t.TempDir(), "mod")
	for _, dir := range []string{baseDir, modDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}
	WriteTree(t, baseDir, base)
	WriteTree(t, modDir, mod)
	return baseDir, modDir
}
