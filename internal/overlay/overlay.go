// Package overlay resolves files across a read-only base tree and a mod tree
// that overrides it file by file.
//
// A file in the mod tree shadows the base file with the same relative path.
// Names are compared case-insensitively, the way the game resolves them.
package overlay

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.sr.ht/~spc/go-log"
	"github.com/bmatcuk/doublestar/v4"
)

var (
	// ErrNotFound is returned when a literal path exists in neither tree.
	ErrNotFound = errors.New("file not found in mod or base tree")

	// ErrOutsideTrees is returned when a path lies outside both trees.
	ErrOutsideTrees = errors.New("path is outside of the mod and base trees")
)

// Overlay is the mod-over-base view of two directory trees. ModDir may be
// empty, in which case the overlay is the base tree alone.
type Overlay struct {
	BaseDir string
	ModDir  string
}

// New returns an Overlay over the given directories. Both are cleaned; they
// are expected to be absolute (see Abs).
func New(baseDir, modDir string) *Overlay {
	o := &Overlay{BaseDir: filepath.Clean(baseDir)}
	if modDir != "" {
		o.ModDir = filepath.Clean(modDir)
	}
	return o
}

// BaseOnly returns the overlay without its mod tree.
func (o *Overlay) BaseOnly() *Overlay {
	return &Overlay{BaseDir: o.BaseDir}
}

func (o *Overlay) roots() []string {
	if o.ModDir == "" {
		return []string{o.BaseDir}
	}
	return []string{o.ModDir, o.BaseDir}
}

// Glob returns the absolute paths of files in dir/pattern. The directory part
// of pattern is taken literally; its last element may contain a single '*'.
// Mod tree matches are returned outright, base tree matches only when the mod
// tree has no file of the same relative path. Missing directories contribute
// no matches. Results are ordered by file name.
func (o *Overlay) Glob(dir, pattern string) ([]string, error) {
	pattern = filepath.FromSlash(strings.ReplaceAll(pattern, `\`, "/"))

	rel, err := o.Rel(filepath.Join(dir, filepath.Dir(pattern)))
	if err != nil {
		return nil, err
	}
	namePattern := strings.ToLower(filepath.Base(pattern))

	type match struct {
		name string
		path string
	}
	var matches []match
	seen := make(map[string]bool)

	for _, root := range o.roots() {
		searchDir := filepath.Join(root, rel)
		if !isDir(searchDir) {
			continue
		}
		entries, err := os.ReadDir(searchDir)
		if err != nil {
			return nil, fmt.Errorf("cannot list %v: %w", searchDir, err)
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			key := strings.ToLower(entry.Name())
			ok, err := doublestar.Match(namePattern, key)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
			}
			if !ok {
				continue
			}
			if seen[key] {
				log.Tracef("%v shadowed by mod tree", filepath.Join(root, rel, entry.Name()))
				continue
			}
			seen[key] = true
			matches = append(matches, match{name: key, path: filepath.Join(root, rel, entry.Name())})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].name < matches[j].name
	})

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, m.path)
	}
	return paths, nil
}

// Find resolves a literal relative path, preferring the mod tree. When the
// exact name does not exist, the last path element is looked up
// case-insensitively.
func (o *Overlay) Find(rel string) (string, error) {
	rel = filepath.Clean(filepath.FromSlash(strings.ReplaceAll(rel, `\`, "/")))

	for _, root := range o.roots() {
		path := filepath.Join(root, rel)
		if isFile(path) {
			return path, nil
		}
	}
	for _, root := range o.roots() {
		if path, ok := lookupFold(filepath.Join(root, rel)); ok {
			return path, nil
		}
	}
	return "", fmt.Errorf("%v: %w", filepath.ToSlash(rel), ErrNotFound)
}

// Exists reports whether rel resolves to a file in either tree.
func (o *Overlay) Exists(rel string) bool {
	_, err := o.Find(rel)
	return err == nil
}

// Rel returns path relative to the mod tree when it lies within it, and
// relative to the base tree otherwise.
func (o *Overlay) Rel(path string) (string, error) {
	if o.ModDir != "" {
		if rel, ok := within(o.ModDir, path); ok {
			return rel, nil
		}
	}
	if rel, ok := within(o.BaseDir, path); ok {
		return rel, nil
	}
	return "", fmt.Errorf("%v: %w", path, ErrOutsideTrees)
}

// ModFiles returns the relative paths of every file in the mod tree, in
// lexical order.
func (o *Overlay) ModFiles() ([]string, error) {
	if o.ModDir == "" {
		return nil, nil
	}
	var files []string
	err := filepath.WalkDir(o.ModDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(o.ModDir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cannot walk mod tree %v: %w", o.ModDir, err)
	}
	return files, nil
}

func within(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func lookupFold(path string) (string, bool) {
	dir, name := filepath.Split(path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(entry.Name(), name) {
			return filepath.Join(dir, entry.Name()), true
		}
	}
	return "", false
}
