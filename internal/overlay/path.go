package overlay

import (
	"fmt"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// Abs expands a leading "~" and returns the cleaned absolute form of path.
func Abs(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("cannot expand %v: %w", path, err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("cannot resolve %v: %w", path, err)
	}
	return abs, nil
}

// RelTo resolves a user supplied file argument to a path relative to the
// overlay. Absolute paths (and paths starting with "~") are made relative to
// whichever tree contains them; anything else is already tree relative.
func (o *Overlay) RelTo(arg string) (string, error) {
	if arg == "" {
		return "", fmt.Errorf("empty path")
	}
	if arg[0] != '~' && !filepath.IsAbs(arg) {
		return filepath.Clean(filepath.FromSlash(arg)), nil
	}
	abs, err := Abs(arg)
	if err != nil {
		return "", err
	}
	return o.Rel(abs)
}
