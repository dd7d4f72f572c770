// Package export turns a mod tree into patch files: every configuration file
// of the mod is traced back to its root files and one patch is written per
// root.
package export

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"git.sr.ht/~spc/go-log"
	"github.com/otiai10/copy"
	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/ltxdiff/ltxdiff/internal/ltx"
	"github.com/ltxdiff/ltxdiff/internal/ltxdb"
	"github.com/ltxdiff/ltxdiff/internal/overlay"
	"github.com/ltxdiff/ltxdiff/internal/patch"
	"github.com/ltxdiff/ltxdiff/internal/rootfind"
)

// ErrOutputCollision is returned when an output file already exists and
// overwriting was not requested.
var ErrOutputCollision = errors.New("output file already exists")

// Options configures Run.
type Options struct {
	// ModName is part of every patch file name.
	ModName string
	// OutDir receives the generated tree.
	OutDir string
	// Overwrite allows replacing existing output files.
	Overwrite bool
	// Parse is passed to the parser for both databases.
	Parse ltx.Options
	// Ignore holds gitignore style patterns of mod files to leave out.
	Ignore []string
	// Progress, when set, is called with each step before it runs.
	Progress func(step string)
}

// Result lists what Run produced. Paths are relative to the output
// directory, except for the keys and values of Roots, which are relative to
// the trees.
type Result struct {
	// Roots maps every root file to the mod files that reach it.
	Roots map[string][]string
	// Patches are the written patch files.
	Patches []string
	// Copied are the files copied unchanged from the mod tree.
	Copied []string
	// Unchanged are roots whose patch came out empty.
	Unchanged []string
}

// PatchName returns the output path of the patch for root, relative to the
// output directory.
func PatchName(root, modName string) string {
	dir, file := path.Split(root)
	name := strings.TrimSuffix(file, path.Ext(file))
	return path.Join(dir, "mod_"+name+"_"+modName+".ltx")
}

// Run exports the mod tree of tree according to opts.
func Run(tree *overlay.Overlay, opts Options) (*Result, error) {
	if tree.ModDir == "" {
		return nil, fmt.Errorf("cannot export without a mod tree")
	}
	if opts.ModName == "" {
		return nil, fmt.Errorf("cannot export without a mod name")
	}

	var err error
	var ignore gitignore.IgnoreParser
	if len(opts.Ignore) > 0 {
		ignore, err = gitignore.CompileIgnoreLines(opts.Ignore...)
		if err != nil {
			return nil, fmt.Errorf("invalid ignore patterns: %w", err)
		}
	}

	files, err := tree.ModFiles()
	if err != nil {
		return nil, err
	}

	result := &Result{Roots: make(map[string][]string)}
	copied := make(map[string]bool)
	copyOnce := func(rel string) error {
		if copied[rel] {
			return nil
		}
		if err := copyFile(tree, rel, opts); err != nil {
			return err
		}
		copied[rel] = true
		result.Copied = append(result.Copied, rel)
		return nil
	}
	resolver := rootfind.New(tree)
	var assets []string
	for _, file := range files {
		rel := filepath.ToSlash(file)
		if ignore != nil && ignore.MatchesPath(rel) {
			log.Debugf("ignoring %v", rel)
			continue
		}
		if !strings.EqualFold(path.Ext(rel), ".ltx") {
			assets = append(assets, rel)
			continue
		}

		progress(opts, "resolving "+rel)
		roots, err := resolver.Roots(rel)
		if err != nil {
			return nil, fmt.Errorf("cannot resolve roots of %v: %w", rel, err)
		}
		for _, root := range roots {
			result.Roots[root] = append(result.Roots[root], rel)
		}
	}

	roots := make([]string, 0, len(result.Roots))
	for root := range result.Roots {
		roots = append(roots, root)
	}
	sort.Strings(roots)

	base := tree.BaseOnly()
	for _, root := range roots {
		if !base.Exists(root) {
			log.Infof("%v only exists in the mod tree, copying its files", root)
			for _, rel := range result.Roots[root] {
				if err := copyOnce(rel); err != nil {
					return nil, err
				}
			}
			continue
		}

		progress(opts, "diffing "+root)
		p, err := diff(tree, root, opts.Parse)
		if err != nil {
			return nil, err
		}
		if p.Empty() {
			log.Infof("%v is unchanged", root)
			result.Unchanged = append(result.Unchanged, root)
			continue
		}

		name := PatchName(root, opts.ModName)
		if err := writePatch(filepath.Join(opts.OutDir, filepath.FromSlash(name)), p, opts.Overwrite); err != nil {
			return nil, err
		}
		result.Patches = append(result.Patches, name)
	}

	for _, rel := range assets {
		progress(opts, "copying "+rel)
		if err := copyOnce(rel); err != nil {
			return nil, err
		}
	}
	sort.Strings(result.Copied)

	return result, nil
}

func progress(opts Options, step string) {
	if opts.Progress != nil {
		opts.Progress(step)
	}
}

func diff(tree *overlay.Overlay, root string, opts ltx.Options) (*patch.Patch, error) {
	base, err := ltxdb.Load(tree.BaseOnly(), root, opts)
	if err != nil {
		return nil, err
	}
	mod, err := ltxdb.Load(tree, root, opts)
	if err != nil {
		return nil, err
	}
	return patch.Diff(base, mod), nil
}

func checkCollision(dst string, overwrite bool) error {
	if _, err := os.Stat(dst); err == nil && !overwrite {
		return fmt.Errorf("%v: %w", dst, ErrOutputCollision)
	}
	return nil
}

func writePatch(dst string, p *patch.Patch, overwrite bool) error {
	if err := checkCollision(dst, overwrite); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("cannot create output directory: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("cannot create %v: %w", dst, err)
	}
	defer f.Close()

	if _, err := p.WriteTo(f); err != nil {
		return fmt.Errorf("cannot write %v: %w", dst, err)
	}
	log.Infof("wrote %v", dst)
	return f.Close()
}

func copyFile(tree *overlay.Overlay, rel string, opts Options) error {
	src := filepath.Join(tree.ModDir, filepath.FromSlash(rel))
	dst := filepath.Join(opts.OutDir, filepath.FromSlash(rel))
	if err := checkCollision(dst, opts.Overwrite); err != nil {
		return err
	}
	if err := copy.Copy(src, dst); err != nil {
		return fmt.Errorf("cannot copy %v: %w", rel, err)
	}
	log.Debugf("copied %v", rel)
	return nil
}
