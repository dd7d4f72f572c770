// Package rootfind finds the top-level configuration files that include a
// given file, directly or through other includes.
package rootfind

import (
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"git.sr.ht/~spc/go-log"

	"github.com/ltxdiff/ltxdiff/internal/ltx"
	"github.com/ltxdiff/ltxdiff/internal/overlay"
)

// Resolver resolves root files over one overlay. Include lists and resolved
// roots are cached, so a Resolver must not outlive changes to the trees.
type Resolver struct {
	tree *overlay.Overlay

	includes   map[string][]string
	patterns   map[string]*regexp.Regexp
	roots      map[string][]string
	inProgress map[string]bool
}

// New returns a resolver for tree.
func New(tree *overlay.Overlay) *Resolver {
	return &Resolver{
		tree:       tree,
		includes:   make(map[string][]string),
		patterns:   make(map[string]*regexp.Regexp),
		roots:      make(map[string][]string),
		inProgress: make(map[string]bool),
	}
}

// Roots returns the sorted relative paths of the root files that reach rel.
// A file that nothing includes is its own root.
//
// The search starts in the directory of rel and moves one level up at a time
// until some file includes rel; every includer at that level is resolved in
// turn.
func (r *Resolver) Roots(rel string) ([]string, error) {
	rel = path.Clean(strings.ReplaceAll(filepath.ToSlash(rel), `\`, "/"))
	key := strings.ToLower(rel)
	if roots, ok := r.roots[key]; ok {
		return roots, nil
	}
	if r.inProgress[key] {
		log.Debugf("include cycle through %v", rel)
		return nil, nil
	}
	r.inProgress[key] = true
	defer delete(r.inProgress, key)

	roots, err := r.resolve(rel)
	if err != nil {
		return nil, err
	}
	if len(roots) == 0 {
		roots = []string{rel}
	}
	r.roots[key] = roots
	return roots, nil
}

func (r *Resolver) resolve(rel string) ([]string, error) {
	var roots []string
	for dir := path.Dir(rel); ; dir = path.Dir(dir) {
		target := rel
		if dir != "." {
			target = strings.TrimPrefix(rel, dir+"/")
		}

		includers, err := r.includers(dir, rel, target)
		if err != nil {
			return nil, err
		}
		for _, includer := range includers {
			log.Debugf("%v is included by %v", rel, includer)
			found, err := r.Roots(includer)
			if err != nil {
				return nil, err
			}
			for _, root := range found {
				if !slices.Contains(roots, root) {
					roots = append(roots, root)
				}
			}
		}
		if len(includers) > 0 || dir == "." {
			break
		}
	}
	slices.Sort(roots)
	return roots, nil
}

// includers returns the files in dir with an include pattern matching target,
// the path of rel relative to dir.
func (r *Resolver) includers(dir, rel, target string) ([]string, error) {
	candidates, err := r.tree.Glob(filepath.Join(r.tree.BaseDir, filepath.FromSlash(dir)), "*.ltx")
	if err != nil {
		return nil, err
	}

	var includers []string
	for _, candidate := range candidates {
		candidateRel, err := r.tree.Rel(candidate)
		if err != nil {
			return nil, err
		}
		candidateRel = filepath.ToSlash(candidateRel)
		if strings.EqualFold(candidateRel, rel) {
			continue
		}

		patterns, err := r.includePatterns(candidate)
		if err != nil {
			return nil, err
		}
		if slices.ContainsFunc(patterns, func(p string) bool { return r.match(p, target) }) {
			includers = append(includers, candidateRel)
		}
	}
	return includers, nil
}

func (r *Resolver) includePatterns(file string) ([]string, error) {
	if patterns, ok := r.includes[file]; ok {
		return patterns, nil
	}
	patterns, err := ltx.ScanIncludes(file)
	if err != nil {
		return nil, err
	}
	r.includes[file] = patterns
	return patterns, nil
}

// match reports whether an include pattern, where "*" stands for any
// non-empty run of characters, covers target. Case is ignored.
func (r *Resolver) match(pattern, target string) bool {
	re, ok := r.patterns[pattern]
	if !ok {
		parts := strings.Split(pattern, "*")
		for i, part := range parts {
			parts[i] = regexp.QuoteMeta(part)
		}
		re = regexp.MustCompile("(?i)^" + strings.Join(parts, ".+") + "$")
		r.patterns[pattern] = re
	}
	return re.MatchString(target)
}
