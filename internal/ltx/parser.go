package ltx

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"git.sr.ht/~spc/go-log"
)

var (
	includeRe = regexp.MustCompile(`^#include\s+"(.+)"$`)
	headerRe  = regexp.MustCompile(`^\[([^\[\]]+)\]\s*(:(.*))?$`)
	keyRe     = regexp.MustCompile(`^([^=\[\]"#!][^=\[\]"]*?)\s*(?:=\s*(.*))?$`)
)

// Tree resolves include targets. *overlay.Overlay implements it.
type Tree interface {
	Glob(dir, pattern string) ([]string, error)
	Find(rel string) (string, error)
	Rel(path string) (string, error)
}

// Options control parsing. They are passed to every parse call instead of
// being read from global state.
type Options struct {
	// TypoTolerance rewrites common header typos and drops known broken
	// lines instead of failing on them.
	TypoTolerance bool
}

// Parser reads LTX files, following includes through a Tree.
type Parser struct {
	tree Tree
	opts Options
}

// NewParser returns a parser resolving includes through tree.
func NewParser(tree Tree, opts Options) *Parser {
	return &Parser{tree: tree, opts: opts}
}

// Records returns the records of the file at path, an absolute path. Included
// files are expanded in place unless ignoreIncludes is set; includes of
// included files are always followed. Files without the .ltx extension and
// missing files yield nothing.
//
// Iteration stops after the first error, which is yielded with a zero Record.
func (p *Parser) Records(path string, ignoreIncludes bool) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		p.parseFile(path, ignoreIncludes, nil, yield)
	}
}

func (p *Parser) parseFile(path string, ignoreIncludes bool, stack []string, yield func(Record, error) bool) bool {
	if !isLTX(path) {
		return true
	}
	for _, including := range stack {
		if including == path {
			yield(Record{}, fmt.Errorf("%v: %w", path, ErrIncludeCycle))
			return false
		}
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true
		}
		yield(Record{}, fmt.Errorf("cannot open %v: %w", path, err))
		return false
	}
	defer f.Close()
	stack = append(stack, path)

	var (
		section string
		lineNo  int
	)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		if lineNo == 1 {
			raw = strings.TrimPrefix(raw, "\ufeff")
		}

		line := StripComment(raw)
		if line == "" {
			continue
		}
		if p.opts.TypoTolerance {
			var keep bool
			if line, keep = fixTypos(line); !keep {
				log.Debugf("%v:%d: dropping known typo %q", path, lineNo, raw)
				continue
			}
		}

		if m := includeRe.FindStringSubmatch(line); m != nil {
			if ignoreIncludes {
				continue
			}
			files, err := p.resolveInclude(filepath.Dir(path), m[1])
			if err != nil {
				yield(Record{}, fmt.Errorf("%v:%d: %w", path, lineNo, err))
				return false
			}
			for _, file := range files {
				log.Debugf("%v:%d: including %v", path, lineNo, file)
				if !p.parseFile(file, false, stack, yield) {
					return false
				}
			}
			continue
		}

		if m := headerRe.FindStringSubmatch(line); m != nil && strings.TrimSpace(m[1]) != "" {
			section = strings.TrimSpace(m[1])
			var parents Parents
			if m[2] != "" {
				parents = ParseParents(m[3])
			}
			if !yield(Record{Section: section, Parents: parents, Header: true}, nil) {
				return false
			}
			continue
		}

		// keys must follow a section header
		if key, value, ok := ParseKeyLine(line); ok && section != "" {
			if !yield(Record{Section: section, Key: key, Value: value}, nil) {
				return false
			}
			continue
		}

		yield(Record{}, &ParseError{File: path, Line: lineNo, Text: raw})
		return false
	}
	if err := scanner.Err(); err != nil {
		yield(Record{}, fmt.Errorf("cannot read %v: %w", path, err))
		return false
	}
	return true
}

// resolveInclude expands an include pattern relative to dir. A pattern
// without a wildcard must name an existing file.
func (p *Parser) resolveInclude(dir, pattern string) ([]string, error) {
	pattern = strings.ReplaceAll(pattern, `\`, "/")
	if strings.Contains(pattern, "*") {
		return p.tree.Glob(dir, pattern)
	}

	rel, err := p.tree.Rel(filepath.Join(dir, filepath.FromSlash(pattern)))
	if err != nil {
		return nil, err
	}
	path, err := p.tree.Find(rel)
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}

// ParseKeyLine parses a comment-free "key = value", "key =" or "key" line.
// Keys cannot start with '!', which marks removals in patches.
func ParseKeyLine(line string) (string, Value, bool) {
	m := keyRe.FindStringSubmatch(line)
	if m == nil {
		return "", None(), false
	}
	if m[2] == "" {
		return m[1], None(), true
	}
	return m[1], Some(m[2]), true
}

func isLTX(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".ltx")
}
