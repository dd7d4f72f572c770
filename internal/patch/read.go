package patch

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ltxdiff/ltxdiff/internal/ltx"
)

// ErrMalformedPatch is returned by Parse for a line outside the patch grammar.
var ErrMalformedPatch = errors.New("malformed patch line")

var headerRe = regexp.MustCompile(`^(!{0,2})\[([^\[\]]+)\]\s*(:(.*))?$`)

// Parse reads patch text as written by Patch.WriteTo.
func Parse(r io.Reader) (*Patch, error) {
	p := &Patch{}
	var current *Section

	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := ltx.StripComment(scanner.Text())
		if line == "" {
			continue
		}

		if m := headerRe.FindStringSubmatch(line); m != nil {
			current = &Section{Name: m[2]}
			hasParents := m[3] != ""
			switch m[1] {
			case "":
				current.Kind = Added
				if hasParents {
					current.Parents = ltx.ParseParents(m[4])
				}
			case "!":
				current.Kind = Overridden
				if hasParents {
					current.Reparented = true
					for _, name := range ltx.ParseParents(m[4]).Names {
						if dropped, ok := strings.CutPrefix(name, "!"); ok {
							current.DropParents = append(current.DropParents, dropped)
						} else {
							current.AddParents = append(current.AddParents, name)
						}
					}
				}
			case "!!":
				if hasParents {
					return nil, fmt.Errorf("%d: %w: %q", n, ErrMalformedPatch, line)
				}
				current.Kind = Deleted
			}
			p.Sections = append(p.Sections, current)
			continue
		}

		if current == nil {
			return nil, fmt.Errorf("%d: %w: %q outside of a section", n, ErrMalformedPatch, line)
		}

		if key, ok := strings.CutPrefix(line, "!"); ok {
			current.Remove = append(current.Remove, strings.TrimSpace(key))
			continue
		}
		if current.Kind == Deleted {
			return nil, fmt.Errorf("%d: %w: %q in a removed section", n, ErrMalformedPatch, line)
		}
		key, value, ok := ltx.ParseKeyLine(line)
		if !ok {
			return nil, fmt.Errorf("%d: %w: %q", n, ErrMalformedPatch, line)
		}
		current.Set = append(current.Set, Entry{Key: key, Value: value})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read patch: %w", err)
	}
	return p, nil
}
