// Package patch computes, writes, reads and applies the textual difference
// between a base-resolved and a mod-resolved configuration database.
//
// A patch is a sequence of section blocks separated by blank lines:
//
//	[name]:p1,p2     new section with its parents
//	![name]          overridden section, parents unchanged
//	![name]:p3,!p1   overridden section, p3 added and p1 removed as parents
//	!![name]         section removed entirely
//	key = value      key set by the mod
//	key              key set without a value
//	!key             key removed by the mod
package patch

import (
	"io"
	"strings"

	"github.com/ltxdiff/ltxdiff/internal/ltx"
)

// Kind is the kind of change made to a section.
type Kind int

const (
	// Added sections exist only in the mod.
	Added Kind = iota
	// Overridden sections exist in both and changed.
	Overridden
	// Deleted sections exist only in the base.
	Deleted
)

func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Overridden:
		return "overridden"
	case Deleted:
		return "deleted"
	}
	return "unknown"
}

// Entry is a key set by the mod.
type Entry struct {
	Key   string
	Value ltx.Value
}

// Section is the change to one section.
type Section struct {
	Kind Kind
	Name string

	// Parents is the parent list of an added section.
	Parents ltx.Parents

	// Reparented is set when the parents of an overridden section changed.
	Reparented  bool
	AddParents  []string
	DropParents []string

	Set    []Entry
	Remove []string
}

// Patch is an ordered list of section changes.
type Patch struct {
	Sections []*Section
}

// Empty reports whether the patch changes nothing.
func (p *Patch) Empty() bool {
	return len(p.Sections) == 0
}

func (s *Section) header() string {
	var b strings.Builder
	switch s.Kind {
	case Added:
		b.WriteString("[" + s.Name + "]")
		if s.Parents.Declared {
			b.WriteString(":" + s.Parents.String())
		}
	case Overridden:
		b.WriteString("![" + s.Name + "]")
		if s.Reparented {
			parents := append([]string(nil), s.AddParents...)
			for _, name := range s.DropParents {
				parents = append(parents, "!"+name)
			}
			b.WriteString(":" + strings.Join(parents, ","))
		}
	case Deleted:
		b.WriteString("!![" + s.Name + "]")
	}
	return b.String()
}

func (p *Patch) String() string {
	var b strings.Builder
	for i, s := range p.Sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s.header() + "\n")
		for _, e := range s.Set {
			if e.Value.Set {
				b.WriteString(e.Key + " = " + e.Value.Text + "\n")
			} else {
				b.WriteString(e.Key + "\n")
			}
		}
		for _, key := range s.Remove {
			b.WriteString("!" + key + "\n")
		}
	}
	return b.String()
}

// WriteTo writes the patch text to w.
func (p *Patch) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, p.String())
	return int64(n), err
}
