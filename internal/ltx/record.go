package ltx

import "strings"

// Value is the right-hand side of a key line. A key written without an
// assignment ("key" or "key =") has no value, which is distinct from a value
// that is an empty quoted string.
type Value struct {
	Text string
	Set  bool
}

// Some returns a set value.
func Some(text string) Value {
	return Value{Text: text, Set: true}
}

// None returns the absent value.
func None() Value {
	return Value{}
}

func (v Value) String() string {
	if !v.Set {
		return "<none>"
	}
	return v.Text
}

// Parents lists the sections a section inherits from, in declaration order
// and without duplicates. Declared distinguishes "[a]:" (an explicitly empty
// list) from "[a]" (no list at all).
type Parents struct {
	Declared bool
	Names    []string
}

// ParseParents parses the text after the colon of a section header.
func ParseParents(list string) Parents {
	p := Parents{Declared: true}
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" || p.Contains(name) {
			continue
		}
		p.Names = append(p.Names, name)
	}
	return p
}

// Contains reports whether name is one of the parents.
func (p Parents) Contains(name string) bool {
	for _, n := range p.Names {
		if n == name {
			return true
		}
	}
	return false
}

// Equal compares two parent lists as sets. An undeclared list never equals a
// declared one, even when both are empty.
func (p Parents) Equal(o Parents) bool {
	if p.Declared != o.Declared || len(p.Names) != len(o.Names) {
		return false
	}
	for _, n := range p.Names {
		if !o.Contains(n) {
			return false
		}
	}
	return true
}

// Minus returns the parents of p that are not in o.
func (p Parents) Minus(o Parents) []string {
	var names []string
	for _, n := range p.Names {
		if !o.Contains(n) {
			names = append(names, n)
		}
	}
	return names
}

func (p Parents) String() string {
	return strings.Join(p.Names, ",")
}

// Record is one parsed unit of an LTX file: either a section header or a key
// line of the current section. Parents is only meaningful for headers.
type Record struct {
	Section string
	Parents Parents
	Header  bool
	Key     string
	Value   Value
}
