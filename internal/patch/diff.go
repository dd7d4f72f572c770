package patch

import (
	"github.com/ltxdiff/ltxdiff/internal/ltx"
	"github.com/ltxdiff/ltxdiff/internal/ltxdb"
)

// Diff returns the changes that turn base into mod. Both databases must be
// built from the same root file. Sections follow the order of mod, then
// sections deleted from base follow in the order of base.
func Diff(base, mod *ltxdb.DB) *Patch {
	p := &Patch{}

	for name := range mod.Sections() {
		modParents, _ := mod.Parents(name)
		baseParents, found := base.Parents(name)

		s := &Section{Name: name}
		if !found {
			s.Kind = Added
			s.Parents = modParents
		} else {
			s.Kind = Overridden
			if !modParents.Equal(baseParents) {
				s.Reparented = true
				s.AddParents = modParents.Minus(baseParents)
				s.DropParents = baseParents.Minus(modParents)
			}
		}

		for key, value := range mod.Records(name) {
			result := base.Diff(ltx.Record{Section: name, Key: key, Value: value})
			if !result.KeyFound || result.ValueDiffers {
				s.Set = append(s.Set, Entry{Key: key, Value: value})
			}
		}
		for key := range base.Records(name) {
			if _, ok := mod.Lookup(name, key); !ok {
				s.Remove = append(s.Remove, key)
			}
		}

		if s.Kind == Added || s.Reparented || len(s.Set) > 0 || len(s.Remove) > 0 {
			p.Sections = append(p.Sections, s)
		}
	}

	for name := range base.Sections() {
		if mod.HasSection(name) {
			continue
		}
		s := &Section{Kind: Deleted, Name: name}
		for key := range base.Records(name) {
			s.Remove = append(s.Remove, key)
		}
		p.Sections = append(p.Sections, s)
	}

	return p
}
