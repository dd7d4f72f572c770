package patch

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ltxdiff/ltxdiff/internal/ltx"
	"github.com/ltxdiff/ltxdiff/internal/ltxdb"
)

// ErrMismatch is returned by Apply when a patch does not fit the database.
var ErrMismatch = errors.New("patch does not apply")

// Apply returns a new database holding base with the changes of p applied.
// base is not modified. Unchanged sections keep their place; added sections
// follow in patch order.
//
// A reparented section whose parent list becomes empty through removals
// alone ends up without declared parents.
func Apply(base *ltxdb.DB, p *Patch) (*ltxdb.DB, error) {
	changes := make(map[string]*Section, len(p.Sections))
	for _, s := range p.Sections {
		if _, dup := changes[s.Name]; dup {
			return nil, fmt.Errorf("[%v]: %w: section changed twice", s.Name, ErrMismatch)
		}
		switch found := base.HasSection(s.Name); {
		case s.Kind == Added && found:
			return nil, fmt.Errorf("[%v]: %w: added section already exists", s.Name, ErrMismatch)
		case s.Kind != Added && !found:
			return nil, fmt.Errorf("[%v]: %w: %v section does not exist", s.Name, ErrMismatch, s.Kind)
		}
		changes[s.Name] = s
	}

	db := ltxdb.New()
	for name := range base.Sections() {
		s := changes[name]
		if s != nil && s.Kind == Deleted {
			continue
		}

		parents, _ := base.Parents(name)
		if s != nil && s.Reparented {
			parents = reparent(parents, s)
		}
		if err := db.Add(ltx.Record{Section: name, Header: true, Parents: parents}); err != nil {
			return nil, err
		}

		var removed, set map[string]bool
		if s != nil {
			removed = toSet(s.Remove)
			set = make(map[string]bool, len(s.Set))
		}
		for key, value := range base.Records(name) {
			if removed[key] {
				continue
			}
			if s != nil {
				if i := slices.IndexFunc(s.Set, func(e Entry) bool { return e.Key == key }); i >= 0 {
					value = s.Set[i].Value
					set[key] = true
				}
			}
			if err := db.Add(ltx.Record{Section: name, Key: key, Value: value}); err != nil {
				return nil, err
			}
		}
		if s == nil {
			continue
		}
		for key := range removed {
			if _, ok := base.Lookup(name, key); !ok {
				return nil, fmt.Errorf("[%v]: %w: removed key %v does not exist", name, ErrMismatch, key)
			}
		}
		for _, e := range s.Set {
			if set[e.Key] {
				continue
			}
			if err := db.Add(ltx.Record{Section: name, Key: e.Key, Value: e.Value}); err != nil {
				return nil, err
			}
		}
	}

	for _, s := range p.Sections {
		if s.Kind != Added {
			continue
		}
		if err := db.Add(ltx.Record{Section: s.Name, Header: true, Parents: s.Parents}); err != nil {
			return nil, err
		}
		for _, e := range s.Set {
			if err := db.Add(ltx.Record{Section: s.Name, Key: e.Key, Value: e.Value}); err != nil {
				return nil, err
			}
		}
	}
	return db, nil
}

func reparent(parents ltx.Parents, s *Section) ltx.Parents {
	if len(s.AddParents) == 0 && len(s.DropParents) == 0 {
		// only the declared state differs
		return ltx.Parents{Declared: !parents.Declared, Names: parents.Names}
	}

	dropped := toSet(s.DropParents)
	var names []string
	for _, name := range parents.Names {
		if !dropped[name] {
			names = append(names, name)
		}
	}
	for _, name := range s.AddParents {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return ltx.Parents{Declared: len(names) > 0, Names: names}
}

func toSet(list []string) map[string]bool {
	set := make(map[string]bool, len(list))
	for _, v := range list {
		set[v] = true
	}
	return set
}
