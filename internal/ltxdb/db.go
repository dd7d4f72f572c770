// Package ltxdb folds the records of an LTX file tree into a queryable
// section/key index.
package ltxdb

import (
	"errors"
	"fmt"
	"iter"

	"git.sr.ht/~spc/go-log"

	"github.com/ltxdiff/ltxdiff/internal/ltx"
	"github.com/ltxdiff/ltxdiff/internal/overlay"
)

var (
	// ErrConflictingParents is wrapped by every ConflictError.
	ErrConflictingParents = errors.New("section declared with conflicting parents")

	// ErrNoSection is returned for a record without a section name.
	ErrNoSection = errors.New("record outside of any section")
)

// ConflictError reports a section re-declared with a different parent list.
type ConflictError struct {
	Section string
	Old     ltx.Parents
	New     ltx.Parents
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("[%v]: %v: %q and %q", e.Section, ErrConflictingParents, e.Old, e.New)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflictingParents
}

// DiffResult describes how a record relates to the database.
type DiffResult struct {
	SectionFound bool
	KeyFound     bool
	ValueDiffers bool
}

type section struct {
	parents ltx.Parents
	keys    []string
	values  map[string]ltx.Value
}

// DB is the resolved state of one configuration tree. Sections and keys keep
// the order in which they were first seen; a later value for a key replaces
// the earlier one in place.
type DB struct {
	order    []string
	sections map[string]*section
}

// New returns an empty database.
func New() *DB {
	return &DB{sections: make(map[string]*section)}
}

// Load parses the root file rel through tree, following every include, and
// returns the resulting database. The root file must exist in tree.
func Load(tree *overlay.Overlay, rel string, opts ltx.Options) (*DB, error) {
	path, err := tree.Find(rel)
	if err != nil {
		return nil, err
	}
	log.Debugf("building database from %v", path)

	db := New()
	for record, err := range ltx.NewParser(tree, opts).Records(path, false) {
		if err != nil {
			return nil, err
		}
		if err := db.Add(record); err != nil {
			return nil, fmt.Errorf("cannot build database for %v: %w", rel, err)
		}
	}
	return db, nil
}

// Add folds one record into the database. A header registers its section;
// re-declaring a section with different parents fails with a ConflictError.
// A key record sets the key, registering the section without parents if it
// was never declared. Records must name a section.
func (db *DB) Add(r ltx.Record) error {
	if r.Section == "" {
		return fmt.Errorf("%q: %w", r.Key, ErrNoSection)
	}
	s, ok := db.sections[r.Section]
	if r.Header {
		if ok && !s.parents.Equal(r.Parents) {
			return &ConflictError{Section: r.Section, Old: s.parents, New: r.Parents}
		}
		if !ok {
			db.addSection(r.Section, r.Parents)
		}
		return nil
	}

	if !ok {
		s = db.addSection(r.Section, ltx.Parents{})
	}
	if _, exists := s.values[r.Key]; !exists {
		s.keys = append(s.keys, r.Key)
	}
	s.values[r.Key] = r.Value
	return nil
}

func (db *DB) addSection(name string, parents ltx.Parents) *section {
	s := &section{parents: parents, values: make(map[string]ltx.Value)}
	db.sections[name] = s
	db.order = append(db.order, name)
	return s
}

// HasSection reports whether the section was declared.
func (db *DB) HasSection(name string) bool {
	_, ok := db.sections[name]
	return ok
}

// Parents returns the parents of a section and whether it exists.
func (db *DB) Parents(name string) (ltx.Parents, bool) {
	s, ok := db.sections[name]
	if !ok {
		return ltx.Parents{}, false
	}
	return s.parents, true
}

// Sections iterates over section names.
func (db *DB) Sections() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, name := range db.order {
			if !yield(name) {
				return
			}
		}
	}
}

// Records iterates over the keys and values of a section. An unknown section
// yields nothing.
func (db *DB) Records(name string) iter.Seq2[string, ltx.Value] {
	return func(yield func(string, ltx.Value) bool) {
		s, ok := db.sections[name]
		if !ok {
			return
		}
		for _, key := range s.keys {
			if !yield(key, s.values[key]) {
				return
			}
		}
	}
}

// Lookup returns the value of a key.
func (db *DB) Lookup(sectionName, key string) (ltx.Value, bool) {
	s, ok := db.sections[sectionName]
	if !ok {
		return ltx.Value{}, false
	}
	v, ok := s.values[key]
	return v, ok
}

// Len returns the number of sections.
func (db *DB) Len() int {
	return len(db.order)
}

// Diff compares a key record against the database.
func (db *DB) Diff(r ltx.Record) DiffResult {
	var result DiffResult
	s, ok := db.sections[r.Section]
	if !ok {
		return result
	}
	result.SectionFound = true

	v, ok := s.values[r.Key]
	if !ok {
		return result
	}
	result.KeyFound = true
	result.ValueDiffers = v != r.Value
	return result
}
