package ruleset

import "sync/atomic"

// Store holds the active rule table and supports atomic replacement.
// Classifiers take a Snapshot at the start of a call and keep using it even
// if the table is swapped mid-flight, so a reload is never observed
// partially.
type Store struct {
	current atomic.Pointer[Table]
}

// NewStore creates a store seeded with the given table. A nil table seeds
// the compiled-in defaults.
func NewStore(table *Table) *Store {
	if table == nil {
		table = DefaultTable()
	}
	s := &Store{}
	s.current.Store(table)
	return s
}

// Snapshot returns the current rule table. The returned table is immutable
// and remains valid after subsequent swaps.
func (s *Store) Snapshot() *Table {
	return s.current.Load()
}

// Swap atomically replaces the active rule table. Panics on nil: removing
// the rule table entirely would silently turn classification into
// all-defaults, which is never intended.
func (s *Store) Swap(table *Table) {
	if table == nil {
		panic("ruleset: cannot swap in a nil table")
	}
	s.current.Store(table)
}
