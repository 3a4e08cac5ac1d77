package store

import (
	"sync"

	"github.com/kolkov/assocstore/internal/assoc/diag"
	"github.com/kolkov/assocstore/internal/assoc/policy"
)

// Config wires a Store to its host runtime. Every field may be nil; see New
// for the defaults.
type Config struct {
	// Host answers forbid checks and receives first-association signals.
	Host Host

	// Ownership supplies acquire/release semantics for attached values.
	Ownership Ownership

	// Abort handles fatal misuse reports. The default prints the report to
	// stderr and exits the process; tests substitute a recorder.
	Abort func(*diag.Report)
}

// Stats counts store activity since creation or the last Reset.
type Stats struct {
	// Sets counts Set calls that stored a value.
	Sets uint64

	// Removals counts Set calls that requested a removal (absent value).
	Removals uint64

	// Gets counts Get calls.
	Gets uint64

	// Hits counts Get calls that found a record.
	Hits uint64

	// RemoveAlls counts RemoveAll calls, including those that found nothing.
	RemoveAlls uint64

	// TablesCreated counts per-object tables created. Each creation is an
	// object's transition to "has associations" and is announced to the host.
	TablesCreated uint64

	// TablesDropped counts per-object tables deleted, whether emptied one
	// record at a time or detached whole by RemoveAll.
	TablesDropped uint64
}

// Store attaches policy-managed values to live objects. Create one with New;
// the zero value is not usable.
//
// A Store is typically process-wide, shared by every goroutine of the host
// runtime. All methods are safe for concurrent use.
type Store struct {
	// mu is the store's only lock. It guards tables and stats, and is never
	// held across a user hook, with the single documented exception of
	// Ownership.RetainForReturn.
	mu sync.Mutex

	// tables maps each disguised object identity to that object's
	// associations. An identity is present iff the object currently has at
	// least one association; empty tables are deleted immediately.
	tables map[disguised]table

	// host receives forbid checks and first-association signals.
	host Host

	// owner supplies ownership semantics for attached values.
	owner Ownership

	// abort terminates an operation after a fatal misuse report.
	abort func(*diag.Report)

	// stats counts activity. Guarded by mu.
	stats Stats
}

// New creates an empty Store wired to the given collaborators.
//
// Nil Config fields fall back to permissive defaults: a Host that forbids
// nothing and ignores signals, an Ownership that treats all values as
// unmanaged, and an abort that prints the report and exits the process.
// New(Config{}) therefore behaves as a plain concurrent map from
// (object, key) to value.
//
// Example:
//
//	st := store.New(store.Config{Host: rt, Ownership: rt})
//	st.Set(obj, key, value, policy.Retain)
func New(cfg Config) *Store {
	s := &Store{
		tables: make(map[disguised]table),
		host:   cfg.Host,
		owner:  cfg.Ownership,
		abort:  cfg.Abort,
	}
	if s.host == nil {
		s.host = permissiveHost{}
	}
	if s.owner == nil {
		s.owner = passthroughOwnership{}
	}
	if s.abort == nil {
		s.abort = diag.Abort
	}
	return s
}

// === Operations ===

// Get returns the value attached to obj under key, or nil if there is none.
//
// The record is copied and its retain-on-fetch adjustment applied inside the
// lock, so the returned value stays valid even if a concurrent Set displaces
// and releases the stored reference immediately afterward. The
// defer-release adjustment runs after the lock is released.
func (s *Store) Get(obj ObjectRef, key Key) any {
	rec, ok := s.fetchLocked(disguise(obj), key)
	if !ok {
		return nil
	}
	return rec.finishReturn(s.owner)
}

// Set attaches value to obj under key with the given ownership policy,
// replacing any existing association under that key. A nil value is a
// removal request: the key's record is dropped and its old value released
// per the policy it was stored with.
//
// Ownership effects bracket the critical section:
//
//  1. The incoming value is acquired (retain or copy) before the lock.
//  2. Records are swapped inside the lock; no user code runs there.
//  3. After the lock: if obj just gained its first association the host is
//     told via MarkHasAssociations, then the displaced value is released.
//
// Storing on an object whose type forbids associations is fatal, removals
// included. Should the configured abort return instead of terminating, Set
// abandons the operation with no effect.
//
// As an accommodation for callers that clear attachments they never made,
// Set with no object and no value returns silently.
func (s *Store) Set(obj ObjectRef, key Key, value any, pol policy.Policy) {
	// Fast path: nothing to attach and nothing to attach it to.
	if obj == 0 && value == nil {
		return
	}

	if s.host.ForbidsAssociations(obj) {
		s.abort(diag.Capture("set", uintptr(obj), s.host.TypeName(obj),
			"associations are forbidden for this type"))
		return
	}

	// Step 1: Acquire ownership of the incoming value outside the lock.
	// The retain and copy hooks may run arbitrary user code, including
	// reentrant store calls.
	incoming := record{pol: pol, val: value}.acquireForStore(s.owner)

	// Step 2: Swap records inside the minimal critical section.
	displaced, first := s.storeLocked(disguise(obj), key, incoming)

	// Step 3: Trailing effects, strictly after the lock is gone. The host
	// learns about the first association before the release hook can run
	// user code that might observe the object.
	if first {
		s.host.MarkHasAssociations(obj)
	}
	displaced.releaseDisplaced(s.owner)
}

// RemoveAll drops every association obj carries and releases each stored
// value per its policy. Hosts call this during object teardown; it is also
// the documented recovery for code that wants an object back to a clean
// slate.
//
// The per-object table is detached whole inside the lock; the releases run
// after the lock is gone and may reenter the store.
func (s *Store) RemoveAll(obj ObjectRef) {
	detached := s.detachLocked(disguise(obj))
	for _, rec := range detached {
		rec.releaseDisplaced(s.owner)
	}
}

// === Critical sections ===
//
// Each critical section is a single method that takes and releases mu, so
// the lock's scope is visible at a glance. They perform map surgery and
// stats bookkeeping only; the one exception, retainForReturn inside
// fetchLocked, is constrained by the Ownership contract to a plain
// reference-count adjustment.

// fetchLocked looks up the record for (id, key) and applies its
// retain-on-fetch adjustment before any concurrent overwrite can release
// the stored value. Returns the record copy and whether it existed.
func (s *Store) fetchLocked(id disguised, key Key) (record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.Gets++
	tbl, ok := s.tables[id]
	if !ok {
		return record{}, false
	}
	rec, ok := tbl[key]
	if !ok {
		return record{}, false
	}
	s.stats.Hits++
	return rec.retainForReturn(s.owner), true
}

// storeLocked installs rec under (id, key), or deletes the key if rec is
// empty. Returns the displaced record (empty if none) and whether this call
// created the object's table.
func (s *Store) storeLocked(id disguised, key Key, rec record) (displaced record, first bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.present() {
		s.stats.Sets++
		tbl, ok := s.tables[id]
		if !ok {
			tbl = make(table)
			s.tables[id] = tbl
			s.stats.TablesCreated++
			first = true
		}
		displaced = tbl[key]
		tbl[key] = rec
		return displaced, first
	}

	// Absent value: removal request.
	s.stats.Removals++
	tbl, ok := s.tables[id]
	if !ok {
		return record{}, false
	}
	displaced, ok = tbl[key]
	if !ok {
		return record{}, false
	}
	delete(tbl, key)
	if len(tbl) == 0 {
		delete(s.tables, id)
		s.stats.TablesDropped++
	}
	return displaced, false
}

// detachLocked removes and returns id's whole table, or nil if the object
// has no associations. After detach the table is exclusively the caller's,
// safe to walk without the lock.
func (s *Store) detachLocked(id disguised) table {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.RemoveAlls++
	tbl, ok := s.tables[id]
	if !ok {
		return nil
	}
	delete(s.tables, id)
	s.stats.TablesDropped++
	return tbl
}

// === Introspection ===

// GetStats returns a snapshot of the activity counters.
func (s *Store) GetStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Counts returns the number of objects currently carrying associations and
// the total number of association records. It walks every table, so it is
// meant for metrics scrapes and tests, not hot paths.
func (s *Store) Counts() (objects, associations int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	objects = len(s.tables)
	for _, tbl := range s.tables {
		associations += len(tbl)
	}
	return objects, associations
}

// Reset discards all tables and zeroes the counters without releasing any
// stored values. Bookkeeping only, for tests; concurrent use with other
// operations is the caller's problem.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tables = make(map[disguised]table)
	s.stats = Stats{}
}
