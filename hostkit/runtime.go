package hostkit

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/kolkov/assocstore/assoc"
)

// Config configures a Runtime.
type Config struct {
	// Abort overrides the store's fatal misuse handler. Nil keeps the
	// default, which prints the report to stderr and exits the process.
	Abort func(*assoc.Report)
}

// Runtime is a reference host for the associated-value store. It implements
// both assoc.Host and assoc.Ownership over an object registry and
// reference-counted cells, and owns the store it is wired to.
//
// All methods are safe for concurrent use.
type Runtime struct {
	// objects maps assoc.ObjectRef to *objectInfo for every registered
	// object. Objects register once and are then read on every store
	// attempt, so the lock-free sync.Map read path carries the load.
	objects sync.Map

	// forbidden is the set of type names that refuse associations.
	// Key: string (type name), Value: bool (always true).
	forbidden sync.Map

	// store is created by New with this runtime wired in as both host and
	// ownership. Constant afterwards.
	store *assoc.Store

	// Activity counters, all atomics.
	registered        uint64
	destroyed         uint64
	firstAssociations uint64
	cellsRetained     uint64
	copies            uint64
	cellsReleased     uint64
	cellsFreed        uint64
	overReleases      uint64
	leakedReturns     uint64
	regionsOpened     uint64
	regionsClosed     uint64
}

// objectInfo is the registry entry for one live object.
type objectInfo struct {
	// typeName is the name the object was registered under, used for
	// forbid checks and diagnostics.
	typeName string

	// hasAssoc flips to true on the object's first association and never
	// back. DestroyObject consults it to skip the store for objects that
	// never carried attachments.
	hasAssoc atomic.Bool
}

// New creates a Runtime and its store, wired to each other.
//
// Example:
//
//	rt := hostkit.New(hostkit.Config{})
//	st := rt.Store()
func New(cfg Config) *Runtime {
	rt := &Runtime{}
	rt.store = assoc.New(assoc.Config{
		Host:      rt,
		Ownership: rt,
		Abort:     cfg.Abort,
	})
	return rt
}

// Store returns the runtime's associated-value store.
func (rt *Runtime) Store() *assoc.Store {
	return rt.store
}

// Register adds the object at p to the registry under typeName and returns
// its store identity. Registering an already-registered object keeps the
// original entry.
func (rt *Runtime) Register(p unsafe.Pointer, typeName string) assoc.ObjectRef {
	obj := assoc.RefOf(p)

	// Fast path: already registered.
	if _, ok := rt.objects.Load(obj); ok {
		return obj
	}

	if _, loaded := rt.objects.LoadOrStore(obj, &objectInfo{typeName: typeName}); !loaded {
		atomic.AddUint64(&rt.registered, 1)
	}
	return obj
}

// ForbidType marks typeName as refusing associations. The check applies to
// every object registered under that name, whenever it was registered.
func (rt *Runtime) ForbidType(typeName string) {
	rt.forbidden.Store(typeName, true)
}

// DestroyObject runs the teardown path for the object at p: its
// associations are cleared if it ever gained any, then it is unregistered.
// Objects that never carried associations skip the store entirely, which
// keeps destruction of ordinary objects cheap.
//
// Destroying an unregistered object is a no-op.
func (rt *Runtime) DestroyObject(p unsafe.Pointer) {
	obj := assoc.RefOf(p)
	v, ok := rt.objects.LoadAndDelete(obj)
	if !ok {
		return
	}
	atomic.AddUint64(&rt.destroyed, 1)

	if v.(*objectInfo).hasAssoc.Load() {
		rt.store.RemoveAll(obj)
	}
}

// === assoc.Host ===

// ForbidsAssociations reports whether the object's registered type name was
// marked with ForbidType. Unregistered objects forbid nothing.
func (rt *Runtime) ForbidsAssociations(obj assoc.ObjectRef) bool {
	v, ok := rt.objects.Load(obj)
	if !ok {
		return false
	}
	_, forbidden := rt.forbidden.Load(v.(*objectInfo).typeName)
	return forbidden
}

// MarkHasAssociations flags the object so DestroyObject knows to clear the
// store. The store signals once per transition to "has associations", so an
// object emptied and repopulated is flagged again; the flag write is
// idempotent.
func (rt *Runtime) MarkHasAssociations(obj assoc.ObjectRef) {
	atomic.AddUint64(&rt.firstAssociations, 1)
	if v, ok := rt.objects.Load(obj); ok {
		v.(*objectInfo).hasAssoc.Store(true)
	}
}

// TypeName returns the object's registered type name, for diagnostics.
func (rt *Runtime) TypeName(obj assoc.ObjectRef) string {
	if v, ok := rt.objects.Load(obj); ok {
		return v.(*objectInfo).typeName
	}
	return "unknown"
}

// === Introspection ===

// Stats is a snapshot of runtime activity, as returned by GetStats.
type Stats struct {
	// Registered counts objects added to the registry.
	Registered uint64

	// Destroyed counts objects torn down via DestroyObject.
	Destroyed uint64

	// FirstAssociations counts first-association signals from the store.
	FirstAssociations uint64

	// CellsRetained counts references taken on cells, at store and at fetch.
	CellsRetained uint64

	// Copies counts duplicates made for copy policies.
	Copies uint64

	// CellsReleased counts references dropped on cells.
	CellsReleased uint64

	// CellsFreed counts cells whose reference count reached zero.
	CellsFreed uint64

	// OverReleases counts releases observed past zero. A non-zero value
	// means some caller's policies do not balance.
	OverReleases uint64

	// LeakedReturns counts deferred releases dropped because the fetching
	// goroutine had no cleanup region open. Each one is a reference that
	// will never be balanced.
	LeakedReturns uint64

	// RegionsOpened and RegionsClosed count cleanup region lifecycles.
	RegionsOpened uint64
	RegionsClosed uint64
}

// GetStats returns a snapshot of the activity counters.
func (rt *Runtime) GetStats() Stats {
	return Stats{
		Registered:        atomic.LoadUint64(&rt.registered),
		Destroyed:         atomic.LoadUint64(&rt.destroyed),
		FirstAssociations: atomic.LoadUint64(&rt.firstAssociations),
		CellsRetained:     atomic.LoadUint64(&rt.cellsRetained),
		Copies:            atomic.LoadUint64(&rt.copies),
		CellsReleased:     atomic.LoadUint64(&rt.cellsReleased),
		CellsFreed:        atomic.LoadUint64(&rt.cellsFreed),
		OverReleases:      atomic.LoadUint64(&rt.overReleases),
		LeakedReturns:     atomic.LoadUint64(&rt.leakedReturns),
		RegionsOpened:     atomic.LoadUint64(&rt.regionsOpened),
		RegionsClosed:     atomic.LoadUint64(&rt.regionsClosed),
	}
}
