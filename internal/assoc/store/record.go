package store

import "github.com/kolkov/assocstore/internal/assoc/policy"

// record is one association: an ownership policy and the value it governs.
// Records are small and copied by value; the maps hold the only durable
// copies.
type record struct {
	pol policy.Policy
	val any
}

// present reports whether the record carries a value. Set interprets an
// absent value as a removal request, so no stored record is ever empty.
func (r record) present() bool {
	return r.val != nil
}

// acquireForStore applies the setter disposition to the incoming value and
// returns the record to persist. Runs before the store lock is taken; the
// retain and copy hooks may run arbitrary user code.
func (r record) acquireForStore(o Ownership) record {
	if r.val == nil {
		return r
	}
	switch {
	case r.pol.AcquiresRetain():
		r.val = o.AcquireRetain(r.val)
	case r.pol.AcquiresCopy():
		r.val = o.AcquireCopy(r.val)
	}
	return r
}

// releaseDisplaced drops the store's reference to a value that was
// overwritten or removed. Runs after the store lock is released. Values
// stored under assign were never acquired, so they are left alone.
func (r record) releaseDisplaced(o Ownership) {
	if r.val != nil && r.pol.ReleasesOnDisplace() {
		o.ReleaseOwned(r.val)
	}
}

// retainForReturn applies the retain getter flag to a fetched record. Runs
// inside the store lock: the caller's reference must exist before a
// concurrent overwrite can release the stored one.
func (r record) retainForReturn(o Ownership) record {
	if r.val != nil && r.pol.RetainsOnFetch() {
		r.val = o.RetainForReturn(r.val)
	}
	return r
}

// finishReturn applies the defer-release getter flag and yields the value to
// hand back to the caller. Runs after the store lock is released.
func (r record) finishReturn(o Ownership) any {
	if r.val != nil && r.pol.DefersReleaseOnFetch() {
		return o.DeferReleaseForReturn(r.val)
	}
	return r.val
}

// table is one object's key -> record map. A table is never left empty: the
// store deletes it the moment its last record goes.
type table map[Key]record
