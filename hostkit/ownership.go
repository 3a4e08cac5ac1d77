package hostkit

import (
	"sync/atomic"

	"github.com/kolkov/assocstore/internal/assoc/region"
)

// assoc.Ownership implementation. Values boxed in cells are managed;
// anything else passes through untouched, so plain Go values can share a
// store with managed ones.

// AcquireRetain takes the store's reference to an incoming cell.
func (rt *Runtime) AcquireRetain(v any) any {
	if c, ok := v.(*Cell); ok {
		atomic.AddUint64(&rt.cellsRetained, 1)
		return c.Retain()
	}
	return v
}

// AcquireCopy returns the duplicate the store keeps: a fresh cell holding
// the value's CopyForAttachment result when implemented, a shallow rebox
// otherwise. Non-cell values are duplicated directly if they implement
// Copier.
func (rt *Runtime) AcquireCopy(v any) any {
	if c, ok := v.(*Cell); ok {
		atomic.AddUint64(&rt.copies, 1)
		return c.duplicate()
	}
	if cp, ok := v.(Copier); ok {
		atomic.AddUint64(&rt.copies, 1)
		return cp.CopyForAttachment()
	}
	return v
}

// ReleaseOwned drops the store's reference to a displaced cell.
func (rt *Runtime) ReleaseOwned(v any) {
	if c, ok := v.(*Cell); ok {
		rt.releaseCell(c)
	}
}

// RetainForReturn takes the caller's reference to a fetched cell. This hook
// runs under the store lock, so it must stay a plain atomic add; Cell.Retain
// is exactly that.
func (rt *Runtime) RetainForReturn(v any) any {
	if c, ok := v.(*Cell); ok {
		atomic.AddUint64(&rt.cellsRetained, 1)
		return c.Retain()
	}
	return v
}

// DeferReleaseForReturn schedules the release of the caller's reference for
// when the goroutine's innermost cleanup region closes. With no region open
// the release has nowhere to run: the cell stays retained and the leak is
// counted in Stats.LeakedReturns.
func (rt *Runtime) DeferReleaseForReturn(v any) any {
	c, ok := v.(*Cell)
	if !ok {
		return v
	}
	if !region.Defer(func() { rt.releaseCell(c) }) {
		atomic.AddUint64(&rt.leakedReturns, 1)
	}
	return v
}

// releaseCell drops one reference and maintains the counters.
func (rt *Runtime) releaseCell(c *Cell) {
	atomic.AddUint64(&rt.cellsReleased, 1)
	if c.Release() {
		atomic.AddUint64(&rt.cellsFreed, 1)
	} else if c.Refs() < 0 {
		atomic.AddUint64(&rt.overReleases, 1)
	}
}
