package hostkit

import "sync/atomic"

// Cell is a reference-counted box around an attached value. Wrapping a
// value in a cell opts it into the Runtime's ownership management: retain
// policies bump the count, displacement drops it, and a count of zero means
// the last reference is gone.
//
// Cells are handled by pointer identity. The zero Cell is not usable;
// create cells with NewCell.
type Cell struct {
	refs int32

	// value is set at creation and never written afterwards, so concurrent
	// Value calls need no synchronization.
	value any
}

// Copier lets a value control how it is duplicated when stored under a copy
// policy. Values that do not implement Copier are duplicated shallowly: the
// same value goes into a fresh cell with a fresh count.
type Copier interface {
	// CopyForAttachment returns the independent duplicate to store.
	CopyForAttachment() any
}

// NewCell boxes v with a reference count of one, owned by the caller.
func NewCell(v any) *Cell {
	return &Cell{refs: 1, value: v}
}

// Value returns the boxed value.
func (c *Cell) Value() any {
	return c.value
}

// Refs returns the current reference count. Counts are advisory under
// concurrency; they are exact once no other goroutine touches the cell.
func (c *Cell) Refs() int32 {
	return atomic.LoadInt32(&c.refs)
}

// Retain increments the reference count and returns the cell. It is a
// single atomic add, safe to call anywhere including under locks that
// forbid reentrancy.
func (c *Cell) Retain() *Cell {
	atomic.AddInt32(&c.refs, 1)
	return c
}

// Release decrements the reference count and reports whether this call
// dropped the last reference. Releasing more times than the cell was
// retained leaves the count negative; Runtime counts such over-releases
// instead of crashing.
func (c *Cell) Release() bool {
	return atomic.AddInt32(&c.refs, -1) == 0
}

// duplicate produces the cell to store under a copy policy: a fresh cell
// holding the value's CopyForAttachment result, or the same value when it
// does not implement Copier.
func (c *Cell) duplicate() *Cell {
	if cp, ok := c.value.(Copier); ok {
		return NewCell(cp.CopyForAttachment())
	}
	return NewCell(c.value)
}

// Unwrap returns the value inside a cell, or v itself when it is not one.
// Convenient for callers that mix managed and unmanaged attachments:
//
//	color := hostkit.Unwrap(st.Get(obj, colorKey))
func Unwrap(v any) any {
	if c, ok := v.(*Cell); ok {
		return c.value
	}
	return v
}
