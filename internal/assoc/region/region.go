// Package region implements goroutine-scoped deferred-cleanup regions.
//
// A region is a dynamic scope on the current goroutine. Cleanups scheduled
// inside it run when it ends, newest first. Regions nest, and each goroutine
// has its own independent stack of open regions; no region is ever visible
// from another goroutine.
//
// This is the mechanism behind the defer-release getter disposition: a
// fetched value stays usable until the caller's innermost region ends,
// at which point its balancing release runs.
package region

import "sync"

// stacks maps goroutine IDs to their open-region stacks.
//
// Access pattern:
//   - Each goroutine only ever reads and writes its own entry.
//   - The map itself is shared, so sync.Map handles the cross-goroutine
//     creation and deletion of entries.
//
// Key: int64 (goroutine ID)
// Value: *stack.
var stacks sync.Map

// stack is one goroutine's open regions, innermost last.
// Only the owning goroutine touches it, so the slice needs no lock.
type stack struct {
	frames [][]func()
}

// Begin opens a region on the current goroutine.
//
// Regions nest; every Begin must be paired with an End on the same
// goroutine. An unpaired Begin keeps the goroutine's stack entry alive
// for the life of the process.
func Begin() {
	gid := goroutineID()
	var st *stack
	if v, ok := stacks.Load(gid); ok {
		st = v.(*stack)
	} else {
		// Only the owning goroutine stores under its own ID, so a plain
		// Store cannot race with another writer.
		st = &stack{}
		stacks.Store(gid, st)
	}
	st.frames = append(st.frames, nil)
}

// Defer schedules fn to run when the current goroutine's innermost open
// region ends.
//
// Reports whether a region was open. With no open region fn is dropped,
// not run; the caller decides what a drop means (the reference ownership
// service counts it as a leak).
func Defer(fn func()) bool {
	st := current()
	if st == nil || len(st.frames) == 0 {
		return false
	}
	top := len(st.frames) - 1
	st.frames[top] = append(st.frames[top], fn)
	return true
}

// End ends the innermost open region, running its cleanups newest first.
//
// The frame is detached before any cleanup runs, so a cleanup that calls
// Defer schedules into the enclosing region (or drops, if this was the
// outermost). Reports whether a region was open; End with none open is
// a silent no-op.
func End() bool {
	gid := goroutineID()
	v, ok := stacks.Load(gid)
	if !ok {
		return false
	}
	st := v.(*stack)
	if len(st.frames) == 0 {
		return false
	}

	top := len(st.frames) - 1
	cleanups := st.frames[top]
	st.frames[top] = nil
	st.frames = st.frames[:top]
	if len(st.frames) == 0 {
		stacks.Delete(gid)
	}

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	return true
}

// Depth returns the number of open regions on the current goroutine.
func Depth() int {
	st := current()
	if st == nil {
		return 0
	}
	return len(st.frames)
}

// current returns the calling goroutine's stack, or nil if it has none.
func current() *stack {
	if v, ok := stacks.Load(goroutineID()); ok {
		return v.(*stack)
	}
	return nil
}
