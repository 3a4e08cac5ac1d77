// Package hostkit provides a reference host runtime for the associated-value
// store.
//
// The store itself is deliberately ignorant of object lifetimes and value
// ownership: it delegates both through the assoc.Host and assoc.Ownership
// interfaces. This package supplies a working implementation of each, for
// programs that want managed attachments without writing a runtime of their
// own, and as executable documentation of the contracts.
//
// # Components
//
// [Runtime]: object registry plus both store callbacks. Tracks which objects
// exist, which type names forbid associations, and which objects currently
// carry associations, so teardown can skip the store entirely for objects
// that never gained any.
//
// [Cell]: a reference-counted box. Values wrapped in cells are managed:
// retain policies bump the count, displacement drops it, and the count
// reaching zero means the last reference is gone. Plain values pass through
// unmanaged, which is the right default for garbage-collected Go values.
//
// [Copier]: optional deep-copy hook for values stored under copy policies.
//
// Cleanup regions: deferred releases from fetches under a defer-release
// policy run when the caller closes its region, mirroring scoped cleanup
// pools. Without an open region the release has nowhere to run; the cell
// stays retained and the leak is counted.
//
// # Example Usage
//
//	rt := hostkit.New(hostkit.Config{})
//	st := rt.Store()
//
//	w := &widget{}
//	obj := rt.Register(unsafe.Pointer(w), "widget")
//
//	st.Set(obj, key, hostkit.NewCell("red"), assoc.Retain)
//	...
//	rt.DestroyObject(unsafe.Pointer(w)) // clears attachments, unregisters
//
// # Thread Safety
//
// All Runtime operations are safe for concurrent use. The registry is a
// sync.Map (objects register once, then read frequently); counters are
// atomics. Cells are safe to retain and release concurrently.
package hostkit
