// Package assoc provides the public API for the associated-value store.
//
// The store attaches policy-managed values to live objects without changing
// the objects' memory layout, the way a dynamic runtime attaches properties
// to instances whose classes never declared them. Any object with a stable
// address can carry any number of associations.
//
// # Quick Start
//
// Create a store, derive identities from pointers, and attach values:
//
//	package main
//
//	import (
//		"fmt"
//		"unsafe"
//
//		"github.com/kolkov/assocstore/assoc"
//	)
//
//	type widget struct{ name string }
//
//	var colorKey byte // key identity = this variable's address
//
//	func main() {
//		st := assoc.New(assoc.Config{})
//		w := &widget{name: "w1"}
//
//		st.Set(assoc.RefOf(unsafe.Pointer(w)), assoc.KeyOf(unsafe.Pointer(&colorKey)),
//			"red", assoc.Retain)
//		fmt.Println(st.Get(assoc.RefOf(unsafe.Pointer(w)), assoc.KeyOf(unsafe.Pointer(&colorKey))))
//	}
//
// # API Overview
//
// The package provides:
//   - Store construction: [New], [Config]
//   - Operations: [Store.Set], [Store.Get], [Store.RemoveAll]
//   - Identity derivation: [RefOf], [KeyOf]
//   - Ownership policies: [Assign], [Retain], [Copy] and the raw
//     setter/getter bits
//   - Host integration: [Host], [Ownership], [Report]
//   - Introspection: [Store.GetStats], [Store.Counts]
//
// # Ownership Policies
//
// Every association carries a policy describing how the store manages the
// value's ownership. The setter disposition (one of three) applies at store
// time; the getter flags (any combination) apply at fetch time:
//
//	assoc.Assign   store as-is, release nothing
//	assoc.Retain   retain on store, release when displaced,
//	               retain + deferred release on fetch
//	assoc.Copy     duplicate on store, otherwise as Retain
//
// With no Ownership configured, values are unmanaged and every policy
// degenerates to assign-like storage, which is the right default for plain
// Go values owned by the garbage collector.
//
// # Locking and Reentrancy
//
// One mutex guards each store. Critical sections contain only map surgery;
// acquire hooks run before them and release hooks after, so ownership hooks
// may call back into the store freely. The single exception is
// [Ownership.RetainForReturn], which runs under the lock and must stay a
// plain reference-count adjustment.
//
// # Object Lifetime
//
// The store holds no reference to host objects: identities are stored in
// disguised form and never dereferenced. Keep objects alive by normal
// means, and call [Store.RemoveAll] from the object's teardown path so its
// records do not linger. Hosts learn when an object first gains
// associations via [Host.MarkHasAssociations] and can arrange that call
// automatically.
//
// # Links
//
// Project repository:
// https://github.com/kolkov/assocstore
//
// Documentation:
// https://pkg.go.dev/github.com/kolkov/assocstore/assoc
package assoc
