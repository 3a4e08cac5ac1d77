// Package assoc provides the public API for the associated-value store.
//
// See doc.go for detailed documentation and examples.
package assoc

import (
	"unsafe"

	"github.com/kolkov/assocstore/internal/assoc/diag"
	"github.com/kolkov/assocstore/internal/assoc/policy"
	"github.com/kolkov/assocstore/internal/assoc/store"
)

// Store attaches policy-managed values to live objects. Create one with
// [New]; all methods are safe for concurrent use.
type Store = store.Store

// Config wires a Store to its host runtime. The zero value is usable: nil
// fields fall back to permissive defaults. See [New].
type Config = store.Config

// Stats is a snapshot of a store's activity counters, as returned by
// [Store.GetStats].
type Stats = store.Stats

// ObjectRef identifies a host object by address. It is not a reference:
// holding one does not keep the object alive and the store never
// dereferences it. Derive one with [RefOf].
type ObjectRef = store.ObjectRef

// Key identifies one attachment slot on an object. Keys are compared by
// identity; derive one from a package-level sentinel with [KeyOf].
type Key = store.Key

// Host is the store's view of the runtime that owns the objects: forbid
// checks, first-association signals, and type names for diagnostics.
type Host = store.Host

// Ownership supplies reference-count and duplication semantics for
// attached values.
type Ownership = store.Ownership

// Report describes a fatal misuse, as handed to [Config].Abort. The default
// abort prints it and exits the process.
type Report = diag.Report

// Policy is a 32-bit ownership descriptor: a setter disposition in the
// bottom two bits and two independent getter flags in bits 8 and 9.
type Policy = policy.Policy

// Setter dispositions, getter flags and the common combinations. A policy
// is one setter disposition ORed with any subset of the getter flags.
const (
	// SetterAssign stores the value as-is; nothing is acquired or released.
	SetterAssign = policy.SetterAssign

	// SetterRetain retains the value at store time and releases it when the
	// record is displaced.
	SetterRetain = policy.SetterRetain

	// SetterCopy stores a duplicate of the value, managed like a retained one.
	SetterCopy = policy.SetterCopy

	// GetterRead returns fetched values untouched.
	GetterRead = policy.GetterRead

	// GetterRetain retains a fetched value before returning it.
	GetterRetain = policy.GetterRetain

	// GetterDeferRelease schedules a release of the fetched value at the end
	// of the caller's current cleanup region.
	GetterDeferRelease = policy.GetterDeferRelease

	// Assign is the unmanaged policy: store as-is, return as-is.
	Assign = policy.Assign

	// Retain is the standard managed policy: retain on store, release on
	// displacement, retain plus deferred release on fetch.
	Retain = policy.Retain

	// Copy is Retain with a duplicate stored instead of the original.
	Copy = policy.Copy
)

// New creates an empty store wired to the given collaborators.
//
// Nil Config fields fall back to permissive defaults: a Host that forbids
// nothing and ignores signals, an Ownership that treats all values as
// unmanaged, and an abort that prints the report and exits the process.
// New(Config{}) therefore behaves as a plain concurrent map from
// (object, key) to value.
//
// Example:
//
//	st := assoc.New(assoc.Config{Host: rt, Ownership: rt})
//	st.Set(obj, key, value, assoc.Retain)
func New(cfg Config) *Store {
	return store.New(cfg)
}

// RefOf derives the identity of the object at p.
//
// The result supports equality and hashing but does not keep the object
// alive. Callers are responsible for the object's lifetime and for calling
// [Store.RemoveAll] when it is torn down.
//
// Example:
//
//	w := &widget{}
//	obj := assoc.RefOf(unsafe.Pointer(w))
func RefOf(p unsafe.Pointer) ObjectRef {
	return store.RefOf(p)
}

// KeyOf derives an attachment key from the address of a caller-owned
// sentinel, conventionally a package-level variable:
//
//	var colorKey byte
//
//	key := assoc.KeyOf(unsafe.Pointer(&colorKey))
//
// The address is unique for the life of the sentinel, so distinct packages
// can never collide.
func KeyOf(p unsafe.Pointer) Key {
	return store.KeyOf(p)
}
