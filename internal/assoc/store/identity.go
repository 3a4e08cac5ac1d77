package store

import "unsafe"

// ObjectRef identifies a host object by its address. It supports equality
// and hashing but is not a reference: holding an ObjectRef does not keep the
// object alive, and the store never dereferences one. The zero ObjectRef
// means "no object".
type ObjectRef uintptr

// Key identifies one attachment slot on an object. Keys are compared by
// identity, never dereferenced; the conventional source is the address of a
// package-level sentinel variable, which is unique process-wide for free.
type Key uintptr

// RefOf derives the identity of the object at p.
func RefOf(p unsafe.Pointer) ObjectRef {
	return ObjectRef(uintptr(p))
}

// KeyOf derives an attachment key from the address of a caller-owned
// sentinel.
func KeyOf(p unsafe.Pointer) Key {
	return Key(uintptr(p))
}

// disguised is the form in which an object identity appears as a map key:
// the bitwise complement of the reference. The raw address bit pattern never
// occurs in the store's memory, so a conservative scan of the store finds no
// apparent pointer to the object.
type disguised uintptr

// disguise converts an object reference to its stored form.
//
//go:nosplit
func disguise(obj ObjectRef) disguised {
	return disguised(^uintptr(obj))
}

// reveal recovers the object reference from its stored form. Diagnostics
// only; the result must never be dereferenced.
//
//go:nosplit
func (d disguised) reveal() ObjectRef {
	return ObjectRef(^uintptr(d))
}
