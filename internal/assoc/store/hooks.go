package store

// Host is the store's view of the runtime that owns the objects.
//
// All three methods are called outside the store lock and may themselves use
// the store, with one restriction: MarkHasAssociations must tolerate being
// called more than once for the same object, because an object whose table
// was emptied and later repopulated is announced again.
type Host interface {
	// ForbidsAssociations reports whether obj refuses to carry associations.
	// Checked on every attempted store, including removals.
	ForbidsAssociations(obj ObjectRef) bool

	// MarkHasAssociations tells the host that obj has just received its
	// first association, so the host can arrange a RemoveAll when the
	// object is torn down.
	MarkHasAssociations(obj ObjectRef)

	// TypeName describes obj's type for diagnostics.
	TypeName(obj ObjectRef) string
}

// Ownership supplies the reference-count and duplication semantics for
// attached values. The store itself is value-agnostic; every acquire and
// release funnels through this interface.
//
// Every method except RetainForReturn is called outside the store lock and
// may call back into the store. RetainForReturn runs inside the lock, so it
// must be a plain reference-count adjustment: no store calls, no locking
// that could wait on a store caller.
type Ownership interface {
	// AcquireRetain takes a reference to v at store time and returns the
	// value to keep, normally v itself.
	AcquireRetain(v any) any

	// AcquireCopy duplicates v at store time and returns the duplicate,
	// which the store keeps in place of v.
	AcquireCopy(v any) any

	// ReleaseOwned drops the store's reference to a displaced value.
	ReleaseOwned(v any)

	// RetainForReturn takes a reference to a fetched value on behalf of the
	// caller, before the store lock is released.
	RetainForReturn(v any) any

	// DeferReleaseForReturn schedules a release of a fetched value at the
	// end of the caller's current cleanup region and returns the value to
	// hand back.
	DeferReleaseForReturn(v any) any
}

// permissiveHost is the default Host: no object forbids associations, the
// first-association signal goes nowhere, and every type is anonymous.
type permissiveHost struct{}

func (permissiveHost) ForbidsAssociations(ObjectRef) bool {
	return false
}

func (permissiveHost) MarkHasAssociations(ObjectRef) {}

func (permissiveHost) TypeName(ObjectRef) string {
	return "unknown"
}

// passthroughOwnership is the default Ownership: values are unmanaged, so
// every acquire returns its argument and every release does nothing.
type passthroughOwnership struct{}

func (passthroughOwnership) AcquireRetain(v any) any {
	return v
}

func (passthroughOwnership) AcquireCopy(v any) any {
	return v
}

func (passthroughOwnership) ReleaseOwned(any) {}

func (passthroughOwnership) RetainForReturn(v any) any {
	return v
}

func (passthroughOwnership) DeferReleaseForReturn(v any) any {
	return v
}
