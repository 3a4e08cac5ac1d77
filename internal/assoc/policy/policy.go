// Package policy implements the bit-encoded ownership descriptor for associated values.
//
// A Policy packs two independent dispositions into a compact 32-bit value:
// - Bottom 2 bits: setter disposition (how ownership is acquired at store time)
// - Bits 8-9: getter flags (how ownership is adjusted at fetch time)
//
// The two fields never interact and combine freely. Bits outside the two
// fields are carried but never interpreted, so callers may smuggle their own
// tags through a Policy without the store noticing.
package policy

// Policy is a 32-bit ownership descriptor.
// Layout: [unused:16][getter:2][unused:6][setter:2]
//
// Example: 0x00000301 encodes setter=retain with both getter flags set.
type Policy uint32

// Setter dispositions (bottom 2 bits). Exactly one applies per policy.
const (
	// SetterAssign stores the value as-is; nothing is acquired or released.
	SetterAssign Policy = 0

	// SetterRetain increments the value's reference count at store time.
	SetterRetain Policy = 1 << 0

	// SetterCopy duplicates the value at store time and stores the duplicate.
	// The retain bit is deliberately part of the encoding so "needs a
	// balancing release when displaced" is a single-bit test.
	SetterCopy Policy = 1<<1 | SetterRetain
)

// Getter flags (bits 8-9). Zero, one, or both may be set.
const (
	// GetterRead returns the fetched value untouched.
	GetterRead Policy = 0

	// GetterRetain increments the reference count before the value is returned.
	GetterRetain Policy = 1 << 8

	// GetterDeferRelease schedules a release at the end of the caller's
	// current deferred-cleanup region before the value is returned.
	GetterDeferRelease Policy = 1 << 9
)

const (
	// SetterMask extracts the setter disposition field.
	SetterMask Policy = 0x0003

	// GetterMask extracts the getter flag field.
	GetterMask Policy = 0x0300
)

// Common combinations. Retain and Copy pair their setter with both getter
// flags, so a fetched value stays valid even if a concurrent overwrite
// releases the stored reference immediately afterward.
const (
	Assign = SetterAssign | GetterRead
	Retain = SetterRetain | GetterRetain | GetterDeferRelease
	Copy   = SetterCopy | GetterRetain | GetterDeferRelease
)

// Setter extracts the setter disposition field.
//
//go:nosplit
func (p Policy) Setter() Policy {
	return p & SetterMask
}

// AcquiresRetain reports whether storing under this policy increments the
// value's reference count.
//
//go:nosplit
func (p Policy) AcquiresRetain() bool {
	return p&SetterMask == SetterRetain
}

// AcquiresCopy reports whether storing under this policy duplicates the value.
//
//go:nosplit
func (p Policy) AcquiresCopy() bool {
	return p&SetterMask == SetterCopy
}

// ReleasesOnDisplace reports whether a value stored under this policy must be
// released when it is overwritten or removed. True for both retain and copy;
// the shared retain bit makes this a one-bit test.
//
//go:nosplit
func (p Policy) ReleasesOnDisplace() bool {
	return p&SetterRetain != 0
}

// RetainsOnFetch reports whether a fetch increments the reference count
// before returning the value.
//
//go:nosplit
func (p Policy) RetainsOnFetch() bool {
	return p&GetterRetain != 0
}

// DefersReleaseOnFetch reports whether a fetch schedules a deferred release
// before returning the value.
//
//go:nosplit
func (p Policy) DefersReleaseOnFetch() bool {
	return p&GetterDeferRelease != 0
}

// Valid reports whether the setter field holds one of the three defined
// dispositions. The store never rejects a policy (unknown bits are carried,
// the undefined setter pattern behaves like assign); this check exists for
// tools that validate user-written policies up front.
func (p Policy) Valid() bool {
	return p&SetterMask != 1<<1
}

// String returns a human-readable representation of the policy.
//
// Format: setter name, then any getter flags, joined with "+"
// (e.g. "copy+get-retain+get-defer"). Only used in diagnostics and tests.
func (p Policy) String() string {
	var s string
	switch p & SetterMask {
	case SetterAssign:
		s = "assign"
	case SetterRetain:
		s = "retain"
	case SetterCopy:
		s = "copy"
	default:
		s = "setter?"
	}
	if p&GetterRetain != 0 {
		s += "+get-retain"
	}
	if p&GetterDeferRelease != 0 {
		s += "+get-defer"
	}
	return s
}
