package assoc

// Version information for the associated-value store.
const (
	// Version is the current version of the store runtime.
	Version = "0.1.0"

	// VersionMajor is the major version number.
	VersionMajor = 0

	// VersionMinor is the minor version number.
	VersionMinor = 1

	// VersionPatch is the patch version number.
	VersionPatch = 0
)

// Info provides runtime information about the store implementation.
type Info struct {
	// Version is the runtime version string.
	Version string

	// Layout describes the table organization.
	Layout string

	// Locking describes the concurrency discipline.
	Locking string
}

// GetInfo returns information about the store implementation.
//
// Example:
//
//	info := assoc.GetInfo()
//	fmt.Printf("assocstore %s (%s)\n", info.Version, info.Layout)
func GetInfo() Info {
	return Info{
		Version: Version,
		Layout:  "two-level hash table, disguised identities",
		Locking: "single global mutex, ownership effects outside the lock",
	}
}
