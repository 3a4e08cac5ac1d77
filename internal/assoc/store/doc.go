// Package store implements the associated-value store: a process-wide table
// that attaches policy-managed values to live objects without changing the
// objects' memory layout.
//
// This package provides the Set, Get and RemoveAll operations that a host
// runtime calls to implement dynamic per-object attachments. Any object with
// a stable address can carry any number of associations; each association is
// a (key, policy, value) record and keys are compared by identity.
//
// # Architecture
//
// The store is a two-level map guarded by a single mutex:
//
//  1. Top level: disguised object identity -> per-object table
//  2. Per-object table: attachment key -> association record
//  3. Record: ownership policy + attached value
//
// Object identities are stored in disguised form (bitwise complement of the
// address-derived reference), so the raw address bit pattern never appears in
// the store's memory and the store never keeps an object alive. See identity.go.
//
// # Locking Protocol
//
// One mutex guards all structural state. Critical sections contain map
// surgery only; every ownership effect that can run user code is hoisted
// outside the lock:
//
//   - Set acquires the incoming value (retain or copy hook) before locking,
//     swaps records inside the lock, then signals the host and releases the
//     displaced value after unlocking.
//   - Get copies the record and applies the retain-on-fetch adjustment inside
//     the lock (the one hook that must run there, before a concurrent
//     overwrite can release the stored reference), then applies the deferred
//     release adjustment after unlocking.
//   - RemoveAll detaches the whole per-object table inside the lock and
//     releases every displaced value after unlocking.
//
// The lock is not reentrant. Because user hooks run outside it, an attached
// value's retain/copy/release code may itself call back into the store.
//
// # Thread Safety
//
// All store operations are safe for concurrent use. Operations on distinct
// objects contend only on the single mutex; the critical sections are a few
// map operations, so the lock is held for tens of nanoseconds.
//
// # Example Usage
//
// A host runtime binds its callbacks once and shares the store:
//
//	st := store.New(store.Config{Host: rt, Ownership: rt})
//
//	var colorKey int
//	st.Set(obj, store.KeyOf(unsafe.Pointer(&colorKey)), val, policy.Retain)
//	v := st.Get(obj, store.KeyOf(unsafe.Pointer(&colorKey)))
//	st.RemoveAll(obj) // object is being torn down
package store
