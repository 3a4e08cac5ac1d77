package store

import (
	"fmt"
	"testing"

	"github.com/kolkov/assocstore/internal/assoc/policy"
)

// indexOf returns the position of entry in entries, or -1.
func indexOf(entries []string, entry string) int {
	for i, e := range entries {
		if e == entry {
			return i
		}
	}
	return -1
}

// === Setter dispositions ===

// TestSet_AssignStoresUnmanaged verifies that the assign policy touches no
// ownership hooks on store or displacement.
func TestSet_AssignStoresUnmanaged(t *testing.T) {
	st, j, _ := newJournaled()
	obj, key := ObjectRef(0x1000), Key(0x2000)

	st.Set(obj, key, "old", policy.Assign)
	st.Set(obj, key, "new", policy.Assign)

	for _, entry := range []string{"retain(old)", "copy(old)", "release(old)"} {
		if got := j.count(entry); got != 0 {
			t.Errorf("%s called %d times under assign, want 0", entry, got)
		}
	}
}

// TestSet_RetainAcquiresBeforeStore verifies that the retain hook runs, and
// runs before the first-association signal. The acquire phase precedes the
// critical section; the signal follows it.
func TestSet_RetainAcquiresBeforeStore(t *testing.T) {
	st, j, _ := newJournaled()
	obj, key := ObjectRef(0x1000), Key(0x2000)

	st.Set(obj, key, "v", policy.Retain)

	entries := j.list()
	retainAt := indexOf(entries, "retain(v)")
	markAt := indexOf(entries, fmt.Sprintf("mark(0x%x)", uintptr(obj)))
	if retainAt == -1 {
		t.Fatalf("retain hook not called; journal: %v", entries)
	}
	if markAt == -1 {
		t.Fatalf("first-association signal not sent; journal: %v", entries)
	}
	if retainAt > markAt {
		t.Errorf("retain at %d after mark at %d; acquire must precede the store", retainAt, markAt)
	}
}

// TestSet_CopyStoresDuplicate verifies that the copy policy keeps the copy
// hook's result, not the caller's original.
func TestSet_CopyStoresDuplicate(t *testing.T) {
	st, j, _ := newJournaled()
	obj, key := ObjectRef(0x1000), Key(0x2000)

	st.Set(obj, key, "v", policy.SetterCopy)

	if got := j.count("copy(v)"); got != 1 {
		t.Fatalf("copy hook called %d times, want 1", got)
	}
	if got := st.Get(obj, key); got != "v-copy" {
		t.Errorf("Get() = %v, want the stored duplicate %q", got, "v-copy")
	}
}

// TestSet_OverwriteReleasesDisplaced verifies that replacing a record
// releases the old value once, after the new value was acquired.
func TestSet_OverwriteReleasesDisplaced(t *testing.T) {
	st, j, _ := newJournaled()
	obj, key := ObjectRef(0x1000), Key(0x2000)

	st.Set(obj, key, "old", policy.SetterRetain)
	st.Set(obj, key, "new", policy.SetterRetain)

	entries := j.list()
	if got := j.count("release(old)"); got != 1 {
		t.Fatalf("release(old) called %d times, want 1; journal: %v", got, entries)
	}
	if got := j.count("release(new)"); got != 0 {
		t.Errorf("live value released; journal: %v", entries)
	}
	if indexOf(entries, "retain(new)") > indexOf(entries, "release(old)") {
		t.Errorf("displaced release ran before the replacement was acquired: %v", entries)
	}
}

// TestSet_ReleaseSeesNewValue verifies that the displaced release runs after
// the swap is visible: a reentrant fetch from inside the release hook must
// observe the replacement value.
func TestSet_ReleaseSeesNewValue(t *testing.T) {
	obj, key := ObjectRef(0x1000), Key(0x2000)

	var st *Store
	var seen []any
	st = New(Config{Ownership: &hookedOwnership{
		onRelease: func(any) {
			seen = append(seen, st.Get(obj, key))
		},
	}})

	st.Set(obj, key, "old", policy.SetterRetain)
	st.Set(obj, key, "new", policy.SetterRetain)

	if len(seen) != 1 || seen[0] != "new" {
		t.Errorf("release hook observed %v, want [new]", seen)
	}
}

// TestSet_RemovalReleasesByStoredPolicy verifies that removal releases the
// old value according to the policy it was stored with, not the policy
// argument of the removing call.
func TestSet_RemovalReleasesByStoredPolicy(t *testing.T) {
	st, j, _ := newJournaled()
	obj, key := ObjectRef(0x1000), Key(0x2000)

	st.Set(obj, key, "v", policy.SetterRetain)
	st.Set(obj, key, nil, policy.Assign)

	if got := j.count("release(v)"); got != 1 {
		t.Errorf("release(v) called %d times, want 1; journal: %v", got, j.list())
	}
}

// TestRemoveAll_ReleasesEachStoredValue verifies that teardown releases
// exactly one reference per managed record, each per its own stored policy,
// and none for unmanaged records.
func TestRemoveAll_ReleasesEachStoredValue(t *testing.T) {
	st, j, _ := newJournaled()
	obj := ObjectRef(0x1000)

	st.Set(obj, Key(0x1), "a", policy.SetterRetain)
	st.Set(obj, Key(0x2), "b", policy.SetterCopy)
	st.Set(obj, Key(0x3), "c", policy.Assign)

	st.RemoveAll(obj)

	if got := j.count("release(a)"); got != 1 {
		t.Errorf("release(a) called %d times, want 1 (stored under retain)", got)
	}
	if got := j.count("release(b-copy)"); got != 1 {
		t.Errorf("release(b-copy) called %d times, want 1 (the stored duplicate)", got)
	}
	if got := j.count("release(c)"); got != 0 {
		t.Errorf("release(c) called %d times, want 0 (stored under assign)", got)
	}
}

// TestSet_UndefinedSetterBalanced verifies the undefined setter bit pattern
// (copy bit without retain bit): nothing acquired at store time, nothing
// released at displacement, value kept as-is.
func TestSet_UndefinedSetterBalanced(t *testing.T) {
	st, j, _ := newJournaled()
	obj, key := ObjectRef(0x1000), Key(0x2000)
	undefined := policy.Policy(1 << 1)

	st.Set(obj, key, "v", undefined)
	if got := st.Get(obj, key); got != "v" {
		t.Errorf("Get() = %v, want %q stored untouched", got, "v")
	}

	st.Set(obj, key, nil, policy.Assign)
	for _, entry := range []string{"retain(v)", "copy(v)", "release(v)"} {
		if got := j.count(entry); got != 0 {
			t.Errorf("%s called %d times under undefined setter, want 0", entry, got)
		}
	}
}

// === Getter flags ===

// TestGet_FlagCombinations verifies that the two getter flags act
// independently: each flag triggers exactly its own hook.
func TestGet_FlagCombinations(t *testing.T) {
	tests := []struct {
		name         string
		getter       policy.Policy
		fetchRetains int
		deferrals    int
	}{
		{"read", policy.GetterRead, 0, 0},
		{"retain", policy.GetterRetain, 1, 0},
		{"defer", policy.GetterDeferRelease, 0, 1},
		{"retain+defer", policy.GetterRetain | policy.GetterDeferRelease, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, j, _ := newJournaled()
			obj, key := ObjectRef(0x1000), Key(0x2000)
			st.Set(obj, key, "v", policy.SetterAssign|tt.getter)

			if got := st.Get(obj, key); got != "v" {
				t.Fatalf("Get() = %v, want %q", got, "v")
			}

			if got := j.count("fetch-retain(v)"); got != tt.fetchRetains {
				t.Errorf("fetch-retain calls = %d, want %d", got, tt.fetchRetains)
			}
			if got := j.count("defer-release(v)"); got != tt.deferrals {
				t.Errorf("defer-release calls = %d, want %d", got, tt.deferrals)
			}
		})
	}
}

// TestGet_MissTouchesNoHooks verifies that a miss returns nil without
// consulting the ownership hooks.
func TestGet_MissTouchesNoHooks(t *testing.T) {
	st, j, _ := newJournaled()

	if got := st.Get(ObjectRef(0x1000), Key(0x2000)); got != nil {
		t.Fatalf("Get() on empty store = %v, want nil", got)
	}
	if entries := j.list(); len(entries) != 0 {
		t.Errorf("hooks called on miss: %v", entries)
	}
}

// TestGet_ReturnPipeline verifies the fetch adjustment order: the deferred
// release wraps the retain hook's result, and Get hands back the final
// result.
func TestGet_ReturnPipeline(t *testing.T) {
	st := New(Config{Ownership: &hookedOwnership{
		onRetainForReturn: func(v any) any { return v.(string) + "+r" },
		onDeferForReturn:  func(v any) any { return v.(string) + "+d" },
	}})
	obj, key := ObjectRef(0x1000), Key(0x2000)

	st.Set(obj, key, "v", policy.SetterAssign|policy.GetterRetain|policy.GetterDeferRelease)

	if got := st.Get(obj, key); got != "v+r+d" {
		t.Errorf("Get() = %v, want %q", got, "v+r+d")
	}

	// The stored record is untouched by fetch adjustments.
	if got := st.Get(obj, key); got != "v+r+d" {
		t.Errorf("second Get() = %v, want %q", got, "v+r+d")
	}
}

// === First-association signal ===

// TestSet_MarkOncePerTransition verifies that the host hears about an
// object exactly once per transition to "has associations", including a
// fresh signal after the table was emptied and repopulated.
func TestSet_MarkOncePerTransition(t *testing.T) {
	st, j, _ := newJournaled()
	obj := ObjectRef(0x1000)
	mark := fmt.Sprintf("mark(0x%x)", uintptr(obj))

	st.Set(obj, Key(0x1), "a", policy.Assign)
	st.Set(obj, Key(0x2), "b", policy.Assign)
	st.Set(obj, Key(0x1), "c", policy.Assign)
	if got := j.count(mark); got != 1 {
		t.Errorf("marks after three sets = %d, want 1", got)
	}

	st.RemoveAll(obj)
	st.Set(obj, Key(0x1), "d", policy.Assign)
	if got := j.count(mark); got != 2 {
		t.Errorf("marks after repopulation = %d, want 2", got)
	}

	st.Set(obj, Key(0x1), nil, policy.Assign)
	st.Set(obj, Key(0x1), "e", policy.Assign)
	if got := j.count(mark); got != 3 {
		t.Errorf("marks after empty-by-removal and repopulation = %d, want 3", got)
	}
}

// === Reentrancy ===

// hookedOwnership dispatches each hook to an optional func, defaulting to
// pass-through. Tests use it to run arbitrary code, including reentrant
// store calls, at precise points of an operation.
type hookedOwnership struct {
	onAcquireRetain   func(v any) any
	onAcquireCopy     func(v any) any
	onRelease         func(v any)
	onRetainForReturn func(v any) any
	onDeferForReturn  func(v any) any
}

func (o *hookedOwnership) AcquireRetain(v any) any {
	if o.onAcquireRetain != nil {
		return o.onAcquireRetain(v)
	}
	return v
}

func (o *hookedOwnership) AcquireCopy(v any) any {
	if o.onAcquireCopy != nil {
		return o.onAcquireCopy(v)
	}
	return v
}

func (o *hookedOwnership) ReleaseOwned(v any) {
	if o.onRelease != nil {
		o.onRelease(v)
	}
}

func (o *hookedOwnership) RetainForReturn(v any) any {
	if o.onRetainForReturn != nil {
		return o.onRetainForReturn(v)
	}
	return v
}

func (o *hookedOwnership) DeferReleaseForReturn(v any) any {
	if o.onDeferForReturn != nil {
		return o.onDeferForReturn(v)
	}
	return v
}

// reentrantHost fetches the object's own associations from inside the
// first-association signal, as a host that inspects new attachments would.
// Only signals for obj are recorded; other objects are ignored.
type reentrantHost struct {
	st   *Store
	obj  ObjectRef
	key  Key
	seen []any
}

func (h *reentrantHost) ForbidsAssociations(ObjectRef) bool { return false }

func (h *reentrantHost) TypeName(ObjectRef) string { return "Widget" }

func (h *reentrantHost) MarkHasAssociations(obj ObjectRef) {
	if obj == h.obj {
		h.seen = append(h.seen, h.st.Get(obj, h.key))
	}
}

// TestHooks_MayReenter verifies that every hook running outside the lock can
// call back into the store without deadlocking, and that such reentrant
// calls see the operation's structural change already applied.
func TestHooks_MayReenter(t *testing.T) {
	obj, key := ObjectRef(0x1000), Key(0x2000)
	side, sideKey := ObjectRef(0x3000), Key(0x4000)

	var st *Store
	host := &reentrantHost{obj: obj, key: key}
	own := &hookedOwnership{
		onAcquireRetain: func(v any) any {
			_ = st.Get(side, sideKey) // acquire phase runs before the lock
			return v
		},
		onRelease: func(v any) {
			st.Set(side, sideKey, fmt.Sprintf("released-%v", v), policy.Assign)
		},
		onDeferForReturn: func(v any) any {
			_, _ = st.Counts()
			return v
		},
	}
	st = New(Config{Host: host, Ownership: own})
	host.st = st

	st.Set(obj, key, "first", policy.Retain)  // mark reenters Get
	st.Set(obj, key, "second", policy.Retain) // release reenters Set
	_ = st.Get(obj, key)                      // defer-release reenters Counts
	st.RemoveAll(obj)                         // release reenters Set

	// The mark-time fetch saw the freshly stored record.
	if len(host.seen) != 1 || host.seen[0] != "first" {
		t.Errorf("mark-time fetch saw %v, want [first]", host.seen)
	}

	// The reentrant sets from the release hook landed; the last release was
	// RemoveAll dropping "second".
	if got := st.Get(side, sideKey); got != "released-second" {
		t.Errorf("Get(side) = %v, want %q", got, "released-second")
	}
}
