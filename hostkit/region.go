package hostkit

import (
	"sync/atomic"

	"github.com/kolkov/assocstore/internal/assoc/region"
)

// Cleanup regions are per-goroutine scopes for deferred releases. A fetch
// under a defer-release policy schedules its balancing release into the
// innermost open region; closing the region runs the accumulated cleanups
// newest first. Regions nest.

// BeginRegion opens a cleanup region on the calling goroutine.
func (rt *Runtime) BeginRegion() {
	region.Begin()
	atomic.AddUint64(&rt.regionsOpened, 1)
}

// EndRegion closes the innermost open region, running its cleanups newest
// first. It reports whether a region was open.
func (rt *Runtime) EndRegion() bool {
	if !region.End() {
		return false
	}
	atomic.AddUint64(&rt.regionsClosed, 1)
	return true
}

// DeferCleanup schedules fn alongside the deferred releases of the
// innermost open region. It reports whether a region was open; fn is
// dropped otherwise.
func (rt *Runtime) DeferCleanup(fn func()) bool {
	return region.Defer(fn)
}

// RegionDepth returns the number of regions open on the calling goroutine.
func (rt *Runtime) RegionDepth() int {
	return region.Depth()
}
