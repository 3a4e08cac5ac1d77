package region

import "runtime"

// goroutineID returns the current goroutine's ID by parsing the header line
// of its stack trace ("goroutine 123 [running]:").
//
// Runtime-internal shortcuts (g-struct offsets, assembly stubs) are
// deliberately not used here: regions open once per dynamic scope, not per
// memory access, so the ~1.5µs runtime.Stack parse is invisible next to the
// work a region wraps, and this path works on every platform and Go version.
func goroutineID() int64 {
	// The ID is in the first line; 64 bytes covers it.
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	return parseGID(buf[:n])
}

// parseGID extracts the goroutine ID from stack trace bytes.
//
// Expected format: "goroutine 123 [running]:...". Returns 0 if the buffer
// does not start with that header. Direct byte parsing, no allocations.
func parseGID(buf []byte) int64 {
	const prefix = "goroutine "
	if len(buf) < len(prefix) || string(buf[:len(prefix)]) != prefix {
		return 0
	}

	var gid int64
	for i := len(prefix); i < len(buf); i++ {
		c := buf[i]
		if c < '0' || c > '9' {
			break
		}
		gid = gid*10 + int64(c-'0')
	}
	return gid
}
