// Package diag builds the fatal misuse reports the association store emits.
//
// The store has exactly one fatal condition: attaching a value to an object
// whose type forbids associations. That is a contract violation by the
// caller, not a recoverable error, so the report is formatted with the full
// call stack and the process is terminated. Formatting is separated from
// aborting so tests can capture reports without dying.
package diag

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// maxStackDepth is the maximum number of stack frames captured per report.
const maxStackDepth = 32

// Report describes one fatal misuse of the association store.
type Report struct {
	// Op is the store operation that was misused (e.g. "set").
	Op string

	// Object is the identity of the offending host object.
	Object uintptr

	// TypeName is the host-reported name of the object's type.
	TypeName string

	// Detail is a one-line description of the violated contract.
	Detail string

	// Stack holds program counters for the misusing call site,
	// captured with runtime.Callers at report creation.
	Stack []uintptr
}

// Capture builds a report for the current call site.
//
// The stack starts at Capture's caller's caller, so the store's own entry
// point does not appear as the top frame; remaining store-internal frames
// are filtered at format time.
func Capture(op string, object uintptr, typeName, detail string) *Report {
	return &Report{
		Op:       op,
		Object:   object,
		TypeName: typeName,
		Detail:   detail,
		Stack:    captureStack(3), // runtime.Callers, captureStack, Capture
	}
}

// captureStack captures the current call stack.
//
// skip is the number of leading frames to drop, as for runtime.Callers.
func captureStack(skip int) []uintptr {
	pcs := make([]uintptr, maxStackDepth)
	n := runtime.Callers(skip, pcs)
	return pcs[:n]
}

// Format writes the report to w.
//
// Output shape:
//
//	==================
//	FATAL: ASSOCIATION MISUSE
//	set on instance 0x00c0000180a0 of type Widget:
//	  associations are forbidden for this type
//	  main.tagWidget()
//	      /path/to/file.go:42 +0x1f
//	==================
func (r *Report) Format(w io.Writer) {
	fmt.Fprintf(w, "==================\n")
	fmt.Fprintf(w, "FATAL: ASSOCIATION MISUSE\n")
	fmt.Fprintf(w, "%s on instance 0x%016x of type %s:\n", r.Op, r.Object, r.TypeName)
	if r.Detail != "" {
		fmt.Fprintf(w, "  %s\n", r.Detail)
	}
	if len(r.Stack) > 0 {
		fmt.Fprint(w, formatStack(r.Stack))
	} else {
		fmt.Fprintf(w, "  (no stack trace captured)\n")
	}
	fmt.Fprintf(w, "==================\n")
}

// formatStack converts program counters into display frames.
//
// Runtime frames and the store's entry-point frames are filtered so the
// report points at the caller's code, where the misuse actually lives.
func formatStack(pcs []uintptr) string {
	frames := runtime.CallersFrames(pcs)
	var buf strings.Builder

	for {
		frame, more := frames.Next()

		if strings.HasPrefix(frame.Function, "runtime.") ||
			strings.Contains(frame.Function, "/assoc/store.(*Store).Set") ||
			strings.Contains(frame.Function, "/assoc/store.(*Store).Get") ||
			strings.Contains(frame.Function, "/assoc/store.(*Store).RemoveAll") {
			if !more {
				break
			}
			continue
		}

		buf.WriteString("  ")
		buf.WriteString(frame.Function)
		buf.WriteString("()\n")
		buf.WriteString("      ")
		buf.WriteString(frame.File)
		buf.WriteString(":")
		buf.WriteString(fmt.Sprintf("%d", frame.Line))
		buf.WriteString(fmt.Sprintf(" +0x%x", frame.PC&0xfff))
		buf.WriteString("\n")

		if !more {
			break
		}
	}

	result := buf.String()
	if result == "" {
		return "  (all frames filtered - runtime internal)\n"
	}
	return result
}

// String returns the formatted report. Useful in tests.
func (r *Report) String() string {
	var buf strings.Builder
	r.Format(&buf)
	return buf.String()
}

// Abort writes the report to stderr and terminates the process.
//
// This is the default abort handler wired into a store; tests substitute
// their own to observe the report instead of dying.
//
//nolint:errcheck // Error handling omitted for stderr output formatting
func Abort(r *Report) {
	r.Format(os.Stderr)
	os.Exit(2)
}
