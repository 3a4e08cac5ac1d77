// errors.go defines the typed errors 'assocgen generate' reports.
//
// Manifest problems carry enough context to fix them without rereading the
// file: which accessor, what is wrong, and (when one exists) the obvious
// correction.
//
// Example output:
//
//	accessor Color: unknown policy "borrow"
//
//	Suggestion: use assign, retain, or copy, or declare explicit
//	setter/getter dispositions instead
package main

import "fmt"

// ManifestError represents one invalid spot in an accessor manifest.
//
// Fields:
//   - Accessor: Offending accessor's name (empty for manifest-level errors
//     and for accessors whose name itself is the problem)
//   - Index: Accessor's position in the manifest, 0-based (-1 for
//     manifest-level errors)
//   - Message: Human-readable description of what is wrong
//   - Suggestion: Optional hint for fixing it (empty if none)
//
// Thread Safety: Immutable after creation, safe for concurrent use.
type ManifestError struct {
	Accessor   string // Offending accessor name ("" if unknown)
	Index      int    // Position in the manifest (-1 if manifest-level)
	Message    string // Error message
	Suggestion string // Optional suggestion for fixing (empty if none)
}

// Error implements the error interface.
//
// Format: "accessor NAME: message" when the accessor is known, "accessor
// N: message" when only the position is, bare message otherwise. A
// non-empty Suggestion is appended on its own paragraph.
func (e *ManifestError) Error() string {
	result := e.Message
	switch {
	case e.Accessor != "":
		result = fmt.Sprintf("accessor %s: %s", e.Accessor, e.Message)
	case e.Index >= 0:
		result = fmt.Sprintf("accessor %d: %s", e.Index, e.Message)
	}
	if e.Suggestion != "" {
		result += fmt.Sprintf("\n\nSuggestion: %s", e.Suggestion)
	}
	return result
}

// manifestError creates a manifest-level error (no accessor context).
func manifestError(format string, args ...any) *ManifestError {
	return &ManifestError{Index: -1, Message: fmt.Sprintf(format, args...)}
}

// accessorError creates an error scoped to one accessor. The manifest
// validator fills in Index; name may be empty when the name itself is
// the problem.
func accessorError(name, format string, args ...any) *ManifestError {
	return &ManifestError{Accessor: name, Index: -1, Message: fmt.Sprintf(format, args...)}
}

// withSuggestion attaches a fix hint and returns the error.
func (e *ManifestError) withSuggestion(s string) *ManifestError {
	e.Suggestion = s
	return e
}
