// manifest.go implements the accessor manifest read by 'assocgen generate'.
package main

import (
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Manifest describes one generated file: a target package plus the
// accessors to emit into it.
type Manifest struct {
	// Target package name for the generated file
	Package string `yaml:"package"`

	// Accessors to generate, in manifest order
	Accessors []Accessor `yaml:"accessors"`
}

// Accessor describes one attached field: a typed setter/getter/remover
// triple sharing a key sentinel.
type Accessor struct {
	// Exported base name. The tool emits SetName, Name, and RemoveName.
	Name string `yaml:"name"`

	// Go type expression for the attached value
	Type string `yaml:"type"`

	// Named policy combination: assign, retain, or copy.
	// Mutually exclusive with Setter/Getter.
	Policy string `yaml:"policy"`

	// Explicit setter disposition: assign, retain, or copy
	Setter string `yaml:"setter"`

	// Explicit getter flags: retain, defer-release
	Getter []string `yaml:"getter"`
}

// Policy names resolve to expressions in the generated code, never to
// values: the generated file spells the constants out so a reader can
// check them against its own imports.
var (
	namedPolicies = map[string]string{
		"assign": "assoc.Assign",
		"retain": "assoc.Retain",
		"copy":   "assoc.Copy",
	}

	setterNames = map[string]string{
		"assign": "assoc.SetterAssign",
		"retain": "assoc.SetterRetain",
		"copy":   "assoc.SetterCopy",
	}

	getterNames = map[string]string{
		"retain":        "assoc.GetterRetain",
		"defer-release": "assoc.GetterDeferRelease",
	}
)

// loadManifest reads and validates the manifest at path.
func loadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	return &m, nil
}

// validate checks the manifest for the errors the generator cannot turn
// into sensible code: missing fields, malformed names, contradictory or
// unknown policies, and colliding accessors. Failures are *ManifestError
// values carrying the offending accessor and position.
func (m *Manifest) validate() error {
	if m.Package == "" {
		return manifestError("package name required")
	}
	if !validIdent(m.Package) {
		return manifestError("package name %q is not a valid Go identifier", m.Package)
	}
	if len(m.Accessors) == 0 {
		return manifestError("at least one accessor required")
	}

	seen := make(map[string]bool, len(m.Accessors))
	for i, a := range m.Accessors {
		if e := a.validate(); e != nil {
			e.Index = i
			return e
		}
		if seen[a.Name] {
			e := accessorError(a.Name, "duplicate name %q", a.Name)
			e.Index = i
			return e
		}
		seen[a.Name] = true
	}

	return nil
}

// validate checks a single accessor. The caller fills in Index.
func (a *Accessor) validate() *ManifestError {
	// Name errors leave the Accessor field empty; the position prefix
	// identifies the entry when the name cannot.
	if a.Name == "" {
		return accessorError("", "name required")
	}
	if !validIdent(a.Name) {
		return accessorError("", "name %q is not a valid Go identifier", a.Name)
	}
	if !exported(a.Name) {
		return accessorError("", "name %q must be exported (start with an upper-case letter)", a.Name)
	}
	if a.Type == "" {
		return accessorError(a.Name, "type required")
	}

	// Policy resolution: a named combination or explicit dispositions,
	// never both.
	if a.Policy != "" {
		if a.Setter != "" || len(a.Getter) != 0 {
			return accessorError(a.Name, "policy %q conflicts with explicit setter/getter", a.Policy).
				withSuggestion("keep either the named policy or the explicit dispositions, not both")
		}
		if _, ok := namedPolicies[a.Policy]; !ok {
			return accessorError(a.Name, "unknown policy %q (want assign, retain, or copy)", a.Policy)
		}
		return nil
	}

	if a.Setter == "" {
		return accessorError(a.Name, "policy or setter required").
			withSuggestion("add 'policy: retain' (or assign, copy), or an explicit 'setter:' disposition")
	}
	if _, ok := setterNames[a.Setter]; !ok {
		return accessorError(a.Name, "unknown setter %q (want assign, retain, or copy)", a.Setter)
	}
	seen := make(map[string]bool, len(a.Getter))
	for _, g := range a.Getter {
		if _, ok := getterNames[g]; !ok {
			return accessorError(a.Name, "unknown getter flag %q (want retain or defer-release)", g)
		}
		if seen[g] {
			return accessorError(a.Name, "duplicate getter flag %q", g)
		}
		seen[g] = true
	}

	return nil
}

// policyExpr returns the Go expression for the accessor's policy, as it
// appears in the generated calls.
func (a *Accessor) policyExpr() string {
	if a.Policy != "" {
		return namedPolicies[a.Policy]
	}
	parts := []string{setterNames[a.Setter]}
	for _, g := range a.Getter {
		parts = append(parts, getterNames[g])
	}
	return strings.Join(parts, " | ")
}

// policyLabel returns the human-readable policy name used in generated
// doc comments.
func (a *Accessor) policyLabel() string {
	if a.Policy != "" {
		return a.Policy
	}
	return a.Setter
}

// keyName returns the accessor's key sentinel variable name
// (Color -> colorKey).
func (a *Accessor) keyName() string {
	return lowerFirst(a.Name) + "Key"
}

// validIdent reports whether s is a valid Go identifier.
func validIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if unicode.IsLetter(r) || r == '_' {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// exported reports whether s starts with an upper-case letter.
func exported(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

// lowerFirst lowers s's first rune. Initialisms stay as written
// (URL -> uRL); pick accessor names accordingly.
func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}
