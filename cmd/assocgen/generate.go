// generate.go implements the 'assocgen generate' command.
package main

import (
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strings"
)

// generateCommand implements the 'assocgen generate' command.
//
// Flow:
//  1. Parse arguments (manifest path + optional output path)
//  2. Load and validate the manifest
//  3. Locate the enclosing module root and read its path
//  4. Render the accessors and gofmt the result
//  5. Write the generated file
//
// Example:
//
//	assocgen generate accessors.yaml
//	assocgen generate -o attach.go accessors.yaml
func generateCommand(args []string) {
	config, err := parseGenerateArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	manifest, err := loadManifest(config.manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// The module context comes from the manifest's location, not the
	// tool's working directory: manifests generate into their own tree.
	root, err := findModuleRoot(filepath.Dir(config.manifestPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	module, err := modulePath(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	code, err := render(manifest, module, filepath.Base(config.manifestPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	outputPath := config.outputPath
	if outputPath == "" {
		outputPath = filepath.Join(filepath.Dir(config.manifestPath), manifest.Package+"_assoc.go")
	}
	if err := os.WriteFile(outputPath, code, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outputPath, err)
		os.Exit(1)
	}

	fmt.Printf("Generated: %s (%d accessors, module %s)\n", outputPath, len(manifest.Accessors), module)
}

// generateConfig holds configuration for the generate command.
type generateConfig struct {
	// Manifest file to read
	manifestPath string

	// Output file (from -o flag); empty means <package>_assoc.go next
	// to the manifest
	outputPath string
}

// parseGenerateArgs parses command-line arguments for 'assocgen generate'.
func parseGenerateArgs(args []string) (*generateConfig, error) {
	config := &generateConfig{}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// Handle -o flag (output file)
		if arg == "-o" {
			if i+1 >= len(args) {
				return nil, fmt.Errorf("-o flag requires an argument")
			}
			i++
			config.outputPath = args[i]
			continue
		}

		// Handle -o=file format
		if strings.HasPrefix(arg, "-o=") {
			config.outputPath = strings.TrimPrefix(arg, "-o=")
			continue
		}

		if strings.HasPrefix(arg, "-") {
			return nil, fmt.Errorf("unknown flag: %s", arg)
		}

		// No dash prefix - it's the manifest path
		if config.manifestPath != "" {
			return nil, fmt.Errorf("exactly one manifest expected, got %q and %q", config.manifestPath, arg)
		}
		config.manifestPath = arg
	}

	if config.manifestPath == "" {
		return nil, fmt.Errorf("manifest path required")
	}

	return config, nil
}

// render produces the gofmt-formatted generated file for m. The module
// path and manifest name only appear in the header; the emitted code is
// the same wherever the manifest lives.
func render(m *Manifest, module, manifestName string) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "// Code generated by assocgen from %s. DO NOT EDIT.\n", manifestName)
	b.WriteString("//\n")
	fmt.Fprintf(&b, "// Module: %s\n", module)
	b.WriteString("\n")
	fmt.Fprintf(&b, "package %s\n\n", m.Package)
	b.WriteString("import (\n\t\"unsafe\"\n\n\t\"github.com/kolkov/assocstore/assoc\"\n)\n")

	for _, a := range m.Accessors {
		renderAccessor(&b, a)
	}

	// format.Source doubles as the syntax check: a bad type expression
	// or name that slipped through validation fails here, not in the
	// user's build.
	formatted, err := format.Source([]byte(b.String()))
	if err != nil {
		return nil, fmt.Errorf("generated code does not parse (check accessor types): %w", err)
	}

	return formatted, nil
}

// renderAccessor emits one accessor's key sentinel, setter, getter, and
// remover.
func renderAccessor(b *strings.Builder, a Accessor) {
	key := a.keyName()

	fmt.Fprintf(b, "\n// %s is the association key for %s. Its address is the key; the\n// variable itself is never read or written.\nvar %s byte\n",
		key, a.Name, key)

	fmt.Fprintf(b, "\n// Set%s attaches v to obj under the %s policy.\nfunc Set%s(st *assoc.Store, obj assoc.ObjectRef, v %s) {\n\tst.Set(obj, assoc.KeyOf(unsafe.Pointer(&%s)), v, %s)\n}\n",
		a.Name, a.policyLabel(), a.Name, a.Type, key, a.policyExpr())

	fmt.Fprintf(b, "\n// %s returns the value attached by Set%s. The second result is false\n// when nothing is attached or the attached value is not a %s.\nfunc %s(st *assoc.Store, obj assoc.ObjectRef) (%s, bool) {\n\tv, ok := st.Get(obj, assoc.KeyOf(unsafe.Pointer(&%s))).(%s)\n\treturn v, ok\n}\n",
		a.Name, a.Name, a.Type, a.Name, a.Type, key, a.Type)

	fmt.Fprintf(b, "\n// Remove%s detaches the value attached by Set%s, if any.\nfunc Remove%s(st *assoc.Store, obj assoc.ObjectRef) {\n\tst.Set(obj, assoc.KeyOf(unsafe.Pointer(&%s)), nil, assoc.Assign)\n}\n",
		a.Name, a.Name, a.Name, key)
}
