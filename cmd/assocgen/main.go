// Package main implements the assocgen CLI tool.
//
// The assocgen tool generates typed accessors over an association store.
// Hand-written call sites repeat the same three fragments for every attached
// field: a key sentinel, an unsafe.Pointer conversion, and a type assertion
// on the fetched value. assocgen emits all three from a short YAML manifest
// by:
//
//  1. Reading the manifest (package name + accessor list)
//  2. Resolving each accessor's ownership policy
//  3. Locating the enclosing module and reading its path from go.mod
//  4. Rendering one key sentinel, setter, getter, and remover per accessor
//  5. Formatting the result with gofmt and writing it out
//
// Usage:
//
//	assocgen generate accessors.yaml           # Write <package>_assoc.go next to the manifest
//	assocgen generate -o attach.go fields.yaml # Write to an explicit path
//
// The generated functions take the store explicitly, so one manifest serves
// any number of stores.
//
// This is the CLI entry point for the accessor generator.
package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "generate":
		generateCommand(os.Args[2:])
	case "version", "--version", "-v":
		fmt.Printf("assocgen version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`assocgen - Typed Accessor Generator

USAGE:
    assocgen <command> [arguments]

COMMANDS:
    generate   Generate typed accessors from a YAML manifest
    version    Show version information
    help       Show this help message

EXAMPLES:
    # Generate widgets_assoc.go next to the manifest
    assocgen generate accessors.yaml

    # Generate to an explicit output path
    assocgen generate -o attach.go accessors.yaml

MANIFEST FORMAT:
    package: widgets
    accessors:
      - name: Color
        type: string
        policy: retain
      - name: Snapshot
        type: '[]byte'
        setter: copy
        getter: [retain, defer-release]

    Each accessor names an ownership policy either as one of the combined
    forms (assign, retain, copy) or as an explicit setter disposition
    (assign, retain, copy) plus optional getter flags (retain,
    defer-release).

GENERATED CODE:
    For each accessor NAME of type T the tool emits:
      - a key sentinel variable (one address per accessor)
      - func SetNAME(st *assoc.Store, obj assoc.ObjectRef, v T)
      - func NAME(st *assoc.Store, obj assoc.ObjectRef) (T, bool)
      - func RemoveNAME(st *assoc.Store, obj assoc.ObjectRef)

    The output is gofmt-formatted and carries the enclosing module's path
    in its header. The enclosing module is found by walking up from the
    manifest to the nearest go.mod.

FOR MORE INFORMATION:
    Repository: https://github.com/kolkov/assocstore
    Documentation: https://pkg.go.dev/github.com/kolkov/assocstore/assoc

`)
}
