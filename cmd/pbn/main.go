package main

import (
	"fmt"
	"os"
	"strings"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "render":
		if err := renderCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "validate":
		if err := validateCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "summary":
		if err := summaryCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "catalog":
		if err := catalogCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "prove":
		if err := proveCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("pbn version 1.0.0")
	default:
		// A bare path renders to stdout.
		if !strings.HasPrefix(command, "-") {
			if err := renderCmd(os.Args[1:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`pbn - paint-by-number puzzle set tool

Usage:
  pbn <command> [options]
  pbn <file.pbn>

Commands:
  render     Parse a puzzle set and write its canonical XML
  validate   Parse a puzzle set and report diagnostics
  summary    Display a quick summary of a puzzle set
  catalog    Manage the local puzzle set catalog
  prove      Generate a zero-knowledge solution attestation
  help       Show this help message
  version    Show version information

Examples:
  # Normalize a document to stdout
  pbn render puzzles.pbn

  # List every diagnostic in a broken document
  pbn validate --json broken.pbn

  # Store a document in the local catalog
  pbn catalog add puzzles.pbn

For command-specific help, run:
  pbn <command> --help`)
}
