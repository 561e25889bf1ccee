package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/ianprime0509/libpbn/diag"
	"github.com/ianprime0509/libpbn/parser"
)

type validationReport struct {
	Valid       bool              `json:"valid"`
	Diagnostics []diagnosticEntry `json:"diagnostics,omitempty"`
	Puzzles     int               `json:"puzzles"`
}

type diagnosticEntry struct {
	Kind   string `json:"kind"`
	Offset int64  `json:"offset"`
	Detail string `json:"detail,omitempty"`
}

func validateCmd(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	outputJSON := fs.Bool("json", false, "Output the report as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: pbn validate [options] <file.pbn>

Parse a puzzle set document and report every diagnostic. The exit status is
non-zero when the document is invalid.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Human-readable report
  pbn validate puzzles.pbn

  # Machine-readable report
  pbn validate --json puzzles.pbn
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("puzzle set file required")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	var diags diag.List
	set, perr := parser.Parse(data, &diags)

	report := validationReport{Valid: perr == nil}
	if set != nil {
		report.Puzzles = set.PuzzleCount()
	}
	for _, d := range diags.All() {
		e := diagnosticEntry{Kind: d.Kind.String(), Offset: d.Loc.Offset}
		if d.Err != nil {
			e.Detail = d.Err.Error()
		}
		report.Diagnostics = append(report.Diagnostics, e)
	}

	if *outputJSON {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	} else if report.Valid {
		fmt.Printf("%s: valid (%d puzzles)\n", fs.Arg(0), report.Puzzles)
	} else {
		fmt.Printf("%s: invalid\n", fs.Arg(0))
		for _, e := range report.Diagnostics {
			if e.Detail != "" {
				fmt.Printf("  %s at offset %d: %s\n", e.Kind, e.Offset, e.Detail)
			} else {
				fmt.Printf("  %s at offset %d\n", e.Kind, e.Offset)
			}
		}
	}

	if perr != nil {
		return fmt.Errorf("document invalid")
	}
	return nil
}
