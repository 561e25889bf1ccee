package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ianprime0509/libpbn/prove"
)

func proveCmd(args []string) error {
	fs := flag.NewFlagSet("prove", flag.ExitOnError)
	puzzle := fs.Int("puzzle", 1, "Puzzle index within the set (1-based)")
	verbose := fs.Bool("verbose", false, "Log parse details to stderr")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: pbn prove [options] <file.pbn>

Generate and verify a zero-knowledge attestation that the puzzle's goal is
consistent with its clue totals, without revealing the grid. Only binary
(two-color) puzzles are supported.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("puzzle set file required")
	}

	set, err := loadSet(fs.Arg(0), *verbose)
	if err != nil {
		return err
	}
	if *puzzle < 1 || *puzzle > set.PuzzleCount() {
		return fmt.Errorf("puzzle index out of range: %d", *puzzle)
	}

	att, err := prove.Attest(set, *puzzle)
	if err != nil {
		return err
	}
	if err := prove.Verify(att); err != nil {
		return err
	}

	fmt.Printf("attested %dx%d grid (%d constraints)\n", att.Rows, att.Cols, att.Constraints)
	fmt.Printf("commitment: %s\n", att.Commitment.Text(16))
	return nil
}
