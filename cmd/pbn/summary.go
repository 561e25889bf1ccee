package main

import (
	"flag"
	"fmt"
	"os"
)

func summaryCmd(args []string) error {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	verbose := fs.Bool("verbose", false, "Log parse details to stderr")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: pbn summary [options] <file.pbn>

Display a quick summary of a puzzle set: dimensions, palette size, and
solution counts per puzzle.

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

	if title := set.Title(0); title != "" {
		fmt.Printf("Title:   %s\n", title)
	}
	if author := set.Author(0); author != "" {
		fmt.Printf("Author:  %s\n", author)
	}
	fmt.Printf("Puzzles: %d\n\n", set.PuzzleCount())

	for p := 1; p <= set.PuzzleCount(); p++ {
		name := set.Title(p)
		if name == "" {
			name = set.ID(p)
		}
		if name == "" {
			name = fmt.Sprintf("puzzle %d", p)
		}
		fmt.Printf("%s: %dx%d, %d colors, %d goal(s), %d solved, %d saved\n",
			name, set.RowCount(p), set.ColumnCount(p), set.ColorCount(p),
			set.GoalCount(p), set.SolvedCount(p), set.SavedCount(p))
	}
	return nil
}
