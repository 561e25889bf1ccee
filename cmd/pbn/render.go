package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ianprime0509/libpbn/diag"
	"github.com/ianprime0509/libpbn/model"
	"github.com/ianprime0509/libpbn/parser"
	"github.com/ianprime0509/libpbn/render"
)

func renderCmd(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	outputFile := fs.String("output", "", "Write canonical XML to file instead of stdout")
	verbose := fs.Bool("verbose", false, "Log parse details to stderr")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: pbn render [options] <file.pbn>

Parse a puzzle set document and write its canonical, normalized XML.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Normalize to stdout
  pbn render puzzles.pbn

  # Normalize to a file
  pbn render --output canonical.pbn puzzles.pbn
`)
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

	out := os.Stdout
	if *outputFile != "" {
		f, err := os.Create(*outputFile)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := render.Render(set, out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// loadSet reads and parses one document, reporting diagnostics to stderr on
// failure.
func loadSet(path string, verbose bool) (*model.PuzzleSet, error) {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	log.WithFields(logrus.Fields{"path": path, "bytes": len(data)}).Debug("parsing document")

	var diags diag.List
	set, err := parser.Parse(data, &diags)
	if err != nil {
		for _, d := range diags.All() {
			log.WithField("offset", d.Loc.Offset).Error(d.Kind.String())
		}
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	log.WithField("puzzles", set.PuzzleCount()).Debug("parsed document")
	return set, nil
}
