package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ianprime0509/libpbn/catalog"
)

func defaultCatalogPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "pbn", "catalog.db")
	}
	return "catalog.db"
}

func catalogCmd(args []string) error {
	fs := flag.NewFlagSet("catalog", flag.ExitOnError)
	dbPath := fs.String("db", defaultCatalogPath(), "Catalog database path")
	verbose := fs.Bool("verbose", false, "Log parse details to stderr")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: pbn catalog [options] <add|list|remove> [arguments]

Manage the local puzzle set catalog. Documents are stored in canonical form
and deduplicated by content id.

Subcommands:
  add <file.pbn>   Parse a document and store it
  list             List stored puzzle sets
  remove <id>      Remove a stored puzzle set

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("catalog subcommand required")
	}

	if dir := filepath.Dir(*dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create catalog directory: %w", err)
		}
	}
	cat, err := catalog.Open(*dbPath)
	if err != nil {
		return err
	}
	defer cat.Close()

	switch fs.Arg(0) {
	case "add":
		if fs.NArg() < 2 {
			return fmt.Errorf("puzzle set file required")
		}
		set, err := loadSet(fs.Arg(1), *verbose)
		if err != nil {
			return err
		}
		id, err := cat.Put(set)
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	case "list":
		entries, err := cat.List()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("catalog is empty")
			return nil
		}
		for _, e := range entries {
			title := e.Title
			if title == "" {
				title = "(untitled)"
			}
			fmt.Printf("%s  %-30s  %-20s  %d puzzle(s)\n", e.ID, title, e.Author, e.Puzzles)
		}
		return nil
	case "remove":
		if fs.NArg() < 2 {
			return fmt.Errorf("entry id required")
		}
		return cat.Delete(fs.Arg(1))
	default:
		return fmt.Errorf("unknown catalog subcommand: %s", fs.Arg(0))
	}
}
