// Package catalog provides a SQLite-backed library of puzzle sets. Each row
// stores the canonical rendering plus enough metadata to browse without
// re-parsing; the content id is unique, so re-adding a normalized-identical
// document is rejected.
package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ianprime0509/libpbn/diag"
	"github.com/ianprime0509/libpbn/model"
	"github.com/ianprime0509/libpbn/parser"
	"github.com/ianprime0509/libpbn/render"
)

var (
	// ErrNotFound is returned when no entry has the requested id.
	ErrNotFound = errors.New("catalog: entry not found")

	// ErrDuplicate is returned when an entry with the same content id
	// already exists.
	ErrDuplicate = errors.New("catalog: duplicate content id")
)

// Entry is the browsable metadata of one stored puzzle set.
type Entry struct {
	ID        string    `json:"id"`
	ContentID string    `json:"content_id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Puzzles   int       `json:"puzzles"`
	AddedAt   time.Time `json:"added_at"`
}

// Catalog handles the database operations. Open one per path; the zero value
// is not usable.
type Catalog struct {
	db *sql.DB
}

// Open opens (or creates) the catalog database at path. Use ":memory:" for a
// transient catalog.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps transient databases (":memory:") coherent.
	db.SetMaxOpenConns(1)
	c := &Catalog{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return c, nil
}

// migrate creates the schema if it doesn't exist.
func (c *Catalog) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS puzzle_sets (
		id TEXT PRIMARY KEY,
		content_id TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL DEFAULT '',
		author TEXT NOT NULL DEFAULT '',
		puzzles INTEGER NOT NULL,
		document BLOB NOT NULL,
		added_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_puzzle_sets_title ON puzzle_sets(title);
	CREATE INDEX IF NOT EXISTS idx_puzzle_sets_author ON puzzle_sets(author);
	`
	_, err := c.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Put stores a parsed set and returns the new entry's id.
func (c *Catalog) Put(set *model.PuzzleSet) (string, error) {
	doc := render.Bytes(set)
	cid := render.ContentID(set)

	var exists int
	err := c.db.QueryRow(`SELECT COUNT(*) FROM puzzle_sets WHERE content_id = ?`, cid).Scan(&exists)
	if err != nil {
		return "", fmt.Errorf("check content id: %w", err)
	}
	if exists > 0 {
		return "", ErrDuplicate
	}

	id := uuid.New().String()
	_, err = c.db.Exec(
		`INSERT INTO puzzle_sets (id, content_id, title, author, puzzles, document) VALUES (?, ?, ?, ?, ?, ?)`,
		id, cid, set.Title(0), set.Author(0), set.PuzzleCount(), doc,
	)
	if err != nil {
		return "", fmt.Errorf("insert puzzle set: %w", err)
	}
	return id, nil
}

// Get loads and re-parses the entry with the given id.
func (c *Catalog) Get(id string) (*model.PuzzleSet, error) {
	var doc []byte
	err := c.db.QueryRow(`SELECT document FROM puzzle_sets WHERE id = ?`, id).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	var diags diag.List
	set, err := parser.Parse(doc, &diags)
	if err != nil {
		return nil, fmt.Errorf("stored document no longer parses: %w", err)
	}
	return set, nil
}

// List returns all entries, newest first.
func (c *Catalog) List() ([]Entry, error) {
	rows, err := c.db.Query(
		`SELECT id, content_id, title, author, puzzles, added_at FROM puzzle_sets ORDER BY added_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list puzzle sets: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ContentID, &e.Title, &e.Author, &e.Puzzles, &e.AddedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete removes the entry with the given id.
func (c *Catalog) Delete(id string) error {
	res, err := c.db.Exec(`DELETE FROM puzzle_sets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
