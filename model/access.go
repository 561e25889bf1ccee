package model

import "github.com/ianprime0509/libpbn/store"

// resolve reads a pooled string, falling back to the root puzzle's field when
// the puzzle's own is empty. Source, author, author-id, and copyright inherit
// this way; id, title, and description are puzzle-local.
func (ps *PuzzleSet) resolve(own, root store.StringIndex) string {
	if own == store.EmptyString {
		return ps.Store.ResolveString(root)
	}
	return ps.Store.ResolveString(own)
}

// Source returns puzzle p's source, inheriting from the root when unset.
func (ps *PuzzleSet) Source(p int) string {
	return ps.resolve(ps.Puzzles[p].Source, ps.Puzzles[0].Source)
}

// Author returns puzzle p's author, inheriting from the root when unset.
func (ps *PuzzleSet) Author(p int) string {
	return ps.resolve(ps.Puzzles[p].Author, ps.Puzzles[0].Author)
}

// AuthorID returns puzzle p's author id, inheriting from the root when unset.
func (ps *PuzzleSet) AuthorID(p int) string {
	return ps.resolve(ps.Puzzles[p].AuthorID, ps.Puzzles[0].AuthorID)
}

// Copyright returns puzzle p's copyright, inheriting from the root when unset.
func (ps *PuzzleSet) Copyright(p int) string {
	return ps.resolve(ps.Puzzles[p].Copyright, ps.Puzzles[0].Copyright)
}

// Title returns puzzle p's title. Titles do not inherit.
func (ps *PuzzleSet) Title(p int) string {
	return ps.Store.ResolveString(ps.Puzzles[p].Title)
}

// ID returns puzzle p's id. Ids do not inherit.
func (ps *PuzzleSet) ID(p int) string {
	return ps.Store.ResolveString(ps.Puzzles[p].ID)
}

// Description returns puzzle p's description. Descriptions do not inherit.
func (ps *PuzzleSet) Description(p int) string {
	return ps.Store.ResolveString(ps.Puzzles[p].Description)
}

// PuzzleCount returns the number of concrete puzzles (excluding the root).
func (ps *PuzzleSet) PuzzleCount() int {
	return len(ps.Puzzles) - 1
}

// ColorCount returns the palette size of puzzle p.
func (ps *PuzzleSet) ColorCount(p int) int {
	c := ps.Puzzles[p].Colors
	if c == store.EmptySlice {
		return 0
	}
	return int(ps.Store.SliceLen(c))
}

// Color returns palette entry i of puzzle p.
func (ps *PuzzleSet) Color(p, i int) Color {
	c := ps.Puzzles[p].Colors
	w0 := ps.Store.SliceWord(c, uint32(i), colorWords, 0)
	w1 := ps.Store.SliceWord(c, uint32(i), colorWords, 1)
	return unpackColor(ps.Store, w0, w1)
}

// ColorMask returns the bitset of all valid color indices of puzzle p.
func (ps *PuzzleSet) ColorMask(p int) uint32 {
	n := ps.ColorCount(p)
	if n >= 32 {
		return ^uint32(0)
	}
	return 1<<uint(n) - 1
}

// RowCount returns the number of rows of puzzle p.
func (ps *PuzzleSet) RowCount(p int) int {
	return int(ps.Puzzles[p].Rows)
}

// ColumnCount returns the number of columns of puzzle p.
func (ps *PuzzleSet) ColumnCount(p int) int {
	return int(ps.Puzzles[p].Columns)
}

func (ps *PuzzleSet) clueLine(lines store.DataIndex, i int) store.DataIndex {
	return store.DataIndex(ps.Store.SliceWord(lines, uint32(i), 1, 0))
}

// RowClueCount returns the number of clues in row line i of puzzle p.
func (ps *PuzzleSet) RowClueCount(p, i int) int {
	line := ps.clueLine(ps.Puzzles[p].RowClues, i)
	if line == store.EmptySlice {
		return 0
	}
	return int(ps.Store.SliceLen(line))
}

// RowClue returns clue k of row line i of puzzle p.
func (ps *PuzzleSet) RowClue(p, i, k int) Clue {
	line := ps.clueLine(ps.Puzzles[p].RowClues, i)
	return UnpackClue(ps.Store.SliceWord(line, uint32(k), 1, 0))
}

// ColumnClueCount returns the number of clues in column line j of puzzle p.
func (ps *PuzzleSet) ColumnClueCount(p, j int) int {
	line := ps.clueLine(ps.Puzzles[p].ColumnClues, j)
	if line == store.EmptySlice {
		return 0
	}
	return int(ps.Store.SliceLen(line))
}

// ColumnClue returns clue k of column line j of puzzle p.
func (ps *PuzzleSet) ColumnClue(p, j, k int) Clue {
	line := ps.clueLine(ps.Puzzles[p].ColumnClues, j)
	return UnpackClue(ps.Store.SliceWord(line, uint32(k), 1, 0))
}

// GoalCount returns the number of goal solutions of puzzle p.
func (ps *PuzzleSet) GoalCount(p int) int { return len(ps.Puzzles[p].Goals) }

// SolvedCount returns the number of solved solutions of puzzle p.
func (ps *PuzzleSet) SolvedCount(p int) int { return len(ps.Puzzles[p].Solved) }

// SavedCount returns the number of saved solutions of puzzle p.
func (ps *PuzzleSet) SavedCount(p int) int { return len(ps.Puzzles[p].Saved) }

// Note returns note i of puzzle p.
func (ps *PuzzleSet) Note(p, i int) string {
	return ps.Store.ResolveString(ps.Puzzles[p].Notes[i])
}

// NoteCount returns the number of notes of puzzle p.
func (ps *PuzzleSet) NoteCount(p int) int { return len(ps.Puzzles[p].Notes) }
