// Package model defines the entities of a parsed puzzle set: puzzles,
// colors, clues, and solutions, all backed by the store arenas and addressed
// by 32-bit indices. The model is immutable after parsing except for the
// saved-solution write path.
package model

import "github.com/ianprime0509/libpbn/store"

// SolutionType distinguishes the three solution sequences of a puzzle.
type SolutionType int

const (
	// Goal is the intended fully-solved grid; every cell is one color.
	Goal SolutionType = iota
	// Solved is a known solution; same singleton-cell invariant as Goal.
	Solved
	// Saved is an in-progress grid; cells are candidate sets.
	Saved
)

func (t SolutionType) String() string {
	switch t {
	case Goal:
		return "goal"
	case Solved:
		return "solution"
	case Saved:
		return "saved"
	default:
		return "?"
	}
}

// MaxColors is the palette cap; color indices fit in 5 bits.
const MaxColors = 32

// Reserved palette slots.
const (
	// BackgroundIndex is the palette slot of the background color.
	BackgroundIndex = 0
	// DefaultIndex is the palette slot of the default foreground color.
	DefaultIndex = 1
)

// Well-known color defaults.
const (
	DefaultBackgroundName = "white"
	DefaultForegroundName = "black"
	DefaultBackgroundChar = '.'
	DefaultForegroundChar = 'X'
)

// Color is a palette entry: a name, a printable glyph identifying the color
// in image text, and an RGB triple.
type Color struct {
	Name string
	Char byte
	RGB  [3]byte
}

// Clue is one run in a clue line: Count consecutive cells of palette color
// Color. Count fits in 27 bits, Color in 5.
type Clue struct {
	Color uint32
	Count uint32
}

const countMask = 1<<27 - 1

// MaxClueCount is the largest representable run length.
const MaxClueCount = countMask

// PackClue serializes a clue into one arena word: count in the low 27 bits,
// color index in the high 5.
func PackClue(c Clue) uint32 {
	return c.Color<<27 | c.Count&countMask
}

// UnpackClue is the inverse of PackClue.
func UnpackClue(w uint32) Clue {
	return Clue{Color: w >> 27, Count: w & countMask}
}

// colorWords is the packed width of a Color record: word 0 is the pooled name
// index, word 1 packs char and RGB.
const colorWords = 2

// PackColor serializes a color into its two arena words.
func PackColor(name store.StringIndex, char byte, rgb [3]byte) (uint32, uint32) {
	return uint32(name), uint32(char)<<24 | uint32(rgb[0])<<16 | uint32(rgb[1])<<8 | uint32(rgb[2])
}

func unpackColor(s *store.Store, w0, w1 uint32) Color {
	return Color{
		Name: s.ResolveString(store.StringIndex(w0)),
		Char: byte(w1 >> 24),
		RGB:  [3]byte{byte(w1 >> 16), byte(w1 >> 8), byte(w1)},
	}
}

// Solution is one grid image with an optional id and notes. Its dimensions
// are the containing puzzle's; the image is a cell slice in the word arena,
// cell (r, c) at element r*columns+c.
type Solution struct {
	ID    store.StringIndex
	Image store.DataIndex
	Notes []store.StringIndex
}

// Puzzle is one rectangular grid puzzle. Index 0 of a PuzzleSet is the
// synthetic root carrying only set-wide metadata; it has no palette, clues,
// or solutions.
type Puzzle struct {
	Source      store.StringIndex
	ID          store.StringIndex
	Title       store.StringIndex
	Author      store.StringIndex
	AuthorID    store.StringIndex
	Copyright   store.StringIndex
	Description store.StringIndex

	// Background and Default are the declared background/default color
	// names; after normalization they match palette slots 0 and 1.
	Background store.StringIndex
	Default    store.StringIndex

	// Colors is a slice of packed two-word color records.
	Colors store.DataIndex

	Rows    uint32
	Columns uint32

	// RowClues and ColumnClues are slices of one-word line references; each
	// reference addresses a slice of packed clue words.
	RowClues    store.DataIndex
	ColumnClues store.DataIndex

	Goals  []Solution
	Solved []Solution
	Saved  []Solution

	Notes []store.StringIndex
}

// PuzzleSet is the top-level container. Puzzles[0] is the synthetic root;
// 1..N are the concrete puzzles. All permanent state lives in Store and is
// released with the set.
type PuzzleSet struct {
	Store   *store.Store
	Puzzles []Puzzle
}

// NewPuzzleSet returns an empty set holding only the root puzzle.
func NewPuzzleSet() *PuzzleSet {
	return &PuzzleSet{
		Store:   store.New(),
		Puzzles: make([]Puzzle, 1),
	}
}
