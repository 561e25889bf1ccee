package parser

import (
	"math/bits"

	"github.com/ianprime0509/libpbn/diag"
	"github.com/ianprime0509/libpbn/model"
	"github.com/ianprime0509/libpbn/store"
)

// glyphAlphabet supplies glyphs for colors declared without one.
const glyphAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"

type scratchColor struct {
	name    string
	char    byte
	hasChar bool
	rgb     [3]byte
}

// scratchClue holds a clue before color resolution; an empty color name
// means the puzzle's default color.
type scratchClue struct {
	color string
	count uint32
}

type scratchSolution struct {
	typ   model.SolutionType
	id    string
	rows  [][]string
	notes []string
	loc   diag.Location
}

// puzzleScratch is the transient per-puzzle state built by the loader and
// consumed by the normalizer. Its lifetime ends when the puzzle is committed
// or dropped.
type puzzleScratch struct {
	source, id, title, author, authorID, copyright, description string

	defaultName    string
	backgroundName string

	colors []scratchColor

	rowLines, colLines [][]scratchClue
	hasRows, hasCols   bool

	solutions []scratchSolution
	notes     []string
}

func newScratch() *puzzleScratch {
	return &puzzleScratch{
		defaultName:    model.DefaultForegroundName,
		backgroundName: model.DefaultBackgroundName,
	}
}

func indexOfColor(colors []scratchColor, name string) int {
	for i, c := range colors {
		if c.name == name {
			return i
		}
	}
	return -1
}

// normalize reconciles a fully-parsed puzzle into canonical form and commits
// it to the set. A puzzle that cannot be normalized is dropped; the recorded
// diagnostics fail the document as a whole once parsing completes.
func (l *loader) normalize(sc *puzzleScratch) {
	loc := l.loc()

	// Palette completion: the two well-known names always exist.
	if indexOfColor(sc.colors, model.DefaultForegroundName) < 0 {
		sc.colors = append(sc.colors, scratchColor{
			name:    model.DefaultForegroundName,
			char:    model.DefaultForegroundChar,
			hasChar: true,
		})
	}
	if indexOfColor(sc.colors, model.DefaultBackgroundName) < 0 {
		sc.colors = append(sc.colors, scratchColor{
			name:    model.DefaultBackgroundName,
			char:    model.DefaultBackgroundChar,
			hasChar: true,
			rgb:     [3]byte{0xFF, 0xFF, 0xFF},
		})
	}

	// Glyph assignment for colors declared without a char.
	used := make(map[byte]bool)
	for _, c := range sc.colors {
		if c.hasChar {
			used[c.char] = true
		}
	}
	for i := range sc.colors {
		if sc.colors[i].hasChar {
			continue
		}
		for j := 0; j < len(glyphAlphabet); j++ {
			g := glyphAlphabet[j]
			if !used[g] {
				sc.colors[i].char = g
				sc.colors[i].hasChar = true
				used[g] = true
				break
			}
		}
	}

	// Reserved indices: background to slot 0, default to slot 1. If the
	// default occupied slot 0 it has moved to the background's old slot.
	bg := indexOfColor(sc.colors, sc.backgroundName)
	def := indexOfColor(sc.colors, sc.defaultName)
	if bg < 0 || def < 0 {
		l.diags.Add(diag.PuzzleColorUndefined, loc)
		return
	}
	sc.colors[model.BackgroundIndex], sc.colors[bg] = sc.colors[bg], sc.colors[model.BackgroundIndex]
	if def == model.BackgroundIndex {
		def = bg
	}
	sc.colors[model.DefaultIndex], sc.colors[def] = sc.colors[def], sc.colors[model.DefaultIndex]

	if len(sc.colors) > model.MaxColors {
		l.diags.Add(diag.PuzzleTooManyColors, loc)
		return
	}

	// Name and glyph tables; first occurrence wins on duplicates.
	nameIdx := make(map[string]uint32, len(sc.colors))
	glyphIdx := make(map[byte]uint32, len(sc.colors))
	for i, c := range sc.colors {
		if _, dup := nameIdx[c.name]; dup {
			l.diags.Add(diag.ColorDuplicateName, loc)
		} else {
			nameIdx[c.name] = uint32(i)
		}
		if !c.hasChar {
			continue
		}
		if _, dup := glyphIdx[c.char]; dup {
			l.diags.Add(diag.ColorDuplicateChar, loc)
		} else {
			glyphIdx[c.char] = uint32(i)
		}
	}

	// Clue resolution.
	rowClues, ok := l.resolveClues(sc, sc.rowLines, nameIdx, loc)
	if !ok {
		return
	}
	colClues, ok := l.resolveClues(sc, sc.colLines, nameIdx, loc)
	if !ok {
		return
	}

	// Dimension determination.
	var goalRows [][]string
	for _, sol := range sc.solutions {
		if sol.typ == model.Goal {
			goalRows = sol.rows
			break
		}
	}
	var nRows, nCols int
	switch {
	case sc.hasRows && sc.hasCols:
		nRows, nCols = len(rowClues), len(colClues)
	case goalRows == nil && (sc.hasRows || sc.hasCols):
		l.diags.Add(diag.PuzzleMissingClues, loc)
		return
	case goalRows == nil:
		l.diags.Add(diag.PuzzleMissingGoal, loc)
		return
	default:
		nRows, nCols = len(goalRows), len(goalRows[0])
		if sc.hasRows {
			nRows = len(rowClues)
		}
		if sc.hasCols {
			nCols = len(colClues)
		}
	}

	// Cell encoding.
	var mask uint32
	if len(sc.colors) >= 32 {
		mask = ^uint32(0)
	} else {
		mask = 1<<uint(len(sc.colors)) - 1
	}
	type encSolution struct {
		typ   model.SolutionType
		id    string
		cells []uint32
		notes []string
	}
	var enc []encSolution
	for _, sol := range sc.solutions {
		cells, ok := l.encodeCells(sol, glyphIdx, mask, nRows, nCols)
		if !ok {
			continue
		}
		enc = append(enc, encSolution{typ: sol.typ, id: sol.id, cells: cells, notes: sol.notes})
	}

	// Clue derivation from the goal image. The reserved-index sort above has
	// already run, so color 0 is the background and never appears in a clue.
	if !sc.hasRows || !sc.hasCols {
		var goal []uint32
		for _, e := range enc {
			if e.typ == model.Goal {
				goal = e.cells
				break
			}
		}
		if goal == nil {
			l.diags.Add(diag.PuzzleMissingGoal, loc)
			return
		}
		if !sc.hasRows {
			rowClues = deriveClues(goal, nRows, nCols, true)
		}
		if !sc.hasCols {
			colClues = deriveClues(goal, nRows, nCols, false)
		}
	}

	// Commit.
	st := l.set.Store
	pz := model.Puzzle{
		Source:      st.InternStr(sc.source),
		ID:          st.InternStr(sc.id),
		Title:       st.InternStr(sc.title),
		Author:      st.InternStr(sc.author),
		AuthorID:    st.InternStr(sc.authorID),
		Copyright:   st.InternStr(sc.copyright),
		Description: st.InternStr(sc.description),
		Background:  st.InternStr(sc.backgroundName),
		Default:     st.InternStr(sc.defaultName),
		Rows:        uint32(nRows),
		Columns:     uint32(nCols),
	}

	colorWords := make([]uint32, 0, 2*len(sc.colors))
	for _, c := range sc.colors {
		w0, w1 := model.PackColor(st.InternStr(c.name), c.char, c.rgb)
		colorWords = append(colorWords, w0, w1)
	}
	pz.Colors = st.PushSlice(colorWords, 2)

	pz.RowClues = commitClueLines(st, rowClues)
	pz.ColumnClues = commitClueLines(st, colClues)

	for _, e := range enc {
		sol := model.Solution{
			ID:    st.InternStr(e.id),
			Image: st.PushSlice(e.cells, 1),
		}
		for _, n := range e.notes {
			sol.Notes = append(sol.Notes, st.InternStr(n))
		}
		switch e.typ {
		case model.Goal:
			pz.Goals = append(pz.Goals, sol)
		case model.Solved:
			pz.Solved = append(pz.Solved, sol)
		case model.Saved:
			pz.Saved = append(pz.Saved, sol)
		}
	}

	for _, n := range sc.notes {
		pz.Notes = append(pz.Notes, st.InternStr(n))
	}

	l.set.Puzzles = append(l.set.Puzzles, pz)
}

// resolveClues maps parsed clue color names through the palette. An unknown
// name fails the whole puzzle.
func (l *loader) resolveClues(sc *puzzleScratch, lines [][]scratchClue, nameIdx map[string]uint32, loc diag.Location) ([][]model.Clue, bool) {
	out := make([][]model.Clue, 0, len(lines))
	for _, line := range lines {
		resolved := make([]model.Clue, 0, len(line))
		for _, c := range line {
			name := c.color
			if name == "" {
				name = sc.defaultName
			}
			idx, ok := nameIdx[name]
			if !ok {
				l.diags.Add(diag.PuzzleColorUndefined, loc)
				return nil, false
			}
			resolved = append(resolved, model.Clue{Color: idx, Count: c.count})
		}
		out = append(out, resolved)
	}
	return out, true
}

// encodeCells turns a parsed image into cell bitsets, verifying dimensions
// and the singleton invariant for goal and solved images.
func (l *loader) encodeCells(sol scratchSolution, glyphIdx map[byte]uint32, mask uint32, nRows, nCols int) ([]uint32, bool) {
	if len(sol.rows) != nRows {
		l.diags.Add(diag.ImageMismatchedDimensions, sol.loc)
		return nil, false
	}
	for _, row := range sol.rows {
		if len(row) != nCols {
			l.diags.Add(diag.ImageMismatchedDimensions, sol.loc)
			return nil, false
		}
	}
	cells := make([]uint32, 0, nRows*nCols)
	for _, row := range sol.rows {
		for _, tok := range row {
			var cell uint32
			if tok == "?" {
				cell = mask
			} else {
				for i := 0; i < len(tok); i++ {
					idx, ok := glyphIdx[tok[i]]
					if !ok {
						l.diags.Add(diag.PuzzleColorUndefined, sol.loc)
						return nil, false
					}
					cell |= 1 << idx
				}
			}
			if sol.typ != model.Saved && bits.OnesCount32(cell) != 1 {
				l.diags.Add(diag.SolutionIndeterminateImage, sol.loc)
				return nil, false
			}
			cells = append(cells, cell&mask)
		}
	}
	return cells, true
}

// deriveClues run-length encodes a goal image. Runs of the background
// (color 0) separate clues and never appear in them.
func deriveClues(cells []uint32, nRows, nCols int, byRow bool) [][]model.Clue {
	nLines, lineLen := nRows, nCols
	if !byRow {
		nLines, lineLen = nCols, nRows
	}
	out := make([][]model.Clue, 0, nLines)
	for i := 0; i < nLines; i++ {
		line := []model.Clue{}
		var run model.Clue
		for j := 0; j < lineLen; j++ {
			var cell uint32
			if byRow {
				cell = cells[i*nCols+j]
			} else {
				cell = cells[j*nCols+i]
			}
			color := uint32(bits.TrailingZeros32(cell))
			if color == model.BackgroundIndex {
				if run.Count > 0 {
					line = append(line, run)
					run = model.Clue{}
				}
				continue
			}
			if run.Count > 0 && run.Color != color {
				line = append(line, run)
				run = model.Clue{}
			}
			run.Color = color
			run.Count++
		}
		if run.Count > 0 {
			line = append(line, run)
		}
		out = append(out, line)
	}
	return out
}

func commitClueLines(st *store.Store, lines [][]model.Clue) store.DataIndex {
	if len(lines) == 0 {
		return store.EmptySlice
	}
	refs := make([]uint32, 0, len(lines))
	for _, line := range lines {
		words := make([]uint32, 0, len(line))
		for _, c := range line {
			words = append(words, model.PackClue(c))
		}
		refs = append(refs, uint32(st.PushSlice(words, 1)))
	}
	return st.PushSlice(refs, 1)
}
