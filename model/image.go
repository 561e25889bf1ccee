package model

import "github.com/ianprime0509/libpbn/store"

// Image is a view of one solution's cell grid. Cells are 32-bit candidate
// bitsets: bit k set means palette color k is a candidate for that cell.
type Image struct {
	set    *PuzzleSet
	puzzle int
	base   store.DataIndex
	rows   int
	cols   int
}

// GoalImage returns a view of goal i of puzzle p.
func (ps *PuzzleSet) GoalImage(p, i int) Image {
	return ps.image(p, ps.Puzzles[p].Goals[i])
}

// SolvedImage returns a view of solved solution i of puzzle p.
func (ps *PuzzleSet) SolvedImage(p, i int) Image {
	return ps.image(p, ps.Puzzles[p].Solved[i])
}

// SavedImage returns a view of saved solution i of puzzle p.
func (ps *PuzzleSet) SavedImage(p, i int) Image {
	return ps.image(p, ps.Puzzles[p].Saved[i])
}

func (ps *PuzzleSet) image(p int, s Solution) Image {
	return Image{
		set:    ps,
		puzzle: p,
		base:   s.Image,
		rows:   int(ps.Puzzles[p].Rows),
		cols:   int(ps.Puzzles[p].Columns),
	}
}

// Rows returns the image's row count.
func (im Image) Rows() int { return im.rows }

// Columns returns the image's column count.
func (im Image) Columns() int { return im.cols }

func (im Image) cell(r, c int) store.DataIndex {
	return im.set.Store.SliceElemIndex(im.base, uint32(r*im.cols+c), 1)
}

// Get returns the cell bitset at (r, c).
func (im Image) Get(r, c int) uint32 {
	return im.set.Store.Word(im.cell(r, c))
}

// Set overwrites the cell at (r, c). Bits outside the puzzle's palette are
// silently cleared.
func (im Image) Set(r, c int, bits uint32) {
	im.set.Store.SetWord(im.cell(r, c), bits&im.set.ColorMask(im.puzzle))
}

// Clear fills every cell with the full palette bitset ("unknown").
func (im Image) Clear() {
	mask := im.set.ColorMask(im.puzzle)
	for r := 0; r < im.rows; r++ {
		for c := 0; c < im.cols; c++ {
			im.set.Store.SetWord(im.cell(r, c), mask)
		}
	}
}

// GetOrCreateSavedSolution returns the index of puzzle p's saved solution,
// appending one with every cell unknown on first request. Idempotent.
func (ps *PuzzleSet) GetOrCreateSavedSolution(p int) int {
	pz := &ps.Puzzles[p]
	if len(pz.Saved) > 0 {
		return 0
	}
	n := int(pz.Rows) * int(pz.Columns)
	mask := ps.ColorMask(p)
	cells := make([]uint32, n)
	for i := range cells {
		cells[i] = mask
	}
	pz.Saved = append(pz.Saved, Solution{
		ID:    store.EmptyString,
		Image: ps.Store.PushSlice(cells, 1),
	})
	return 0
}
