// Package prove produces zero-knowledge attestations for binary puzzles: a
// Groth16 proof that a secret grid is boolean, matches the per-line filled
// totals implied by the puzzle's clues, and hashes to a public MiMC
// commitment. The grid itself is never revealed.
//
// TODO: constrain full run-length structure per line, not just totals.
package prove

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"
)

// GridCircuit attests a rows×cols binary grid. Cells are secret; the
// per-row and per-column filled-cell totals and the MiMC commitment of the
// cells are public.
type GridCircuit struct {
	Cells      []frontend.Variable `gnark:",secret"`
	RowTotals  []frontend.Variable `gnark:",public"`
	ColTotals  []frontend.Variable `gnark:",public"`
	Commitment frontend.Variable   `gnark:",public"`

	rows, cols int
}

// NewGridCircuit returns a circuit shape for the given dimensions, for
// compilation and witness construction.
func NewGridCircuit(rows, cols int) *GridCircuit {
	return &GridCircuit{
		Cells:     make([]frontend.Variable, rows*cols),
		RowTotals: make([]frontend.Variable, rows),
		ColTotals: make([]frontend.Variable, cols),
		rows:      rows,
		cols:      cols,
	}
}

// Define declares the constraints: booleanness per cell, filled-count
// conservation per row and column, and the commitment binding.
func (c *GridCircuit) Define(api frontend.API) error {
	for _, cell := range c.Cells {
		api.AssertIsBoolean(cell)
	}

	for r := 0; r < c.rows; r++ {
		sum := frontend.Variable(0)
		for j := 0; j < c.cols; j++ {
			sum = api.Add(sum, c.Cells[r*c.cols+j])
		}
		api.AssertIsEqual(sum, c.RowTotals[r])
	}

	for j := 0; j < c.cols; j++ {
		sum := frontend.Variable(0)
		for r := 0; r < c.rows; r++ {
			sum = api.Add(sum, c.Cells[r*c.cols+j])
		}
		api.AssertIsEqual(sum, c.ColTotals[j])
	}

	h, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}
	h.Write(c.Cells...)
	api.AssertIsEqual(h.Sum(), c.Commitment)
	return nil
}
