package prove

import (
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"math/bits"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	frmimc "github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/ianprime0509/libpbn/model"
)

var (
	// ErrNotBinary is returned for puzzles with more than two colors; the
	// circuit models cells as booleans.
	ErrNotBinary = errors.New("prove: puzzle is not binary")

	// ErrNoGoal is returned when the puzzle has no goal image to attest.
	ErrNoGoal = errors.New("prove: puzzle has no goal")
)

// Attestation carries a proof together with everything needed to verify it.
type Attestation struct {
	Proof        groth16.Proof
	VerifyingKey groth16.VerifyingKey
	Public       witness.Witness

	Rows, Cols  int
	Commitment  *big.Int
	Constraints int
}

// Attest proves that puzzle p's first goal satisfies the filled-cell totals
// implied by its clues, revealing only the totals and a MiMC commitment of
// the grid.
func Attest(set *model.PuzzleSet, p int) (*Attestation, error) {
	if set.ColorCount(p) != 2 {
		return nil, ErrNotBinary
	}
	if set.GoalCount(p) == 0 {
		return nil, ErrNoGoal
	}

	rows, cols := set.RowCount(p), set.ColumnCount(p)
	im := set.GoalImage(p, 0)

	cells := make([]frontend.Variable, rows*cols)
	grid := make([]uint64, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := uint64(0)
			if bits.TrailingZeros32(im.Get(r, c)) != model.BackgroundIndex {
				v = 1
			}
			grid[r*cols+c] = v
			cells[r*cols+c] = v
		}
	}

	rowTotals := make([]frontend.Variable, rows)
	for i := 0; i < rows; i++ {
		rowTotals[i] = lineTotal(set, p, i, true)
	}
	colTotals := make([]frontend.Variable, cols)
	for j := 0; j < cols; j++ {
		colTotals[j] = lineTotal(set, p, j, false)
	}

	commitment := commitGrid(grid)

	assignment := NewGridCircuit(rows, cols)
	assignment.Cells = cells
	assignment.RowTotals = rowTotals
	assignment.ColTotals = colTotals
	assignment.Commitment = commitment

	start := time.Now()
	cs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, NewGridCircuit(rows, cols))
	if err != nil {
		return nil, fmt.Errorf("circuit compilation failed: %w", err)
	}
	slog.Info("circuit compiled",
		"constraints", cs.GetNbConstraints(),
		"duration", time.Since(start))

	pk, vk, err := groth16.Setup(cs)
	if err != nil {
		return nil, fmt.Errorf("setup failed: %w", err)
	}

	w, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("witness construction failed: %w", err)
	}
	public, err := w.Public()
	if err != nil {
		return nil, fmt.Errorf("public witness: %w", err)
	}

	start = time.Now()
	proof, err := groth16.Prove(cs, pk, w)
	if err != nil {
		return nil, fmt.Errorf("prove failed: %w", err)
	}
	slog.Info("proof generated", "duration", time.Since(start))

	return &Attestation{
		Proof:        proof,
		VerifyingKey: vk,
		Public:       public,
		Rows:         rows,
		Cols:         cols,
		Commitment:   commitment,
		Constraints:  cs.GetNbConstraints(),
	}, nil
}

// Verify checks an attestation.
func Verify(att *Attestation) error {
	if err := groth16.Verify(att.Proof, att.VerifyingKey, att.Public); err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}
	return nil
}

// lineTotal sums the clue counts of one line: the number of filled cells the
// line must contain.
func lineTotal(set *model.PuzzleSet, p, i int, byRow bool) uint64 {
	total := uint64(0)
	n := set.RowClueCount(p, i)
	if !byRow {
		n = set.ColumnClueCount(p, i)
	}
	for k := 0; k < n; k++ {
		if byRow {
			total += uint64(set.RowClue(p, i, k).Count)
		} else {
			total += uint64(set.ColumnClue(p, i, k).Count)
		}
	}
	return total
}

// commitGrid computes the off-circuit MiMC commitment matching the
// in-circuit hash: one field element absorbed per cell.
func commitGrid(grid []uint64) *big.Int {
	h := frmimc.NewMiMC()
	for _, v := range grid {
		var e fr.Element
		e.SetUint64(v)
		b := e.Bytes()
		h.Write(b[:])
	}
	return new(big.Int).SetBytes(h.Sum(nil))
}
