package render

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/ianprime0509/libpbn/model"
)

// ContentID computes the content-addressed identifier of a puzzle set: the
// hex sha256 of its canonical rendering. Two sets that normalize to the same
// document share a ContentID.
func ContentID(set *model.PuzzleSet) string {
	sum := sha256.Sum256(Bytes(set))
	return "cid:" + hex.EncodeToString(sum[:])
}
