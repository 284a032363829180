// Package commitment checks that weighted sums of generators open to expected
// commitments, one at a time or folded into a single multi-exponentiation.
package commitment

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/secp256k1"
	"github.com/consensys/gnark-crypto/ecc/secp256k1/fr"

	"github.com/Han-16/sigmamsm/internal/msm"
)

// Opens reports whether me sums to expected.
func Opens(expected *secp256k1.G1Jac, me *msm.MultiExponent) bool {
	got := me.Multiple()
	return got.Equal(expected)
}

// BatchVerifier accumulates statements sum_i s_i * G_i == C and checks them all
// with one multi-exponentiation.
//
// Statement j is weighted by a fresh random rho_j, so the batch reduces to
// sum_j rho_j * (sum_i s_ji * G_ji - C_j) == O. A false statement makes the
// combination vanish only with probability 1/r.
type BatchVerifier struct {
	index      map[secp256k1.G1Affine]int
	points     []secp256k1.G1Affine
	scalars    []fr.Element
	statements int
}

// NewBatchVerifier returns an empty batch. The zero BatchVerifier is also ready to use.
func NewBatchVerifier() *BatchVerifier {
	return &BatchVerifier{
		index: make(map[secp256k1.G1Affine]int),
	}
}

// Add queues the statement sum_i scalars[i] * generators[i] == expected.
func (bv *BatchVerifier) Add(expected secp256k1.G1Jac, generators []secp256k1.G1Jac, scalars []fr.Element) error {
	if len(generators) != len(scalars) {
		return fmt.Errorf("%w: %d generators, %d scalars", msm.ErrLengthMismatch, len(generators), len(scalars))
	}

	var rho fr.Element
	if _, err := rho.SetRandom(); err != nil {
		return fmt.Errorf("draw batch weight: %w", err)
	}

	affine := secp256k1.BatchJacobianToAffineG1(append(generators[:len(generators):len(generators)], expected))
	for i := range scalars {
		var w fr.Element
		w.Mul(&rho, &scalars[i])
		bv.accumulate(&affine[i], &w)
	}

	var negRho fr.Element
	negRho.Neg(&rho)
	bv.accumulate(&affine[len(scalars)], &negRho)

	bv.statements++
	return nil
}

func (bv *BatchVerifier) accumulate(p *secp256k1.G1Affine, w *fr.Element) {
	if p.IsInfinity() {
		return
	}
	if bv.index == nil {
		bv.index = make(map[secp256k1.G1Affine]int)
	}
	if i, ok := bv.index[*p]; ok {
		bv.scalars[i].Add(&bv.scalars[i], w)
		return
	}
	bv.index[*p] = len(bv.points)
	bv.points = append(bv.points, *p)
	bv.scalars = append(bv.scalars, *w)
}

// Verify reports whether every queued statement holds. An empty batch verifies.
func (bv *BatchVerifier) Verify() (bool, error) {
	me, err := msm.NewFromAffine(bv.points, bv.scalars)
	if err != nil {
		return false, fmt.Errorf("computing msm: %w", err)
	}
	res := me.Multiple()
	return res.Z.IsZero(), nil
}

// Len returns the number of queued statements.
func (bv *BatchVerifier) Len() int { return bv.statements }

// Terms returns the number of distinct generators in the folded sum.
func (bv *BatchVerifier) Terms() int { return len(bv.points) }

// Reset drops all queued statements.
func (bv *BatchVerifier) Reset() {
	clear(bv.index)
	bv.points = bv.points[:0]
	bv.scalars = bv.scalars[:0]
	bv.statements = 0
}
