// Package circuit proves in zero knowledge that a weighted sum of secp256k1
// points, as computed by msm.MultiExponent, opens to a public point.
//
// secp256k1 arithmetic is emulated over the BN254 scalar field.
package circuit

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/secp256k1"
	"github.com/consensys/gnark-crypto/ecc/secp256k1/fr"
	"github.com/consensys/gnark/frontend"
	swemu "github.com/consensys/gnark/std/algebra/emulated/sw_emulated"
	emu "github.com/consensys/gnark/std/math/emulated"

	"github.com/Han-16/sigmamsm/internal/msm"
)

var (
	ErrNoTerms    = errors.New("combination needs at least one term")
	ErrDegenerate = errors.New("zero scalar, identity generator or identity sum")
)

type Affine = swemu.AffinePoint[emu.Secp256k1Fp]

type Scalar = emu.Element[emu.Secp256k1Fr]

// Combination asserts Generators[0]*Scalars[0] + ... == Sum.
// Generators and scalars are private; only Sum is public.
type Combination struct {
	Generators []Affine
	Scalars    []Scalar
	Sum        Affine `gnark:",public"`
}

// NewCombination returns an empty circuit with room for n terms, to be passed to frontend.Compile.
func NewCombination(n int) *Combination {
	return &Combination{
		Generators: make([]Affine, n),
		Scalars:    make([]Scalar, n),
	}
}

func (c *Combination) Define(api frontend.API) error {
	if len(c.Generators) == 0 {
		return ErrNoTerms
	}
	if len(c.Generators) != len(c.Scalars) {
		return msm.ErrLengthMismatch
	}

	curve, err := swemu.New[emu.Secp256k1Fp, emu.Secp256k1Fr](api, swemu.GetSecp256k1Params())
	if err != nil {
		return err
	}

	sum := curve.ScalarMul(&c.Generators[0], &c.Scalars[0])
	for i := 1; i < len(c.Generators); i++ {
		term := curve.ScalarMul(&c.Generators[i], &c.Scalars[i])
		sum = curve.AddUnified(sum, term)
	}

	curve.AssertIsEqual(sum, &c.Sum)
	return nil
}

// Assign builds a witness for the given terms and claimed sum.
//
// The in-circuit scalar multiplication is incomplete, so zero scalars and
// identity points are rejected up front.
func Assign(generators []secp256k1.G1Affine, scalars []fr.Element, sum secp256k1.G1Affine) (*Combination, error) {
	if len(generators) != len(scalars) {
		return nil, fmt.Errorf("%w: %d generators, %d scalars", msm.ErrLengthMismatch, len(generators), len(scalars))
	}
	if len(generators) == 0 {
		return nil, ErrNoTerms
	}
	if sum.IsInfinity() {
		return nil, ErrDegenerate
	}

	w := NewCombination(len(generators))
	for i := range generators {
		if generators[i].IsInfinity() || scalars[i].IsZero() {
			return nil, fmt.Errorf("%w: term %d", ErrDegenerate, i)
		}
		w.Generators[i] = affineOf(&generators[i])
		w.Scalars[i] = emu.ValueOf[emu.Secp256k1Fr](scalars[i].BigInt(new(big.Int)))
	}
	w.Sum = affineOf(&sum)
	return w, nil
}

func affineOf(p *secp256k1.G1Affine) Affine {
	var x, y big.Int
	p.X.BigInt(&x)
	p.Y.BigInt(&y)
	return Affine{
		X: emu.ValueOf[emu.Secp256k1Fp](&x),
		Y: emu.ValueOf[emu.Secp256k1Fp](&y),
	}
}
