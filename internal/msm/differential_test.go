package msm

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/secp256k1"
	"github.com/consensys/gnark-crypto/ecc/secp256k1/fr"
	dsecp "github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/require"
)

// decredMultiple recomputes sum_i s_i * G_i with decred's secp256k1, which
// shares no code with gnark-crypto, and returns the affine coordinates as
// big-endian bytes. The identity maps to (0, 0).
func decredMultiple(generators []secp256k1.G1Affine, scalars []fr.Element) (x, y [32]byte) {
	var acc dsecp.JacobianPoint
	for i := range generators {
		if generators[i].IsInfinity() {
			continue
		}
		xb, yb := generators[i].X.Bytes(), generators[i].Y.Bytes()
		var px, py, one dsecp.FieldVal
		px.SetByteSlice(xb[:])
		py.SetByteSlice(yb[:])
		one.SetInt(1)
		p := dsecp.MakeJacobianPoint(&px, &py, &one)

		sb := scalars[i].Bytes()
		var k dsecp.ModNScalar
		k.SetByteSlice(sb[:])

		var term, sum dsecp.JacobianPoint
		dsecp.ScalarMultNonConst(&k, &p, &term)
		dsecp.AddNonConst(&acc, &term, &sum)
		acc.Set(&sum)
	}
	if (acc.X.IsZero() && acc.Y.IsZero()) || acc.Z.IsZero() {
		return x, y
	}
	acc.ToAffine()
	return *acc.X.Bytes(), *acc.Y.Bytes()
}

func TestDifferential(t *testing.T) {
	sizes := []int{1, 2, 3, 31, 32, 33, 100, 257, 1000, 2000}
	if testing.Short() {
		sizes = []int{1, 2, 31, 33, 257}
	}

	for _, n := range sizes {
		gens, scalars := randomTerms(t, n)
		affine := secp256k1.BatchJacobianToAffineG1(gens)

		m, err := New(gens, scalars)
		require.NoError(t, err)
		got := m.Multiple()

		naive, err := NaiveMultiple(gens, scalars)
		require.NoError(t, err)
		requireSamePoint(t, naive, got, "naive, n=%d", n)

		baseline, err := GnarkMultiple(affine, scalars)
		require.NoError(t, err)
		requireSamePoint(t, baseline, got, "gnark, n=%d", n)

		var gotAff secp256k1.G1Affine
		gotAff.FromJacobian(&got)
		x, y := decredMultiple(affine, scalars)
		require.Equal(t, x, gotAff.X.Bytes(), "decred x, n=%d", n)
		require.Equal(t, y, gotAff.Y.Bytes(), "decred y, n=%d", n)
	}
}

func TestDifferentialSparseScalars(t *testing.T) {
	// mostly small or zero scalars leave most buckets empty
	gens, _ := randomTerms(t, 300)
	scalars := make([]fr.Element, len(gens))
	for i := range scalars {
		if i%4 != 0 {
			scalars[i].SetUint64(uint64(i % 9))
		}
	}
	affine := secp256k1.BatchJacobianToAffineG1(gens)

	got := multiple(t, gens, scalars)
	naive, err := NaiveMultiple(gens, scalars)
	require.NoError(t, err)
	requireSamePoint(t, naive, got)

	var gotAff secp256k1.G1Affine
	gotAff.FromJacobian(&got)
	x, y := decredMultiple(affine, scalars)
	require.Equal(t, x, gotAff.X.Bytes())
	require.Equal(t, y, gotAff.Y.Bytes())
}
