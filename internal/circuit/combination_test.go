package circuit

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/secp256k1"
	"github.com/consensys/gnark-crypto/ecc/secp256k1/fr"
	"github.com/consensys/gnark/test"
	"github.com/stretchr/testify/require"

	"github.com/Han-16/sigmamsm/internal/msm"
	"github.com/Han-16/sigmamsm/internal/randutil"
)

func randomCombination(t *testing.T, n int) ([]secp256k1.G1Affine, []fr.Element, secp256k1.G1Affine) {
	t.Helper()
	points, err := randutil.RandomPoints(n)
	require.NoError(t, err)
	scalars, err := randutil.RandomScalars(n)
	require.NoError(t, err)

	me, err := msm.NewFromAffine(points, scalars)
	require.NoError(t, err)
	sumJac := me.Multiple()
	var sum secp256k1.G1Affine
	sum.FromJacobian(&sumJac)
	return points, scalars, sum
}

func TestCombinationSolved(t *testing.T) {
	if testing.Short() {
		t.Skip("emulated scalar multiplication is slow")
	}
	points, scalars, sum := randomCombination(t, 2)

	assignment, err := Assign(points, scalars, sum)
	require.NoError(t, err)
	require.NoError(t, test.IsSolved(NewCombination(2), assignment, ecc.BN254.ScalarField()))
}

func TestCombinationWrongSum(t *testing.T) {
	if testing.Short() {
		t.Skip("emulated scalar multiplication is slow")
	}
	points, scalars, sum := randomCombination(t, 2)
	sum.Double(&sum)

	assignment, err := Assign(points, scalars, sum)
	require.NoError(t, err)
	require.Error(t, test.IsSolved(NewCombination(2), assignment, ecc.BN254.ScalarField()))
}

func TestAssignRejects(t *testing.T) {
	points, scalars, sum := randomCombination(t, 2)

	_, err := Assign(points, scalars[:1], sum)
	require.ErrorIs(t, err, msm.ErrLengthMismatch)

	_, err = Assign(nil, nil, sum)
	require.ErrorIs(t, err, ErrNoTerms)

	var inf secp256k1.G1Affine
	_, err = Assign(points, scalars, inf)
	require.ErrorIs(t, err, ErrDegenerate)

	zeroed := append([]fr.Element(nil), scalars...)
	zeroed[1].SetZero()
	_, err = Assign(points, zeroed, sum)
	require.ErrorIs(t, err, ErrDegenerate)
}

func TestAssignShape(t *testing.T) {
	points, scalars, sum := randomCombination(t, 3)
	w, err := Assign(points, scalars, sum)
	require.NoError(t, err)
	require.Len(t, w.Generators, 3)
	require.Len(t, w.Scalars, 3)
}
