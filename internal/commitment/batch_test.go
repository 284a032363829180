package commitment

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/secp256k1"
	"github.com/consensys/gnark-crypto/ecc/secp256k1/fr"
	"github.com/stretchr/testify/require"

	"github.com/Han-16/sigmamsm/internal/msm"
	"github.com/Han-16/sigmamsm/internal/randutil"
)

type statement struct {
	expected   secp256k1.G1Jac
	generators []secp256k1.G1Jac
	scalars    []fr.Element
}

func newStatement(t *testing.T, generators []secp256k1.G1Jac) statement {
	t.Helper()
	scalars, err := randutil.RandomScalars(len(generators))
	require.NoError(t, err)
	expected, err := msm.NaiveMultiple(generators, scalars)
	require.NoError(t, err)
	return statement{expected: expected, generators: generators, scalars: scalars}
}

func randomGenerators(t *testing.T, n int) []secp256k1.G1Jac {
	t.Helper()
	points, err := randutil.RandomPoints(n)
	require.NoError(t, err)
	return randutil.Jacobian(points)
}

func TestOpens(t *testing.T) {
	st := newStatement(t, randomGenerators(t, 5))
	me, err := msm.New(st.generators, st.scalars)
	require.NoError(t, err)
	require.True(t, Opens(&st.expected, me))

	st.expected.DoubleAssign()
	require.False(t, Opens(&st.expected, me))
}

func TestBatchVerifierAccepts(t *testing.T) {
	// statements share an anonymity set, so generators are folded together
	set := randomGenerators(t, 16)
	bv := NewBatchVerifier()
	for i := 0; i < 6; i++ {
		st := newStatement(t, set)
		require.NoError(t, bv.Add(st.expected, st.generators, st.scalars))
	}
	extra := newStatement(t, randomGenerators(t, 3))
	require.NoError(t, bv.Add(extra.expected, extra.generators, extra.scalars))

	require.Equal(t, 7, bv.Len())
	require.LessOrEqual(t, bv.Terms(), 16+3+7)

	ok, err := bv.Verify()
	require.NoError(t, err)
	require.True(t, ok)
}

func TestBatchVerifierRejectsOneBadStatement(t *testing.T) {
	set := randomGenerators(t, 8)
	bv := NewBatchVerifier()
	for i := 0; i < 4; i++ {
		st := newStatement(t, set)
		if i == 2 {
			st.scalars[0].SetOne()
		}
		require.NoError(t, bv.Add(st.expected, st.generators, st.scalars))
	}

	ok, err := bv.Verify()
	require.NoError(t, err)
	require.False(t, ok)

	bv.Reset()
	require.Zero(t, bv.Len())
	require.Zero(t, bv.Terms())
	ok, err = bv.Verify()
	require.NoError(t, err)
	require.True(t, ok)
}

func TestBatchVerifierLengthMismatch(t *testing.T) {
	st := newStatement(t, randomGenerators(t, 2))
	bv := NewBatchVerifier()
	err := bv.Add(st.expected, st.generators, st.scalars[:1])
	require.ErrorIs(t, err, msm.ErrLengthMismatch)
	require.Zero(t, bv.Len())
}

func TestBatchVerifierIdentityStatement(t *testing.T) {
	gens := randomGenerators(t, 4)
	zeros := make([]fr.Element, len(gens))
	var inf secp256k1.G1Jac

	bv := NewBatchVerifier()
	require.NoError(t, bv.Add(inf, gens, zeros))
	ok, err := bv.Verify()
	require.NoError(t, err)
	require.True(t, ok)
}

func TestBatchVerifierDoesNotTouchInputs(t *testing.T) {
	st := newStatement(t, randomGenerators(t, 3))
	before := append([]secp256k1.G1Jac(nil), st.generators...)

	bv := NewBatchVerifier()
	require.NoError(t, bv.Add(st.expected, st.generators, st.scalars))
	for i := range before {
		require.True(t, before[i].Equal(&st.generators[i]))
	}
}

func TestBatchVerifierZeroValue(t *testing.T) {
	var bv BatchVerifier
	ok, err := bv.Verify()
	require.NoError(t, err)
	require.True(t, ok)

	set := randomGenerators(t, 4)
	for range 2 {
		st := newStatement(t, set)
		require.NoError(t, bv.Add(st.expected, st.generators, st.scalars))
	}
	require.Equal(t, 2, bv.Len())
	require.LessOrEqual(t, bv.Terms(), 4+2)

	ok, err = bv.Verify()
	require.NoError(t, err)
	require.True(t, ok)

	bv.Reset()
	require.Zero(t, bv.Len())
}
