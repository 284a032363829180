package msm

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/secp256k1/fr"
	"github.com/stretchr/testify/require"
)

func TestWindowFor(t *testing.T) {
	require.Equal(t, uint(3), windowFor(0))
	require.Equal(t, uint(3), windowFor(31))
	require.Equal(t, uint(4), windowFor(32))
	require.Equal(t, uint(7), windowFor(1000))
	require.Equal(t, uint(8), windowFor(2000))
	require.Equal(t, uint(maxWindow), windowFor(1<<30))
}

func TestNbWindows(t *testing.T) {
	require.Equal(t, 256, nbWindows(1))
	require.Equal(t, 86, nbWindows(3))
	require.Equal(t, 32, nbWindows(8))
	require.Equal(t, 37, nbWindows(7))
	require.Equal(t, 16, nbWindows(16))
}

// TestDigitsReassemble checks that the windows of a scalar, weighted by their
// position, add back up to the scalar for every width.
func TestDigitsReassemble(t *testing.T) {
	var s fr.Element
	_, err := s.SetRandom()
	require.NoError(t, err)
	want := s.BigInt(new(big.Int))
	k := s.Bits()

	for c := uint(1); c <= maxWindow; c++ {
		got := new(big.Int)
		for j := nbWindows(c) - 1; j >= 0; j-- {
			d := digit(&k, uint(j)*c, c)
			require.Less(t, d, uint64(1)<<c)
			got.Lsh(got, c)
			got.Add(got, new(big.Int).SetUint64(d))
		}
		require.Zero(t, want.Cmp(got), "c=%d", c)
	}
}

func TestDigitAcrossLimbs(t *testing.T) {
	k := [fr.Limbs]uint64{0xF000000000000000, 0x5, 0, 0x8000000000000000}
	require.Equal(t, uint64(0x5F), digit(&k, 60, 8))
	require.Equal(t, uint64(1), digit(&k, 255, 4))
	require.Equal(t, uint64(0), digit(&k, 256, 4))
	require.Equal(t, uint64(0), digit(&k, 300, 4))
}
