package autoghost

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMinMintable(t *testing.T) {
	require.Equal(t, Amount(10_025_000), MinMintable)
}

func TestMintAmount(t *testing.T) {
	for _, tc := range []struct {
		value, want Amount
	}{
		{Coin, 9 * mintStep},
		{10 * Coin, 99 * mintStep},
		{2*Coin + 5*mintStep, 24 * mintStep},
		{MinMintable, 0},
		{10_025_062, 0},
		{10_025_063, mintStep},
		{0, 0},
	} {
		require.Equal(t, tc.want, MintAmount(tc.value), "value %s", tc.value)
	}
}

func TestAmountString(t *testing.T) {
	require.Equal(t, "0", Amount(0).String())
	require.Equal(t, "1", Coin.String())
	require.Equal(t, "2.5", (2*Coin + 5*mintStep).String())
	require.Equal(t, "0.10025", MinMintable.String())
	require.Equal(t, "0.00000001", Amount(1).String())
	require.Equal(t, "-1.5", (-Coin - 5*mintStep).String())
}
