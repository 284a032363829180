package autoghost

import "fmt"

// Amount is a value in base units.
type Amount int64

const (
	Coin Amount = 100_000_000

	// denomination step of a mint
	mintStep = Coin / 10

	// fee in hundredths of a percent
	feeBasisPoints = 25
)

// MinMintable is the smallest output worth minting: one 0.1 step plus fee.
const MinMintable = mintStep + mintStep*feeBasisPoints/10_000

// MintAmount returns the value that can be minted from an output of v once the
// fee is taken, rounded down to a multiple of 0.1 coin.
func MintAmount(v Amount) Amount {
	net := v * (10_000 - feeBasisPoints) / 10_000
	return net - net%mintStep
}

// String formats a in coins with up to eight decimals, e.g. "2.5".
func (a Amount) String() string {
	sign := ""
	if a < 0 {
		sign, a = "-", -a
	}
	whole, frac := a/Coin, a%Coin
	if frac == 0 {
		return fmt.Sprintf("%s%d", sign, whole)
	}
	s := fmt.Sprintf("%s%d.%08d", sign, whole, frac)
	for s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	return s
}
