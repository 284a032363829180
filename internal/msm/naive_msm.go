package msm

import (
	"errors"

	"github.com/consensys/gnark-crypto/ecc/secp256k1"
	"github.com/consensys/gnark-crypto/ecc/secp256k1/fr"
)

var (
	ErrLengthMismatch = errors.New("generators and scalars must have same length")
	ErrInvalidWindow  = errors.New("window width out of range")
)

// NaiveMultiple computes sum_i scalars[i] * generators[i] in the simplest way:
// one MSB-first double-and-add per term. It shares no code with MultiExponent
// and serves as the reference in tests and the check command.
func NaiveMultiple(generators []secp256k1.G1Jac, scalars []fr.Element) (secp256k1.G1Jac, error) {
	if len(generators) != len(scalars) {
		return identity(), ErrLengthMismatch
	}

	acc := identity()
	for i := range generators {
		term := doubleAndAdd(&generators[i], &scalars[i])
		acc.AddAssign(&term)
	}
	return acc, nil
}

func doubleAndAdd(p *secp256k1.G1Jac, s *fr.Element) secp256k1.G1Jac {
	k := s.Bits()
	res := identity()
	for i := fr.Bits - 1; i >= 0; i-- {
		res.DoubleAssign()
		if (k[i/64]>>(uint(i)%64))&1 == 1 {
			res.AddAssign(p)
		}
	}
	return res
}

// identity returns the point at infinity in gnark-crypto's canonical (1, 1, 0) form.
func identity() secp256k1.G1Jac {
	var p secp256k1.G1Jac
	p.X.SetOne()
	p.Y.SetOne()
	return p
}
