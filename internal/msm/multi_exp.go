package msm

import (
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/secp256k1"
	"github.com/consensys/gnark-crypto/ecc/secp256k1/fr"
)

// GnarkMultiple computes sum_i scalars[i] * points[i] using gnark-crypto MultiExp (parallel MSM).
// Used as a baseline by the bench and check commands.
func GnarkMultiple(points []secp256k1.G1Affine, scalars []fr.Element) (secp256k1.G1Jac, error) {
	if len(points) != len(scalars) {
		return identity(), ErrLengthMismatch
	}
	if len(points) == 0 {
		return identity(), nil
	}

	var acc secp256k1.G1Jac
	if _, err := acc.MultiExp(points, scalars, ecc.MultiExpConfig{}); err != nil {
		return identity(), err
	}
	return acc, nil
}
