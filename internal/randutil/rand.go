package randutil

import (
	"crypto/rand"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/secp256k1"
	"github.com/consensys/gnark-crypto/ecc/secp256k1/fr"
)

func RandomScalars(n int) ([]fr.Element, error) {
	res := make([]fr.Element, n)
	for i := 0; i < n; i++ {
		if _, err := res[i].SetRandom(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// RandomPoints returns n points r_i * G for uniform r_i.
func RandomPoints(n int) ([]secp256k1.G1Affine, error) {
	res := make([]secp256k1.G1Affine, n)
	for i := 0; i < n; i++ {
		p, err := randomPoint()
		if err != nil {
			return nil, err
		}
		res[i] = p
	}
	return res, nil
}

func randomPoint() (secp256k1.G1Affine, error) {
	var p secp256k1.G1Affine
	scalar, err := rand.Int(rand.Reader, fr.Modulus())
	if err != nil {
		return p, err
	}
	// 0 would give the point at infinity
	if scalar.Sign() == 0 {
		scalar.SetInt64(1)
	}
	p.ScalarMultiplicationBase(scalar)
	return p, nil
}

// Jacobian converts affine points, e.g. from RandomPoints, to Jacobian form.
func Jacobian(points []secp256k1.G1Affine) []secp256k1.G1Jac {
	res := make([]secp256k1.G1Jac, len(points))
	for i := range points {
		res[i].FromAffine(&points[i])
	}
	return res
}

// BigInts returns the regular-form integers behind scalars.
func BigInts(scalars []fr.Element) []*big.Int {
	res := make([]*big.Int, len(scalars))
	for i := range scalars {
		res[i] = scalars[i].BigInt(new(big.Int))
	}
	return res
}
