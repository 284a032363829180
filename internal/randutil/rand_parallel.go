package randutil

import (
	"runtime"

	"github.com/consensys/gnark-crypto/ecc/secp256k1"
	"github.com/consensys/gnark-crypto/ecc/secp256k1/fr"
	"golang.org/x/sync/errgroup"
)

// RandomScalarsPar generates n random scalars in parallel.
// If workers <= 0, it defaults to runtime.NumCPU().
// It returns a slice of length n (possibly empty if n<=0).
func RandomScalarsPar(n, workers int) ([]fr.Element, error) {
	if n <= 0 {
		return []fr.Element{}, nil
	}

	out := make([]fr.Element, n)
	err := forEach(n, workers, func(i int) error {
		// NOTE: crypto/rand.Reader is safe for concurrent use.
		_, err := out[i].SetRandom()
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RandomPointsPar generates n random points in parallel.
// Each point is (random scalar) * G in affine form.
// If workers <= 0, it defaults to runtime.NumCPU().
// It returns a slice of length n (possibly empty if n<=0).
func RandomPointsPar(n, workers int) ([]secp256k1.G1Affine, error) {
	if n <= 0 {
		return []secp256k1.G1Affine{}, nil
	}

	out := make([]secp256k1.G1Affine, n)
	err := forEach(n, workers, func(i int) error {
		p, err := randomPoint()
		if err != nil {
			return err
		}
		out[i] = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// forEach runs fn(0..n-1) on at most workers goroutines and returns the first error.
func forEach(n, workers int, fn func(i int) error) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			return fn(i)
		})
	}
	return g.Wait()
}
