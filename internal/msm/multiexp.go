// Package msm computes weighted sums of secp256k1 points, sum_i s_i * G_i,
// with bucketed (Pippenger) accumulation.
package msm

import (
	"fmt"
	"slices"

	"github.com/consensys/gnark-crypto/ecc/secp256k1"
	"github.com/consensys/gnark-crypto/ecc/secp256k1/fr"
)

// MultiExponent holds an immutable snapshot of (generator, scalar) pairs.
//
// Generators are kept in affine form so that bucket accumulation uses mixed
// additions; scalars are kept as regular little-endian limbs ready for window
// extraction. Neither buffer is shared with the caller.
//
// Multiple runs in variable time: all-zero windows of a scalar cost nothing.
// Callers holding secret scalars must take that into account.
type MultiExponent struct {
	points  []secp256k1.G1Affine
	scalars [][fr.Limbs]uint64
	window  uint
}

type config struct {
	window uint
}

// Option configures a MultiExponent at construction.
type Option func(*config) error

// WithWindow fixes the bucket width in bits instead of deriving it from the
// number of terms. Valid widths are 1 through 16.
func WithWindow(c uint) Option {
	return func(cfg *config) error {
		if c == 0 || c > maxWindow {
			return fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidWindow, c, maxWindow)
		}
		cfg.window = c
		return nil
	}
}

// New builds a MultiExponent from Jacobian generators. The generators are
// converted to affine with a single batched inversion.
func New(generators []secp256k1.G1Jac, scalars []fr.Element, opts ...Option) (*MultiExponent, error) {
	if len(generators) != len(scalars) {
		return nil, fmt.Errorf("%w: %d generators, %d scalars", ErrLengthMismatch, len(generators), len(scalars))
	}
	return build(secp256k1.BatchJacobianToAffineG1(generators), scalars, opts)
}

// NewFromAffine builds a MultiExponent from generators already in affine form.
func NewFromAffine(generators []secp256k1.G1Affine, scalars []fr.Element, opts ...Option) (*MultiExponent, error) {
	if len(generators) != len(scalars) {
		return nil, fmt.Errorf("%w: %d generators, %d scalars", ErrLengthMismatch, len(generators), len(scalars))
	}
	return build(slices.Clone(generators), scalars, opts)
}

// build takes ownership of points.
func build(points []secp256k1.G1Affine, scalars []fr.Element, opts []Option) (*MultiExponent, error) {
	cfg := config{window: windowFor(len(scalars))}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	limbs := make([][fr.Limbs]uint64, len(scalars))
	for i := range scalars {
		limbs[i] = scalars[i].Bits()
	}
	return &MultiExponent{
		points:  points,
		scalars: limbs,
		window:  cfg.window,
	}, nil
}

// Clone returns an independent deep copy of m.
func (m *MultiExponent) Clone() *MultiExponent {
	return &MultiExponent{
		points:  slices.Clone(m.points),
		scalars: slices.Clone(m.scalars),
		window:  m.window,
	}
}

// Len returns the number of terms.
func (m *MultiExponent) Len() int { return len(m.points) }

// Window returns the bucket width in bits.
func (m *MultiExponent) Window() uint { return m.window }

// Multiple returns sum_i s_i * G_i.
//
// Windows are visited from the most significant one down: the running result
// is shifted left by c bits (c doublings) and the window's bucket sum added,
// so the positional weights 2^(j*c) never have to be applied explicitly.
// Multiple does not modify m and is safe for concurrent use.
func (m *MultiExponent) Multiple() secp256k1.G1Jac {
	res := identity()
	if len(m.points) == 0 {
		return res
	}

	c := m.window
	buckets := make([]secp256k1.G1Jac, (1<<c)-1)
	for j := nbWindows(c) - 1; j >= 0; j-- {
		if !res.Z.IsZero() {
			for range c {
				res.DoubleAssign()
			}
		}
		partial := m.windowSum(buckets, uint(j)*c)
		res.AddAssign(&partial)
	}
	return res
}

// windowSum returns sum_i d_i * G_i where d_i is the c-bit digit of scalar i at
// bit offset off. buckets is scratch space of length 2^c - 1.
func (m *MultiExponent) windowSum(buckets []secp256k1.G1Jac, off uint) secp256k1.G1Jac {
	for k := range buckets {
		buckets[k] = identity()
	}

	c := m.window
	for i := range m.points {
		d := digit(&m.scalars[i], off, c)
		if d == 0 {
			continue
		}
		buckets[d-1].AddMixed(&m.points[i])
	}

	// running holds bucket_k + ... + bucket_top, so adding it once per k
	// weights every bucket by its index.
	running, total := identity(), identity()
	for k := len(buckets) - 1; k >= 0; k-- {
		running.AddAssign(&buckets[k])
		total.AddAssign(&running)
	}
	return total
}
