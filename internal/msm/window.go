package msm

import (
	"math"

	"github.com/consensys/gnark-crypto/ecc/secp256k1/fr"
)

const (
	smallWindow = 3
	maxWindow   = 16
)

// windowFor picks the bucket width for n terms: 3 below 32 terms, ceil(ln n) above.
func windowFor(n int) uint {
	if n < 32 {
		return smallWindow
	}
	c := uint(math.Ceil(math.Log(float64(n))))
	if c > maxWindow {
		c = maxWindow
	}
	return c
}

func nbWindows(c uint) int {
	return int((fr.Bits + c - 1) / c)
}

// digit returns the c-bit window of k starting at bit off. Bits past fr.Bits read as zero.
func digit(k *[fr.Limbs]uint64, off, c uint) uint64 {
	if off >= fr.Bits {
		return 0
	}
	limb, shift := off/64, off%64
	d := k[limb] >> shift
	if shift+c > 64 && limb+1 < fr.Limbs {
		d |= k[limb+1] << (64 - shift)
	}
	return d & (1<<c - 1)
}
