package sample

import (
	"fmt"
	"io"

	"github.com/argonsec/musig/pkg/math/curve"
	"github.com/cronokirby/saferith"
)

const maxIterations = 255

var ErrMaxIterations = fmt.Errorf("sample: failed to generate after %d iterations", maxIterations)

func mustReadBits(rand io.Reader, buf []byte) {
	for i := 0; i < maxIterations; i++ {
		if _, err := io.ReadFull(rand, buf); err == nil {
			return
		}
	}
	panic(ErrMaxIterations)
}

// ModN samples an element of ℤₙ.
func ModN(rand io.Reader, n *saferith.Modulus) *saferith.Nat {
	out := new(saferith.Nat)
	buf := make([]byte, (n.BitLen()+7)/8)
	for {
		mustReadBits(rand, buf)
		out.SetBytes(buf)
		if _, _, lt := out.CmpMod(n); lt == 1 {
			return out
		}
	}
}

// Scalar returns a new scalar, sampled from the uniform distribution,
// reading from rand.
//
// The sampled bytes are reduced mod the group order, using enough extra bytes
// for the bias to be negligible. Reading from a hash function's digest stream
// makes this the hash-to-scalar operation used for challenges.
func Scalar(rand io.Reader, group curve.Curve) curve.Scalar {
	buf := make([]byte, group.SafeScalarBytes())
	mustReadBits(rand, buf)
	n := new(saferith.Nat).SetBytes(buf)
	n.Mod(n, group.Order())
	return group.NewScalar().SetNat(n)
}

// ScalarUnit returns a new scalar required to be non-zero, i.e. an element
// of [1, n-1], reading from rand.
//
// Secret keys and nonces must come from here, since zero values would leak
// or void the corresponding public value.
func ScalarUnit(rand io.Reader, group curve.Curve) curve.Scalar {
	for i := 0; i < maxIterations; i++ {
		if s := Scalar(rand, group); !s.IsZero() {
			return s
		}
	}
	panic(ErrMaxIterations)
}
