package sample

import (
	"crypto/rand"
	"testing"

	"github.com/argonsec/musig/pkg/math/curve"
	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
)

func TestModN(t *testing.T) {
	n := saferith.ModulusFromUint64(1 << 20)
	for i := 0; i < 32; i++ {
		out := ModN(rand.Reader, n)
		_, _, lt := out.CmpMod(n)
		assert.EqualValues(t, 1, lt, "sampled value should be below the modulus")
	}
}

func TestScalar(t *testing.T) {
	group := curve.Secp256k1{}

	a := Scalar(rand.Reader, group)
	b := Scalar(rand.Reader, group)
	assert.False(t, a.Equal(b), "two random scalars should differ")
}

func TestScalarUnit(t *testing.T) {
	group := curve.Secp256k1{}
	for i := 0; i < 32; i++ {
		assert.False(t, ScalarUnit(rand.Reader, group).IsZero())
	}
}
