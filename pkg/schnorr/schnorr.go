// Package schnorr implements Schnorr signatures over an abstract curve group,
// along with naive signature aggregation.
//
// The signatures produced here are "plain" Schnorr signatures with a full
// commitment point, not the x-only variant used by BIP-340.
package schnorr

import (
	"github.com/argonsec/musig/pkg/hash"
	"github.com/argonsec/musig/pkg/math/curve"
	"github.com/argonsec/musig/pkg/math/sample"
)

// Challenge computes the signing challenge e = H(R, P, m), as a scalar.
//
// R is the nonce commitment, P the public key the signature is checked
// against, and m the message. All three are bound into the challenge so a
// signature cannot be replayed for a different key or message.
func Challenge(R, public curve.Point, message []byte) curve.Scalar {
	group := public.Curve()
	h := hash.New(hash.BytesWithDomain{
		TheDomain: "Schnorr-Challenge",
		Bytes:     []byte{},
	})
	_ = h.WriteAny(R, public, message)
	return sample.Scalar(h.Digest(), group)
}

// Signature is a Schnorr signature (R, z), valid for a public key P and
// message m when z⋅G = R + e⋅P, with e = H(R, P, m).
type Signature struct {
	// R is the commitment to the signing nonce.
	R curve.Point
	// Z is the response to the challenge.
	Z curve.Scalar
}

// EmptySignature returns a Signature with newly initialized fields, for
// unmarshalling into.
func EmptySignature(group curve.Curve) Signature {
	return Signature{
		R: group.NewPoint(),
		Z: group.NewScalar(),
	}
}

// Verify checks that the signature is valid for the given public key and
// message.
//
// A false return carries no further detail, since any distinction between
// failure causes would leak information an attacker controls.
func (sig Signature) Verify(public curve.Point, message []byte) bool {
	if sig.R == nil || sig.Z == nil {
		return false
	}
	if sig.Z.IsZero() || sig.R.IsIdentity() {
		return false
	}
	if public == nil || public.IsIdentity() {
		return false
	}

	group := public.Curve()
	e := Challenge(sig.R, public, message)

	lhs := group.NewScalar().Set(sig.Z).ActOnBase()
	rhs := sig.R.Add(e.Act(public))

	return lhs.Equal(rhs)
}
