package schnorr

import (
	"errors"

	"github.com/argonsec/musig/pkg/math/curve"
)

// This file implements naive multi-signature aggregation, where the group key
// is the plain sum of the participants' public keys, and a signature is
// assembled from partial responses to a shared challenge.
//
// The construction is INSECURE, and kept only to demonstrate why: a
// participant who announces X' = X - Y for a victim key Y cancels the victim
// out of the aggregate, and can then sign for the "group" alone. See the
// package tests, and the musig protocol for the coefficient-based fix.

// SumPoints returns the plain sum of the given points.
//
// When applied to public keys this is naive key aggregation, which is
// vulnerable to key cancellation. It remains safe for combining nonce
// commitments, since those are fresh per signing session.
func SumPoints(group curve.Curve, points []curve.Point) (curve.Point, error) {
	if len(points) == 0 {
		return nil, errors.New("schnorr: no points to aggregate")
	}
	sum := group.NewPoint()
	for _, p := range points {
		if p == nil {
			return nil, errors.New("schnorr: nil point in aggregation")
		}
		sum = sum.Add(p)
	}
	return sum, nil
}

// NaivePartialSign computes a participant's response z = k + e⋅x to the
// shared challenge e, given their nonce k and private key x.
//
// Neither input is modified.
func NaivePartialSign(secret, nonce, e curve.Scalar) curve.Scalar {
	group := secret.Curve()
	return group.NewScalar().Set(e).Mul(secret).Add(nonce)
}

// NaiveCombine assembles the aggregate signature from the combined nonce
// commitment and the individual responses.
//
// The result verifies against the summed public key, provided every
// participant used the same challenge.
func NaiveCombine(group curve.Curve, commitment curve.Point, partials []curve.Scalar) (*Signature, error) {
	if commitment == nil || commitment.IsIdentity() {
		return nil, errors.New("schnorr: invalid combined nonce commitment")
	}
	if len(partials) == 0 {
		return nil, errors.New("schnorr: no partial signatures to combine")
	}
	z := group.NewScalar()
	for _, zi := range partials {
		if zi == nil {
			return nil, errors.New("schnorr: nil partial signature")
		}
		z.Add(zi)
	}
	return &Signature{R: commitment, Z: z}, nil
}
