package schnorr

import (
	"errors"
	"fmt"
	"io"

	"github.com/argonsec/musig/pkg/math/curve"
	"github.com/cronokirby/saferith"
)

// maxSampleRetries bounds the number of attempts at sampling a non-zero
// scalar. With an honest entropy source a retry essentially never happens.
const maxSampleRetries = 8

// KeyPair is a Schnorr key pair (x, X = x⋅G).
type KeyPair struct {
	group   curve.Curve
	private curve.Scalar
	public  curve.Point
}

// scalarUnit reads entropy from rand and reduces it to a non-zero scalar,
// returning an error if the source fails.
//
// Unlike sample.ScalarUnit, an exhausted or broken entropy source surfaces as
// an error instead of a panic, since key generation is caller facing.
func scalarUnit(group curve.Curve, rand io.Reader) (curve.Scalar, error) {
	buf := make([]byte, group.SafeScalarBytes())
	for i := 0; i < maxSampleRetries; i++ {
		if _, err := io.ReadFull(rand, buf); err != nil {
			return nil, fmt.Errorf("schnorr: entropy source failed: %w", err)
		}
		n := new(saferith.Nat).SetBytes(buf)
		n.Mod(n, group.Order())
		if s := group.NewScalar().SetNat(n); !s.IsZero() {
			return s, nil
		}
	}
	return nil, errors.New("schnorr: entropy source kept producing zero scalars")
}

// GenerateKeyPair creates a new key pair over the given group, reading
// randomness from rand.
func GenerateKeyPair(group curve.Curve, rand io.Reader) (*KeyPair, error) {
	private, err := scalarUnit(group, rand)
	if err != nil {
		return nil, err
	}
	return &KeyPair{
		group:   group,
		private: private,
		public:  private.ActOnBase(),
	}, nil
}

// NewKeyPair creates a key pair from an existing private scalar.
func NewKeyPair(private curve.Scalar) (*KeyPair, error) {
	if private == nil || private.IsZero() {
		return nil, errors.New("schnorr: private key must be a non-zero scalar")
	}
	group := private.Curve()
	secret := group.NewScalar().Set(private)
	return &KeyPair{
		group:   group,
		private: secret,
		public:  secret.ActOnBase(),
	}, nil
}

// Validate checks the key pair invariant X = x⋅G.
func (kp *KeyPair) Validate() error {
	if kp.private == nil || kp.private.IsZero() {
		return errors.New("schnorr: private key is missing or zero")
	}
	if kp.public == nil || kp.public.IsIdentity() {
		return errors.New("schnorr: public key is missing or the identity")
	}
	if !kp.private.ActOnBase().Equal(kp.public) {
		return errors.New("schnorr: public key does not match private key")
	}
	return nil
}

// Public returns the public key X = x⋅G.
func (kp *KeyPair) Public() curve.Point {
	return kp.public
}

// Group returns the group this key pair was generated over.
func (kp *KeyPair) Group() curve.Curve {
	return kp.group
}

// Sign produces a Schnorr signature over message, reading nonce randomness
// from rand.
//
// A fresh nonce is sampled for every call, and wiped once the response has
// been computed. Reusing a nonce for two different messages hands the private
// key to anybody holding both signatures.
func (kp *KeyPair) Sign(rand io.Reader, message []byte) (*Signature, error) {
	k, err := scalarUnit(kp.group, rand)
	if err != nil {
		return nil, err
	}
	R := k.ActOnBase()

	e := Challenge(R, kp.public, message)
	z := e.Mul(kp.private).Add(k)

	k.Set(kp.group.NewScalar())

	return &Signature{R: R, Z: z}, nil
}
