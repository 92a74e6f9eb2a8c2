package schnorr

import (
	"crypto/rand"
	"testing"

	"github.com/argonsec/musig/pkg/math/curve"
	"github.com/argonsec/musig/pkg/pool"
	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"
)

func TestSignVerify(t *testing.T) {
	group := curve.Secp256k1{}

	kp, err := GenerateKeyPair(group, rand.Reader)
	require.NoError(t, err)

	for _, message := range [][]byte{
		[]byte("hello"),
		[]byte(""),
		make([]byte, 1024),
	} {
		sig, err := kp.Sign(rand.Reader, message)
		require.NoError(t, err)
		assert.True(t, sig.Verify(kp.Public(), message), "expected valid signature")
	}
}

func TestSignVerifyPreHashed(t *testing.T) {
	group := curve.Secp256k1{}

	kp, err := GenerateKeyPair(group, rand.Reader)
	require.NoError(t, err)

	digest := sha3.Sum256([]byte("a rather long message, hashed down before signing"))
	sig, err := kp.Sign(rand.Reader, digest[:])
	require.NoError(t, err)
	assert.True(t, sig.Verify(kp.Public(), digest[:]))
}

func TestKeyPairValidate(t *testing.T) {
	group := curve.Secp256k1{}

	kp, err := GenerateKeyPair(group, rand.Reader)
	require.NoError(t, err)
	assert.NoError(t, kp.Validate())

	other, err := GenerateKeyPair(group, rand.Reader)
	require.NoError(t, err)
	mismatched := &KeyPair{group: group, private: kp.private, public: other.public}
	assert.Error(t, mismatched.Validate())

	assert.Error(t, (&KeyPair{group: group}).Validate())

	_, err = NewKeyPair(group.NewScalar())
	assert.Error(t, err, "zero private keys must be rejected")

	fromScalar, err := NewKeyPair(kp.private)
	require.NoError(t, err)
	assert.True(t, fromScalar.Public().Equal(kp.Public()))
}

func TestVerifyRejectsWrongInputs(t *testing.T) {
	group := curve.Secp256k1{}

	kp, err := GenerateKeyPair(group, rand.Reader)
	require.NoError(t, err)
	other, err := GenerateKeyPair(group, rand.Reader)
	require.NoError(t, err)

	message := []byte("pay 1 coin to b")
	sig, err := kp.Sign(rand.Reader, message)
	require.NoError(t, err)

	assert.False(t, sig.Verify(kp.Public(), []byte("pay 9 coins to b")), "accepted altered message")
	assert.False(t, sig.Verify(other.Public(), message), "accepted wrong public key")

	tampered := Signature{
		R: sig.R,
		Z: group.NewScalar().Set(sig.Z).Add(group.NewScalar().SetUInt32(1)),
	}
	assert.False(t, tampered.Verify(kp.Public(), message), "accepted altered response")

	flippedR := Signature{R: sig.R.Negate(), Z: sig.Z}
	assert.False(t, flippedR.Verify(kp.Public(), message), "accepted altered commitment")
}

func TestVerifyRejectsDegenerate(t *testing.T) {
	group := curve.Secp256k1{}

	kp, err := GenerateKeyPair(group, rand.Reader)
	require.NoError(t, err)
	message := []byte("message")

	assert.False(t, Signature{}.Verify(kp.Public(), message))
	assert.False(t, Signature{R: group.NewPoint(), Z: group.NewScalar().SetUInt32(1)}.Verify(kp.Public(), message), "accepted identity commitment")
	assert.False(t, Signature{R: group.NewBasePoint(), Z: group.NewScalar()}.Verify(kp.Public(), message), "accepted zero response")

	sig, err := kp.Sign(rand.Reader, message)
	require.NoError(t, err)
	assert.False(t, sig.Verify(group.NewPoint(), message), "accepted identity public key")
}

func TestSignatureMarshalling(t *testing.T) {
	group := curve.Secp256k1{}

	kp, err := GenerateKeyPair(group, rand.Reader)
	require.NoError(t, err)
	message := []byte("serialize me")

	sig, err := kp.Sign(rand.Reader, message)
	require.NoError(t, err)

	data, err := cbor.Marshal(sig)
	require.NoError(t, err)

	decoded := EmptySignature(group)
	require.NoError(t, cbor.Unmarshal(data, &decoded))
	assert.True(t, sig.R.Equal(decoded.R))
	assert.True(t, sig.Z.Equal(decoded.Z))
	assert.True(t, decoded.Verify(kp.Public(), message))
}

// TestNonceReuseRecoversKey demonstrates why Sign must never reuse a nonce:
// two signatures over different messages with the same nonce reveal the
// private key as x = (z₁ - z₂) / (e₁ - e₂).
func TestNonceReuseRecoversKey(t *testing.T) {
	group := curve.Secp256k1{}

	kp, err := GenerateKeyPair(group, rand.Reader)
	require.NoError(t, err)

	k, err := scalarUnit(group, rand.Reader)
	require.NoError(t, err)
	R := k.ActOnBase()

	m1 := []byte("first message")
	m2 := []byte("second message")
	e1 := Challenge(R, kp.Public(), m1)
	e2 := Challenge(R, kp.Public(), m2)

	z1 := group.NewScalar().Set(e1).Mul(kp.private).Add(k)
	z2 := group.NewScalar().Set(e2).Mul(kp.private).Add(k)

	// Both leaked signatures are individually valid.
	require.True(t, Signature{R: R, Z: z1}.Verify(kp.Public(), m1))
	require.True(t, Signature{R: R, Z: z2}.Verify(kp.Public(), m2))

	zDiff := group.NewScalar().Set(z1).Sub(z2)
	eDiff := group.NewScalar().Set(e1).Sub(e2)
	require.False(t, eDiff.IsZero())
	recovered := zDiff.Mul(eDiff.Invert())

	assert.True(t, recovered.Equal(kp.private), "nonce reuse should leak the private key")
	assert.True(t, recovered.ActOnBase().Equal(kp.Public()))
}

func TestChallengeBindsAllInputs(t *testing.T) {
	group := curve.Secp256k1{}

	kp1, err := GenerateKeyPair(group, rand.Reader)
	require.NoError(t, err)
	kp2, err := GenerateKeyPair(group, rand.Reader)
	require.NoError(t, err)

	R1 := kp1.Public()
	R2 := kp2.Public()
	m := []byte("message")

	base := Challenge(R1, kp1.Public(), m)
	assert.True(t, base.Equal(Challenge(R1, kp1.Public(), m)), "challenge should be deterministic")
	assert.False(t, base.Equal(Challenge(R2, kp1.Public(), m)), "challenge should depend on the commitment")
	assert.False(t, base.Equal(Challenge(R1, kp2.Public(), m)), "challenge should depend on the public key")
	assert.False(t, base.Equal(Challenge(R1, kp1.Public(), []byte("other"))), "challenge should depend on the message")
}

func TestBatchVerify(t *testing.T) {
	group := curve.Secp256k1{}
	pl := pool.NewPool(0)
	defer pl.TearDown()

	n := 8
	publics := make([]curve.Point, n)
	sigs := make([]*Signature, n)
	messages := make([][]byte, n)
	for i := 0; i < n; i++ {
		kp, err := GenerateKeyPair(group, rand.Reader)
		require.NoError(t, err)
		messages[i] = []byte{byte(i)}
		sig, err := kp.Sign(rand.Reader, messages[i])
		require.NoError(t, err)
		publics[i] = kp.Public()
		sigs[i] = sig
	}

	for _, p := range []*pool.Pool{pl, nil} {
		ok, err := BatchVerify(p, publics, sigs, messages)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	messages[n-1] = []byte("changed")
	ok, err := BatchVerify(pl, publics, sigs, messages)
	require.NoError(t, err)
	assert.False(t, ok, "batch with one bad signature should fail")

	_, err = BatchVerify(pl, publics, sigs[:1], messages)
	assert.Error(t, err)
}
