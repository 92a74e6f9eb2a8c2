package musig

import (
	"crypto/rand"
	"testing"

	"github.com/argonsec/musig/pkg/math/curve"
	"github.com/argonsec/musig/pkg/math/sample"
	"github.com/argonsec/musig/pkg/party"
	"github.com/argonsec/musig/pkg/schnorr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateKeysDeterministic(t *testing.T) {
	group := curve.Secp256k1{}
	ids := party.NewIDSlice([]party.ID{"a", "b", "c"})
	_, publics := newSignerSet(group, ids)

	first, err := AggregateKeys(group, publics)
	require.NoError(t, err)
	second, err := AggregateKeys(group, publics)
	require.NoError(t, err)

	assert.True(t, first.GroupKey.Equal(second.GroupKey))
	for _, id := range ids {
		assert.True(t, first.Coefficients[id].Equal(second.Coefficients[id]))
	}
}

// TestAggregateKeysPermutationInvariant checks that the aggregate depends
// only on the set of key values, not on party labels or map layout.
func TestAggregateKeysPermutationInvariant(t *testing.T) {
	group := curve.Secp256k1{}
	ids := party.NewIDSlice([]party.ID{"a", "b", "c", "d"})
	_, publics := newSignerSet(group, ids)

	relabelled := map[party.ID]curve.Point{
		"w": publics["d"],
		"x": publics["c"],
		"y": publics["b"],
		"z": publics["a"],
	}

	original, err := AggregateKeys(group, publics)
	require.NoError(t, err)
	permuted, err := AggregateKeys(group, relabelled)
	require.NoError(t, err)

	assert.True(t, original.GroupKey.Equal(permuted.GroupKey), "group key should not depend on party labels")
	assert.True(t, original.Coefficients["a"].Equal(permuted.Coefficients["z"]), "coefficient should follow the key value")
}

func TestAggregateKeysDistinctCoefficients(t *testing.T) {
	group := curve.Secp256k1{}
	ids := party.NewIDSlice([]party.ID{"a", "b", "c"})
	_, publics := newSignerSet(group, ids)

	agg, err := AggregateKeys(group, publics)
	require.NoError(t, err)

	for i, idI := range ids {
		for _, idJ := range ids[i+1:] {
			assert.False(t, agg.Coefficients[idI].Equal(agg.Coefficients[idJ]),
				"coefficients for %q and %q should differ", idI, idJ)
		}
	}

	// The weighted aggregate must not collapse to the plain sum.
	plain := group.NewPoint()
	for _, id := range ids {
		plain = plain.Add(publics[id])
	}
	assert.False(t, agg.GroupKey.Equal(plain))
}

func TestAggregateKeysRejectsInvalid(t *testing.T) {
	group := curve.Secp256k1{}
	ids := party.NewIDSlice([]party.ID{"a", "b"})
	_, publics := newSignerSet(group, ids)

	_, err := AggregateKeys(group, map[party.ID]curve.Point{"a": publics["a"]})
	assert.Error(t, err, "a single key is not an aggregate")

	_, err = AggregateKeys(group, map[party.ID]curve.Point{"a": publics["a"], "b": nil})
	assert.Error(t, err)

	_, err = AggregateKeys(group, map[party.ID]curve.Point{"a": publics["a"], "b": group.NewPoint()})
	assert.Error(t, err, "identity keys must be rejected")
}

// TestKeyCancellationDefeated replays the rogue key attack that breaks plain
// key summation, and checks that coefficient weighting stops it: the
// attacker's aggregate no longer collapses to a key they control, so their
// solo signature does not verify.
func TestKeyCancellationDefeated(t *testing.T) {
	group := curve.Secp256k1{}

	victimSecret := sample.ScalarUnit(rand.Reader, group)
	victim := victimSecret.ActOnBase()
	attackerSecret := sample.ScalarUnit(rand.Reader, group)
	attacker := attackerSecret.ActOnBase()

	// X' = X_attacker - X_victim cancels the victim under plain summation.
	rogue := attacker.Sub(victim)
	require.True(t, victim.Add(rogue).Equal(attacker), "sanity: plain summation collapses")

	agg, err := AggregateKeys(group, map[party.ID]curve.Point{
		"victim":   victim,
		"attacker": rogue,
	})
	require.NoError(t, err)

	assert.False(t, agg.GroupKey.Equal(attacker), "weighted aggregate should not collapse to the attacker's key")

	// The attacker's best attempt: sign alone against the aggregate, exactly
	// as in the naive attack.
	message := []byte("the victim never saw this")
	nonce := sample.ScalarUnit(rand.Reader, group)
	R := nonce.ActOnBase()
	e := schnorr.Challenge(R, agg.GroupKey, message)
	z := group.NewScalar().Set(e).Mul(attackerSecret).Add(nonce)

	forged := schnorr.Signature{R: R, Z: z}
	assert.False(t, forged.Verify(agg.GroupKey, message), "solo forgery should not verify against the weighted aggregate")
}
