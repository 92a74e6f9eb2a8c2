package musig

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/argonsec/musig/pkg/hash"
	"github.com/argonsec/musig/pkg/math/curve"
	"github.com/argonsec/musig/pkg/math/sample"
	"github.com/argonsec/musig/pkg/party"
)

// KeyAggregation is the result of aggregating a set of public keys.
//
// Each key Xᵢ is weighted by a coefficient aᵢ = H(ℓ, Xᵢ), where ℓ is a hash
// of the full key set, and the group key is X = Σ aᵢ⋅Xᵢ. Since aᵢ commits to
// every key in the set, a participant cannot choose their key as a function
// of the others' keys to cancel them out of the aggregate, which is exactly
// the attack plain key summation admits.
type KeyAggregation struct {
	// GroupKey is the aggregated public key X = Σ aᵢ⋅Xᵢ.
	GroupKey curve.Point
	// Coefficients maps each participant to their coefficient aᵢ.
	Coefficients map[party.ID]curve.Scalar
}

// AggregateKeys computes the aggregated group key and per-party coefficients
// for the given public keys.
//
// The result depends only on the set of key values: the keys are ordered by
// their canonical encodings before hashing, so every participant derives the
// same aggregate regardless of how their key map is laid out.
func AggregateKeys(group curve.Curve, publicKeys map[party.ID]curve.Point) (*KeyAggregation, error) {
	if len(publicKeys) < 2 {
		return nil, errors.New("musig: need at least 2 public keys to aggregate")
	}

	type encodedKey struct {
		id    party.ID
		data  []byte
		point curve.Point
	}
	encoded := make([]encodedKey, 0, len(publicKeys))
	for id, pk := range publicKeys {
		if pk == nil || pk.IsIdentity() {
			return nil, fmt.Errorf("musig: invalid public key for party %q", id)
		}
		data, err := pk.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("musig: failed to encode public key for party %q: %w", id, err)
		}
		encoded = append(encoded, encodedKey{id: id, data: data, point: pk})
	}
	sort.Slice(encoded, func(i, j int) bool {
		return bytes.Compare(encoded[i].data, encoded[j].data) < 0
	})

	// ℓ commits to the entire (ordered) key set.
	keySetHash := hash.New(hash.BytesWithDomain{
		TheDomain: "MuSig-KeySet",
		Bytes:     []byte{},
	})
	for _, k := range encoded {
		_ = keySetHash.WriteAny(k.data)
	}
	keySetDigest := keySetHash.Sum()

	groupKey := group.NewPoint()
	coefficients := make(map[party.ID]curve.Scalar, len(encoded))
	for _, k := range encoded {
		h := hash.New(hash.BytesWithDomain{
			TheDomain: "MuSig-KeyAggCoefficient",
			Bytes:     keySetDigest,
		})
		_ = h.WriteAny(k.data)
		a := sample.Scalar(h.Digest(), group)
		if a.IsZero() {
			return nil, fmt.Errorf("musig: aggregation coefficient for party %q is zero", k.id)
		}
		coefficients[k.id] = a
		groupKey = groupKey.Add(a.Act(k.point))
	}
	if groupKey.IsIdentity() {
		return nil, errors.New("musig: aggregated group key is the identity")
	}

	return &KeyAggregation{
		GroupKey:     groupKey,
		Coefficients: coefficients,
	}, nil
}
