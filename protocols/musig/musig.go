// Package musig implements n-of-n Schnorr multi-signatures with
// coefficient-based key aggregation.
//
// Each co-signer weights their key by a coefficient derived from the whole
// key set, which defeats the key cancellation attack on plain key summation.
// Signing takes two message rounds: an exchange of nonce commitments,
// followed by an exchange of responses to the shared challenge. The combined
// output is an ordinary Schnorr signature under the aggregated group key,
// indistinguishable from a single-signer one.
package musig

import (
	"errors"
	"fmt"

	"github.com/argonsec/musig/internal/round"
	"github.com/argonsec/musig/pkg/hash"
	"github.com/argonsec/musig/pkg/math/curve"
	"github.com/argonsec/musig/pkg/party"
	"github.com/argonsec/musig/pkg/pool"
	"github.com/argonsec/musig/pkg/protocol"
	"github.com/argonsec/musig/pkg/schnorr"
)

const (
	protocolID                      = "musig/sign-v1"
	protocolFinalRound round.Number = 3
)

// Result is the output of a successful signing session.
type Result struct {
	// GroupKey is the aggregated public key the signature verifies against.
	GroupKey curve.Point
	// Signature is the combined Schnorr signature over the message.
	Signature schnorr.Signature
}

// Sign returns a protocol.StartFunc for a signing session over message.
//
// signers must contain selfID, publicKeys must hold exactly one key per
// signer, and private must be the discrete log of this party's own entry.
// pl may be nil.
func Sign(group curve.Curve, selfID party.ID, signers []party.ID, private curve.Scalar, publicKeys map[party.ID]curve.Point, message []byte, pl *pool.Pool) protocol.StartFunc {
	return func(sessionID []byte) (round.Session, error) {
		if len(message) == 0 {
			return nil, errors.New("musig: message must not be empty")
		}
		if private == nil || private.IsZero() {
			return nil, errors.New("musig: private key must be a non-zero scalar")
		}
		if len(publicKeys) != len(signers) {
			return nil, errors.New("musig: number of public keys does not match number of signers")
		}
		keys := make(map[party.ID]curve.Point, len(signers))
		for _, id := range signers {
			pk, ok := publicKeys[id]
			if !ok {
				return nil, fmt.Errorf("musig: missing public key for party %q", id)
			}
			keys[id] = pk
		}

		keyAgg, err := AggregateKeys(group, keys)
		if err != nil {
			return nil, err
		}

		ownKey, ok := keys[selfID]
		if !ok {
			return nil, errors.New("musig: self is not a signer")
		}
		secret := group.NewScalar().Set(private)
		if !secret.ActOnBase().Equal(ownKey) {
			return nil, errors.New("musig: private key does not match own public key")
		}

		info := round.Info{
			ProtocolID:       protocolID,
			FinalRoundNumber: protocolFinalRound,
			SelfID:           selfID,
			PartyIDs:         signers,
			Group:            group,
		}
		groupKeyBytes, err := keyAgg.GroupKey.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("musig: failed to encode group key: %w", err)
		}
		helper, err := round.NewSession(info, sessionID, pl,
			hash.BytesWithDomain{TheDomain: "MuSig-GroupKey", Bytes: groupKeyBytes},
			hash.BytesWithDomain{TheDomain: "MuSig-Message", Bytes: message},
		)
		if err != nil {
			return nil, fmt.Errorf("musig: %w", err)
		}

		return &round1{
			Helper:       helper,
			secret:       secret,
			publicKeys:   keys,
			coefficients: keyAgg.Coefficients,
			groupKey:     keyAgg.GroupKey,
			message:      message,
		}, nil
	}
}
