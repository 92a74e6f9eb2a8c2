package musig

import (
	"errors"

	"github.com/argonsec/musig/internal/round"
	"github.com/argonsec/musig/pkg/math/curve"
	"github.com/argonsec/musig/pkg/party"
	"github.com/argonsec/musig/pkg/schnorr"
)

var _ round.BroadcastRound = (*round2)(nil)

type round2 struct {
	*round1

	// nonce is this party's signing nonce kᵢ. It is wiped as soon as the
	// response using it has been computed.
	nonce curve.Scalar
	// commitments are the nonce commitments Rⱼ, including our own.
	commitments map[party.ID]curve.Point
}

type broadcast2 struct {
	round.NormalBroadcastContent
	// Commitment is the sender's nonce commitment Rⱼ = kⱼ⋅G.
	Commitment curve.Point
}

// StoreBroadcastMessage implements round.BroadcastRound.
func (r *round2) StoreBroadcastMessage(msg round.Message) error {
	body, ok := msg.Content.(*broadcast2)
	if !ok {
		return round.ErrInvalidContent
	}
	if body == nil || body.Commitment == nil {
		return round.ErrNilContent
	}
	if _, ok := r.commitments[msg.From]; ok {
		return round.ErrDuplicate
	}
	if body.Commitment.IsIdentity() {
		return errors.New("musig: nonce commitment is the identity point")
	}
	r.commitments[msg.From] = body.Commitment
	return nil
}

// VerifyMessage implements round.Round.
func (round2) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Round.
func (round2) StoreMessage(round.Message) error { return nil }

// Finalize implements round.Round.
//
// All commitments are in, so the shared challenge is fixed. We combine
// R = Σ Rⱼ, derive e = H(R, X, m), and broadcast our response
// zᵢ = kᵢ + e⋅aᵢ⋅xᵢ.
func (r *round2) Finalize(out chan<- *round.Message) (round.Session, error) {
	combined := r.Group().NewPoint()
	for _, id := range r.PartyIDs() {
		combined = combined.Add(r.commitments[id])
	}
	if combined.IsIdentity() {
		return r.AbortRound(errors.New("musig: combined nonce commitment is the identity point")), nil
	}

	challenge := schnorr.Challenge(combined, r.groupKey, r.message)

	response := r.Group().NewScalar().Set(challenge)
	response.Mul(r.coefficients[r.SelfID()]).Mul(r.secret).Add(r.nonce)

	// The nonce must not outlive the response that used it.
	r.nonce.Set(r.Group().NewScalar())

	err := r.BroadcastMessage(out, &broadcast3{Response: response})
	if err != nil {
		return r, err
	}

	return &round3{
		round2:    r,
		combined:  combined,
		challenge: challenge,
		responses: map[party.ID]curve.Scalar{
			r.SelfID(): response,
		},
	}, nil
}

// MessageContent implements round.Round.
func (round2) MessageContent() round.Content { return nil }

// BroadcastContent implements round.BroadcastRound.
func (r *round2) BroadcastContent() round.BroadcastContent {
	return &broadcast2{Commitment: r.Group().NewPoint()}
}

// RoundNumber implements round.Content.
func (broadcast2) RoundNumber() round.Number { return 2 }

// Number implements round.Round.
func (round2) Number() round.Number { return 2 }
