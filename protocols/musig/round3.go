package musig

import (
	"errors"

	"github.com/argonsec/musig/internal/round"
	"github.com/argonsec/musig/pkg/math/curve"
	"github.com/argonsec/musig/pkg/party"
	"github.com/argonsec/musig/pkg/schnorr"
)

var _ round.BroadcastRound = (*round3)(nil)

type round3 struct {
	*round2

	// combined is the aggregated nonce commitment R = Σ Rⱼ.
	combined curve.Point
	// challenge is the shared challenge e = H(R, X, m).
	challenge curve.Scalar
	// responses are the partial responses zⱼ, including our own.
	responses map[party.ID]curve.Scalar
}

type broadcast3 struct {
	round.NormalBroadcastContent
	// Response is the sender's response zⱼ = kⱼ + e⋅aⱼ⋅xⱼ.
	Response curve.Scalar
}

// StoreBroadcastMessage implements round.BroadcastRound.
//
// Each response is checked against zⱼ⋅G = Rⱼ + e⋅aⱼ⋅Xⱼ before it is
// accepted, so a co-signer submitting garbage is identified here rather than
// surfacing as an unattributable failure of the combined signature.
func (r *round3) StoreBroadcastMessage(msg round.Message) error {
	body, ok := msg.Content.(*broadcast3)
	if !ok {
		return round.ErrInvalidContent
	}
	if body == nil || body.Response == nil {
		return round.ErrNilContent
	}
	if _, ok := r.responses[msg.From]; ok {
		return round.ErrDuplicate
	}
	if body.Response.IsZero() {
		return errors.New("musig: response is zero")
	}

	lhs := r.Group().NewScalar().Set(body.Response).ActOnBase()
	weighted := r.Group().NewScalar().Set(r.challenge).Mul(r.coefficients[msg.From])
	rhs := r.commitments[msg.From].Add(weighted.Act(r.publicKeys[msg.From]))
	if !lhs.Equal(rhs) {
		return errors.New("musig: partial signature failed to verify")
	}

	r.responses[msg.From] = body.Response
	return nil
}

// VerifyMessage implements round.Round.
func (round3) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Round.
func (round3) StoreMessage(round.Message) error { return nil }

// Finalize implements round.Round.
//
// All responses have been individually verified, so the sum z = Σ zⱼ
// together with R forms the signature. The final check against the group key
// is redundant at this point, but cheap compared to the protocol.
func (r *round3) Finalize(chan<- *round.Message) (round.Session, error) {
	z := r.Group().NewScalar()
	for _, id := range r.PartyIDs() {
		z.Add(r.responses[id])
	}

	sig := schnorr.Signature{R: r.combined, Z: z}
	if !sig.Verify(r.groupKey, r.message) {
		return r.AbortRound(errors.New("musig: combined signature failed to verify")), nil
	}

	return r.ResultRound(&Result{
		GroupKey:  r.groupKey,
		Signature: sig,
	}), nil
}

// MessageContent implements round.Round.
func (round3) MessageContent() round.Content { return nil }

// BroadcastContent implements round.BroadcastRound.
func (r *round3) BroadcastContent() round.BroadcastContent {
	return &broadcast3{Response: r.Group().NewScalar()}
}

// RoundNumber implements round.Content.
func (broadcast3) RoundNumber() round.Number { return 3 }

// Number implements round.Round.
func (round3) Number() round.Number { return 3 }
