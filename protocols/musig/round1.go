package musig

import (
	"crypto/rand"

	"github.com/argonsec/musig/internal/round"
	"github.com/argonsec/musig/pkg/math/curve"
	"github.com/argonsec/musig/pkg/math/sample"
	"github.com/argonsec/musig/pkg/party"
)

var _ round.Round = (*round1)(nil)

type round1 struct {
	*round.Helper

	// secret is this party's private key xᵢ.
	secret curve.Scalar
	// publicKeys are the individual public keys Xⱼ of all co-signers.
	publicKeys map[party.ID]curve.Point
	// coefficients are the aggregation coefficients aⱼ.
	coefficients map[party.ID]curve.Scalar
	// groupKey is the aggregated key X = Σ aⱼ⋅Xⱼ.
	groupKey curve.Point
	message  []byte
}

// VerifyMessage implements round.Round.
func (round1) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Round.
func (round1) StoreMessage(round.Message) error { return nil }

// Finalize implements round.Round.
//
// It samples a fresh nonce kᵢ and broadcasts the commitment Rᵢ = kᵢ⋅G.
func (r *round1) Finalize(out chan<- *round.Message) (round.Session, error) {
	nonce := sample.ScalarUnit(rand.Reader, r.Group())
	commitment := nonce.ActOnBase()

	err := r.BroadcastMessage(out, &broadcast2{Commitment: commitment})
	if err != nil {
		return r, err
	}

	return &round2{
		round1: r,
		nonce:  nonce,
		commitments: map[party.ID]curve.Point{
			r.SelfID(): commitment,
		},
	}, nil
}

// MessageContent implements round.Round.
func (round1) MessageContent() round.Content { return nil }

// Number implements round.Round.
func (round1) Number() round.Number { return 1 }
