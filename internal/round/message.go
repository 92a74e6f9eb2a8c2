package round

import (
	"github.com/argonsec/musig/pkg/party"
)

// Content represents the message content, either broadcast or P2P, returned
// by a round during finalization.
type Content interface {
	RoundNumber() Number
}

// BroadcastContent wraps a Content, and marks it as intended for all
// participants.
//
// Reliable broadcast (agreement on what was sent) is left to the embedding
// application; within one session the handler only guarantees that a round is
// finalized after a message from every participant has been stored.
type BroadcastContent interface {
	Content
	broadcast()
}

// Message is a message that is intended for this protocol execution.
type Message struct {
	From, To  party.ID
	Broadcast bool
	Content   Content
}

// NormalBroadcastContent can be embedded in a message struct as a way of
// implementing BroadcastContent.
type NormalBroadcastContent struct{}

func (NormalBroadcastContent) broadcast() {}
