package round

// Round is the interface that all intermediate rounds of a protocol must implement.
//
// The methods are called in the order VerifyMessage, StoreMessage, Finalize,
// where the first two are called once for every message received for this round.
type Round interface {
	// VerifyMessage handles an incoming Message from j and validates its content
	// with regard to the protocol specification.
	// The content argument can be cast to the appropriate type for this round
	// without error check.
	// In the first round, this function returns nil.
	// This function should not modify any saved state as it may be running concurrently.
	VerifyMessage(msg Message) error

	// StoreMessage should be called after VerifyMessage and should only store
	// the appropriate fields from the content.
	StoreMessage(msg Message) error

	// Finalize is called after all messages from the parties have been processed
	// in the current round.
	// Messages for the next round are sent out through the out channel.
	// If a non-critical error occurs (like a failure to sample, hash, or send
	// a message), the current round can be returned so that the caller may try
	// to finalize again.
	//
	// In the last round, Finalize should return
	//   r.ResultRound(result), nil
	// where result is the output of the protocol.
	// When an abort has occurred, it should return
	//   r.AbortRound(err, culprits...), nil
	Finalize(out chan<- *Message) (Session, error)

	// MessageContent returns an uninitialized message.Content for this round.
	//
	// The first round of a protocol, and rounds expecting only broadcast
	// messages, should return nil.
	MessageContent() Content

	// Number returns the current round number.
	Number() Number
}

// BroadcastRound is implemented by rounds that expect a broadcast message
// from every other participant.
type BroadcastRound interface {
	// StoreBroadcastMessage handles an incoming broadcast message, validating
	// and storing its content.
	StoreBroadcastMessage(msg Message) error

	// BroadcastContent returns an initialized message.BroadcastContent for
	// this round.
	BroadcastContent() BroadcastContent

	Round
}
