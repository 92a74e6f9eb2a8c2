package round

import "errors"

var (
	// ErrInvalidContent is returned when the round receives content of the wrong type.
	ErrInvalidContent = errors.New("invalid content type")
	// ErrNilContent is returned when the round receives a message with nil content.
	ErrNilContent = errors.New("content is nil")
	// ErrInvalidRoundNumber is returned when the message's round number does not
	// match the round processing it.
	ErrInvalidRoundNumber = errors.New("invalid round number")
	// ErrOutChanFull indicates that the out channel could not accept another message.
	ErrOutChanFull = errors.New("out channel is full")
	// ErrDuplicate is returned when a message from the same sender was already handled.
	ErrDuplicate = errors.New("message already handled")
)
