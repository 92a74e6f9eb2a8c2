package protocol

import (
	"fmt"

	"github.com/argonsec/musig/pkg/party"
)

// Error is the error returned by a failed protocol execution.
// When possible, it identifies the responsible participants.
type Error struct {
	// Culprits lists the parties responsible for the failure,
	// empty when the identity of the misbehaving party cannot be known.
	Culprits []party.ID
	// Err is the underlying error.
	Err error
}

func (e *Error) Error() string {
	if len(e.Culprits) == 0 {
		return fmt.Sprintf("protocol: %s", e.Err)
	}
	return fmt.Sprintf("protocol: culprits %v: %s", e.Culprits, e.Err)
}

// Unwrap implement errors.Wrapper.
func (e *Error) Unwrap() error {
	return e.Err
}
