package params

const (
	// SecParam is the bit strength targeted by hashes and session identifiers.
	SecParam = 256
	SecBytes = SecParam / 8
)
