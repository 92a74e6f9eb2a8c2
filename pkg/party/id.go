package party

import (
	"io"

	"github.com/argonsec/musig/pkg/hash"
)

// ID is an identifier for a participant in a protocol execution.
type ID string

// WriteTo makes ID implement the io.WriterTo interface.
//
// This writes out the content of this ID, in a way that's useful for a hash.
func (id ID) WriteTo(w io.Writer) (int64, error) {
	if id == "" {
		return 0, io.ErrUnexpectedEOF
	}
	n, err := w.Write([]byte(id))
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (ID) Domain() string {
	return "ID"
}

var _ hash.WriterToWithDomain = ID("")
