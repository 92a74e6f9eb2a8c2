package hash

import (
	"encoding"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/argonsec/musig/internal/params"
	"github.com/cronokirby/saferith"
	"github.com/zeebo/blake3"
)

// DigestLengthBytes is the length of a full hash output.
const DigestLengthBytes = params.SecBytes * 2 // 64

// Hash is the hash function used for deriving challenges, coefficients,
// and session identifiers.
//
// Internally, this is a wrapper around blake3.Hasher, but any hash function
// with an easily extendable output would work as well.
type Hash struct {
	h *blake3.Hasher
}

// New creates a Hash struct, and initializes it with the given data.
func New(initialData ...WriterToWithDomain) *Hash {
	hash := &Hash{h: blake3.New()}
	for _, d := range initialData {
		_ = hash.WriteAny(d)
	}
	return hash
}

// Digest returns a reader for the current output of the function.
//
// This finalizes the current state of the hash, and returns what's
// essentially a stream of random bytes.
func (hash *Hash) Digest() io.Reader {
	return hash.h.Digest()
}

// Sum returns a slice of length DigestLengthBytes resulting from the current hash state.
// If a different length is required, use io.ReadFull(hash.Digest(), out) instead.
func (hash *Hash) Sum() []byte {
	out := make([]byte, DigestLengthBytes)
	if _, err := io.ReadFull(hash.Digest(), out); err != nil {
		panic(fmt.Sprintf("hash.Sum: internal hash failure: %v", err))
	}
	return out
}

// writeWithDomain writes out a value with its domain, so as to keep the
// hash inputs unambiguous.
//
// Both the domain string and the value are prefixed with their length, so no
// concatenation of values can collide with a different concatenation.
func writeWithDomain(w io.Writer, v WriterToWithDomain) error {
	domain := []byte(v.Domain())

	if err := binary.Write(w, binary.BigEndian, uint32(len(domain))); err != nil {
		return err
	}
	if _, err := w.Write(domain); err != nil {
		return err
	}
	_, err := v.WriteTo(w)
	return err
}

// WriteAny takes many different data types and writes them to the hash state.
//
// Currently supported types:
//
//   - []byte
//   - *saferith.Nat, *saferith.Int, *saferith.Modulus
//   - encoding.BinaryMarshaler (this covers curve points and scalars)
//   - hash.WriterToWithDomain
//
// This function applies its own domain separation for the first two types.
// The last type already knows which domain to use, and this function respects it.
func (hash *Hash) WriteAny(data ...interface{}) error {
	for _, d := range data {
		var err error
		switch t := d.(type) {
		case []byte:
			err = writeWithDomain(hash.h, BytesWithDomain{
				TheDomain: "[]byte",
				Bytes:     t,
			})
		case *saferith.Nat:
			err = writeWithDomain(hash.h, BytesWithDomain{
				TheDomain: "saferith.Nat",
				Bytes:     t.Bytes(),
			})
		case *saferith.Int:
			var data []byte
			data, err = t.MarshalBinary()
			if err == nil {
				err = writeWithDomain(hash.h, BytesWithDomain{
					TheDomain: "saferith.Int",
					Bytes:     data,
				})
			}
		case *saferith.Modulus:
			err = writeWithDomain(hash.h, BytesWithDomain{
				TheDomain: "saferith.Modulus",
				Bytes:     t.Bytes(),
			})
		case WriterToWithDomain:
			err = writeWithDomain(hash.h, t)
		case encoding.BinaryMarshaler:
			var data []byte
			data, err = t.MarshalBinary()
			if err == nil {
				err = writeWithDomain(hash.h, BytesWithDomain{
					TheDomain: "BinaryMarshaler",
					Bytes:     data,
				})
			}
		default:
			panic(fmt.Sprintf("hash.Hash: unsupported type: %T", d))
		}
		if err != nil {
			return fmt.Errorf("hash.Hash: %w", err)
		}
	}
	return nil
}

// Clone returns a copy of the Hash in its current state.
func (hash *Hash) Clone() *Hash {
	return &Hash{h: hash.h.Clone()}
}
