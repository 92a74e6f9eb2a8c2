package party

import (
	"encoding/binary"
	"io"
	"math/rand"
	"sort"
)

// IDSlice is a sorted slice of IDs.
type IDSlice []ID

// NewIDSlice returns a sorted copy of the given IDs.
func NewIDSlice(ids []ID) IDSlice {
	out := make(IDSlice, len(ids))
	copy(out, ids)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Contains returns true if partyIDs contains all ids.
// Assumes that the receiver is sorted.
func (partyIDs IDSlice) Contains(ids ...ID) bool {
	for _, id := range ids {
		if _, ok := partyIDs.search(id); !ok {
			return false
		}
	}
	return true
}

// Valid returns true if the receiver is sorted and contains no duplicates.
func (partyIDs IDSlice) Valid() bool {
	for i := 1; i < len(partyIDs); i++ {
		if partyIDs[i-1] >= partyIDs[i] {
			return false
		}
	}
	return true
}

func (partyIDs IDSlice) search(x ID) (int, bool) {
	index := sort.Search(len(partyIDs), func(i int) bool { return partyIDs[i] >= x })
	if index >= 0 && index < len(partyIDs) && partyIDs[index] == x {
		return index, true
	}
	return 0, false
}

// Remove returns a new IDSlice, with the given ID removed.
func (partyIDs IDSlice) Remove(id ID) IDSlice {
	out := make(IDSlice, 0, len(partyIDs))
	for _, currentID := range partyIDs {
		if currentID != id {
			out = append(out, currentID)
		}
	}
	return out
}

// WriteTo implements io.WriterTo interface.
//
// Writes the length of the slice, followed by each ID with its own length
// prefix, so that two different slices cannot produce the same bytes.
func (partyIDs IDSlice) WriteTo(w io.Writer) (int64, error) {
	total := int64(0)
	if err := binary.Write(w, binary.BigEndian, uint32(len(partyIDs))); err != nil {
		return total, err
	}
	total += 4
	for _, id := range partyIDs {
		if err := binary.Write(w, binary.BigEndian, uint32(len(id))); err != nil {
			return total, err
		}
		total += 4
		n, err := w.Write([]byte(id))
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (IDSlice) Domain() string {
	return "IDSlice"
}

// RandomIDs returns a slice of random IDs with 20 alphanumeric characters.
func RandomIDs(n int) IDSlice {
	const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	partyIDs := make(IDSlice, n)
	for i := range partyIDs {
		b := make([]byte, 20)
		for j := range b {
			b[j] = letters[rand.Intn(len(letters))]
		}
		partyIDs[i] = ID(b)
	}
	return NewIDSlice(partyIDs)
}
