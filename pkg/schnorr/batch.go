package schnorr

import (
	"errors"

	"github.com/argonsec/musig/pkg/math/curve"
	"github.com/argonsec/musig/pkg/pool"
)

// BatchVerify checks a batch of signatures, each against its own public key
// and message, parallelizing the work over the given pool.
//
// A nil pool verifies on the calling goroutine. The slices must all have the
// same length. The result is true only if every signature in the batch is
// valid; no attempt is made to report which one failed.
func BatchVerify(pl *pool.Pool, publics []curve.Point, sigs []*Signature, messages [][]byte) (bool, error) {
	if len(publics) != len(sigs) || len(sigs) != len(messages) {
		return false, errors.New("schnorr: mismatched batch lengths")
	}
	if len(sigs) == 0 {
		return false, errors.New("schnorr: empty batch")
	}

	verified := pl.Parallelize(len(sigs), func(i int) interface{} {
		if sigs[i] == nil {
			return false
		}
		return sigs[i].Verify(publics[i], messages[i])
	})
	for _, ok := range verified {
		if !ok.(bool) {
			return false, nil
		}
	}
	return true, nil
}
