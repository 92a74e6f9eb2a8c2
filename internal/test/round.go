package test

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/argonsec/musig/internal/round"
	"github.com/argonsec/musig/pkg/party"
	"github.com/fxamacker/cbor/v2"
	"golang.org/x/sync/errgroup"
)

// Rule describes various hooks that can be applied to a protocol execution.
type Rule interface {
	// ModifyBefore modifies r before r.Finalize() is called.
	ModifyBefore(r round.Session)
	// ModifyAfter modifies rNext, which is the round returned by r.Finalize().
	ModifyAfter(rNext round.Session)
	// ModifyContent modifies content for the message that is delivered in rNext.
	ModifyContent(rNext round.Session, to party.ID, content round.Content)
}

// Rounds executes a full set of rounds locally, for all participants at once,
// delivering each produced message to its recipients. If rule is not nil, its
// hooks are applied to the party at index 0, to simulate misbehaviour.
//
// It returns true once all parties have reached an Output or Abort round.
func Rounds(rounds []round.Session, rule Rule) (error, bool) {
	var (
		err       error
		roundType reflect.Type
		errGroup  errgroup.Group
		N         = len(rounds)
		out       = make(chan *round.Message, N*(N+1))
	)

	if roundType, err = checkAllRoundsSame(rounds); err != nil {
		return err, false
	}

	for id := range rounds {
		idx := id
		r := rounds[idx]
		errGroup.Go(func() error {
			var rNew round.Session
			var err error
			if rule != nil && idx == 0 {
				rule.ModifyBefore(r)
				outFake := make(chan *round.Message, N+1)
				rNew, err = r.Finalize(outFake)
				close(outFake)
				if rNew != nil {
					rule.ModifyAfter(rNew)
					for msg := range outFake {
						rule.ModifyContent(rNew, msg.To, msg.Content)
						out <- msg
					}
				}
			} else {
				rNew, err = r.Finalize(out)
			}

			if err != nil {
				return err
			}
			if rNew != nil {
				rounds[idx] = rNew
			}
			return nil
		})
	}
	if err = errGroup.Wait(); err != nil {
		return err, false
	}
	close(out)

	if roundType, err = checkAllRoundsSame(rounds); err != nil {
		return err, false
	}
	if roundType == reflect.TypeOf(&round.Output{}) || roundType == reflect.TypeOf(&round.Abort{}) {
		return nil, true
	}

	for msg := range out {
		msgBytes, err := cbor.Marshal(msg.Content)
		if err != nil {
			return err, false
		}
		for _, r := range rounds {
			m := *msg
			r := r
			if msg.From == r.SelfID() || msg.Content.RoundNumber() != r.Number() {
				continue
			}
			errGroup.Go(func() error {
				if m.Broadcast {
					b, ok := r.(round.BroadcastRound)
					if !ok {
						return errors.New("broadcast message but not broadcast round")
					}
					m.Content = b.BroadcastContent()
					if err := cbor.Unmarshal(msgBytes, m.Content); err != nil {
						return err
					}
					return b.StoreBroadcastMessage(m)
				}

				m.Content = r.MessageContent()
				if err := cbor.Unmarshal(msgBytes, m.Content); err != nil {
					return err
				}
				if m.To == "" || m.To == r.SelfID() {
					if err := r.VerifyMessage(m); err != nil {
						return err
					}
					if err := r.StoreMessage(m); err != nil {
						return err
					}
				}
				return nil
			})
		}
		if err = errGroup.Wait(); err != nil {
			return err, false
		}
	}

	return nil, false
}

func checkAllRoundsSame(rounds []round.Session) (reflect.Type, error) {
	var t reflect.Type
	for _, r := range rounds {
		t2 := reflect.TypeOf(r)
		if t == nil {
			t = t2
		} else if t != t2 {
			return t, fmt.Errorf("two different rounds: %s %s", t, t2)
		}
	}
	return t, nil
}
