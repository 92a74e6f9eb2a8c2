package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/argonsec/musig/internal/round"
	"github.com/argonsec/musig/pkg/party"
	"github.com/fxamacker/cbor/v2"
)

// StartFunc creates the first round of a protocol, given an optional session
// identifier supplied by the caller.
type StartFunc func(sessionID []byte) (round.Session, error)

// Handler represents some kind of handler for a protocol.
type Handler interface {
	// Result should return the result of running the protocol, or an error.
	Result() (interface{}, error)
	// Listen returns a channel which will receive new messages to send out.
	Listen() <-chan *Message
	// Stop should abort the protocol execution.
	Stop()
	// CanAccept checks whether a message can be accepted at this point in
	// the protocol.
	CanAccept(msg *Message) bool
	// Accept processes a message from another participant.
	Accept(msg *Message)
}

// MultiHandler drives a protocol execution for one participant.
//
// It handles the entire execution: accepting incoming messages, storing them
// until the current round's barrier is met, finalizing rounds, and emitting
// outgoing messages on the Listen channel. A round is only ever finalized
// once a message from every other participant has been received and stored,
// so no round can run ahead with a partial view of the session.
type MultiHandler struct {
	currentRound round.Session
	result       interface{}
	err          error
	// broadcast and messages hold the raw messages for each future or
	// in-progress round, keyed by round number then sender.
	broadcast map[round.Number]map[party.ID]*Message
	messages  map[round.Number]map[party.ID]*Message
	out       chan *Message
	closed    bool
	mtx       sync.Mutex
}

// NewMultiHandler expects a StartFunc for the desired protocol.
// It returns a handler that the user can interact with.
func NewMultiHandler(create StartFunc, sessionID []byte) (*MultiHandler, error) {
	r, err := create(sessionID)
	if err != nil {
		return nil, fmt.Errorf("protocol: failed to create round: %w", err)
	}
	h := &MultiHandler{
		currentRound: r,
		broadcast:    newMessageStore(r),
		messages:     newMessageStore(r),
		out:          make(chan *Message, 2*r.N()*int(r.FinalRoundNumber())),
	}
	h.mtx.Lock()
	h.advance()
	h.mtx.Unlock()
	return h, nil
}

func newMessageStore(r round.Session) map[round.Number]map[party.ID]*Message {
	store := make(map[round.Number]map[party.ID]*Message)
	for n := round.Number(2); n <= r.FinalRoundNumber(); n++ {
		store[n] = make(map[party.ID]*Message, r.N()-1)
	}
	return store
}

// Result returns the protocol result if the protocol completed successfully.
// Otherwise an error is returned.
func (h *MultiHandler) Result() (interface{}, error) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if h.result != nil {
		return h.result, nil
	}
	if h.err != nil {
		return nil, h.err
	}
	return nil, errors.New("protocol: not finished")
}

// Listen returns a channel with outgoing messages that must be sent to other
// parties. The channel is closed when the protocol finishes or aborts.
func (h *MultiHandler) Listen() <-chan *Message {
	return h.out
}

// Stop cancels the current execution of the protocol, and alerts the other users.
func (h *MultiHandler) Stop() {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if h.result == nil && h.err == nil {
		h.err = &Error{Err: errors.New("aborted by user")}
	}
	h.finish()
}

// CanAccept returns true if the message is designated for this protocol
// execution, and the protocol is still expecting messages for its round.
func (h *MultiHandler) CanAccept(msg *Message) bool {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	return h.canAccept(msg)
}

func (h *MultiHandler) canAccept(msg *Message) bool {
	r := h.currentRound
	if msg == nil || h.result != nil || h.err != nil {
		return false
	}
	if !msg.IsFor(r.SelfID()) {
		return false
	}
	if msg.Protocol != r.ProtocolID() {
		return false
	}
	if !bytes.Equal(msg.SSID, r.SSID()) {
		return false
	}
	if !r.PartyIDs().Contains(msg.From) {
		return false
	}
	if len(msg.Data) == 0 {
		return false
	}
	// the first round never expects messages
	if msg.RoundNumber < 2 || msg.RoundNumber > r.FinalRoundNumber() {
		return false
	}
	if msg.RoundNumber < r.Number() {
		return false
	}
	return true
}

// Accept processes a message from another participant.
//
// Messages for future rounds are stored until the protocol advances far
// enough to handle them. Messages that cannot be accepted (wrong session,
// unknown sender, stale round, duplicates) are silently dropped, since they
// are indistinguishable from network noise.
func (h *MultiHandler) Accept(msg *Message) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if !h.canAccept(msg) {
		return
	}

	store := h.messages
	if msg.Broadcast {
		store = h.broadcast
	}
	if _, ok := store[msg.RoundNumber][msg.From]; ok {
		// duplicate
		return
	}
	store[msg.RoundNumber][msg.From] = msg

	h.advance()
}

// receivedAll checks whether the current round's barrier has been met, that
// is, whether a message from every other participant has been received.
func (h *MultiHandler) receivedAll() bool {
	r := h.currentRound
	n := r.Number()
	if _, expectsBroadcast := r.(round.BroadcastRound); expectsBroadcast {
		for _, id := range r.OtherPartyIDs() {
			if h.broadcast[n][id] == nil {
				return false
			}
		}
	}
	if r.MessageContent() != nil {
		for _, id := range r.OtherPartyIDs() {
			if h.messages[n][id] == nil {
				return false
			}
		}
	}
	return true
}

// advance processes stored messages and finalizes rounds for as long as the
// current round's barrier is met.
func (h *MultiHandler) advance() {
	for h.result == nil && h.err == nil && h.receivedAll() {
		if !h.processStored() {
			return
		}
		h.finalize()
	}
}

// processStored delivers all stored messages for the current round, returning
// false if the round aborted due to a faulty message.
func (h *MultiHandler) processStored() bool {
	r := h.currentRound
	n := r.Number()

	if br, ok := r.(round.BroadcastRound); ok {
		for _, id := range r.OtherPartyIDs() {
			msg := h.broadcast[n][id]
			content := br.BroadcastContent()
			if err := cbor.Unmarshal(msg.Data, content); err != nil {
				return h.abort(err, id)
			}
			if content.RoundNumber() != n {
				return h.abort(round.ErrInvalidRoundNumber, id)
			}
			if err := br.StoreBroadcastMessage(round.Message{
				From:      id,
				To:        r.SelfID(),
				Broadcast: true,
				Content:   content,
			}); err != nil {
				return h.abort(err, id)
			}
		}
	}

	if r.MessageContent() != nil {
		for _, id := range r.OtherPartyIDs() {
			msg := h.messages[n][id]
			content := r.MessageContent()
			if err := cbor.Unmarshal(msg.Data, content); err != nil {
				return h.abort(err, id)
			}
			if content.RoundNumber() != n {
				return h.abort(round.ErrInvalidRoundNumber, id)
			}
			roundMsg := round.Message{
				From:    id,
				To:      r.SelfID(),
				Content: content,
			}
			if err := r.VerifyMessage(roundMsg); err != nil {
				return h.abort(err, id)
			}
			if err := r.StoreMessage(roundMsg); err != nil {
				return h.abort(err, id)
			}
		}
	}
	return true
}

// finalize runs the current round's Finalize, forwards outgoing messages, and
// installs the next round.
func (h *MultiHandler) finalize() {
	r := h.currentRound
	out := make(chan *round.Message, r.N()+1)
	next, err := r.Finalize(out)
	close(out)
	if err != nil {
		h.abort(err)
		return
	}
	if next == nil {
		h.abort(errors.New("round returned no next round"))
		return
	}

	for roundMsg := range out {
		data, err := cbor.Marshal(roundMsg.Content)
		if err != nil {
			h.abort(fmt.Errorf("failed to marshal message: %w", err))
			return
		}
		h.out <- &Message{
			SSID:        r.SSID(),
			From:        r.SelfID(),
			To:          roundMsg.To,
			Protocol:    r.ProtocolID(),
			RoundNumber: roundMsg.Content.RoundNumber(),
			Data:        data,
			Broadcast:   roundMsg.Broadcast,
		}
	}

	switch R := next.(type) {
	case *round.Output:
		h.result = R.Result
		h.finish()
	case *round.Abort:
		h.err = &Error{Culprits: R.Culprits, Err: R.Err}
		h.finish()
	default:
		h.currentRound = next
	}
}

func (h *MultiHandler) abort(err error, culprits ...party.ID) bool {
	h.err = &Error{Culprits: culprits, Err: err}
	h.finish()
	return false
}

func (h *MultiHandler) finish() {
	if !h.closed {
		h.closed = true
		close(h.out)
	}
}

var _ Handler = (*MultiHandler)(nil)
