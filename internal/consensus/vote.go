// Package consensus implements the single-slot vote state machine (spec
// §4.6): one candidate transaction is live at a time, additional
// submissions queue, and only a commit decision (accept or reject)
// advances the slot; a timeout rebroadcasts the same candidate.
package consensus

import (
	"time"

	"github.com/Klingon-tech/klingnet-chain/internal/gossip"
	"github.com/Klingon-tech/klingnet-chain/internal/state"
	"github.com/Klingon-tech/klingnet-chain/internal/tx"
)

// TypeTransaction is the wire message type carrying a vote (spec §6).
const TypeTransaction = gossip.TypeTransaction

// State is the vote machine's two-state model.
type State int

const (
	Idle State = iota
	Voting
)

// Vote is one validator's reported position on the current candidate.
type Vote struct {
	Valid       bool   `json:"valid"`
	Root        string `json:"root"`
	Transaction string `json:"transaction"`
}

// TransactionPayload is the body of a TRANSACTION envelope: either a
// vote broadcast by the machine opening a slot, or a peer's reply to it.
type TransactionPayload struct {
	Transaction tx.Transaction `json:"transaction"`
	Valid       bool           `json:"valid"`
	Root        string         `json:"root"`
}

// Broadcaster is the subset of the gossip transport the machine needs to
// announce its own votes. Injected, so the machine never holds a
// *gossip.Mesh itself.
type Broadcaster interface {
	Broadcast(msgType string, data any, forKey string) error
}

// Clock abstracts wall-clock reads so tests can supply a fixed time.
type Clock func() time.Time

// Machine owns vote, consensus, pendingTxs and the vote timeout (spec
// §3 "Consensus slot", §4.6). It is driven exclusively by the node's
// single event loop: no method here takes a lock.
type Machine struct {
	chain      *state.Chain
	tree       merkleAdder
	selfKey    string
	broadcast  Broadcaster
	closeByKey func(key string)
	validators func() map[string]bool
	now        Clock

	state      State
	vote       *tx.Transaction
	consensus  map[string]Vote
	pendingTxs []*tx.Transaction
	lastV      map[string]bool
	timer      *time.Timer
}

// merkleAdder is the two methods of *merkle.Tree the machine calls
// directly. The commit path hands the tree on to state.ApplyRecord,
// which takes a *merkle.Tree, so the value must be one.
type merkleAdder interface {
	Add(t *tx.Transaction)
	Root() string
}

// Config wires a Machine to its collaborators.
type Config struct {
	Chain      *state.Chain
	Tree       merkleAdder
	SelfKey    string
	Broadcast  Broadcaster
	CloseByKey func(key string)
	Validators func() map[string]bool
	Now        Clock
}

// New builds an idle Machine.
func New(cfg Config) *Machine {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Machine{
		chain:      cfg.Chain,
		tree:       cfg.Tree,
		selfKey:    cfg.SelfKey,
		broadcast:  cfg.Broadcast,
		closeByKey: cfg.CloseByKey,
		validators: cfg.Validators,
		now:        now,
		state:      Idle,
	}
}

// State reports whether a candidate is currently live.
func (m *Machine) State() State { return m.state }

// PendingLen reports the depth of the backpressure queue (spec I3).
func (m *Machine) PendingLen() int { return len(m.pendingTxs) }

// TimerC returns the vote-timeout channel, or nil while idle. A nil
// channel blocks forever in a select, which is exactly the behavior
// wanted when there is no live slot to time out.
func (m *Machine) TimerC() <-chan time.Time {
	if m.timer == nil {
		return nil
	}
	return m.timer.C
}

// Submit injects a transaction, either from a local caller or from a
// NEW_TRANSACTION envelope (spec §4.6 IDLE→VOTING / pending enqueue).
func (m *Machine) Submit(t *tx.Transaction) {
	if m.state == Idle {
		m.openSlot(t)
		return
	}
	m.pendingTxs = append(m.pendingTxs, t)
}

func (m *Machine) openSlot(t *tx.Transaction) {
	m.vote = t
	m.consensus = make(map[string]Vote)
	m.lastV = snapshotV(m.validators())
	m.state = Voting

	valid, _ := state.TransactionValid(m.chain.Accounts, m.chain.Len(), len(m.pendingTxs), t, true, m.now().Unix())
	m.announce(valid)
	m.armTimeout()
}

func (m *Machine) announce(valid bool) {
	payload := TransactionPayload{Transaction: *m.vote, Valid: valid, Root: m.tree.Root()}
	_ = m.broadcast.Broadcast(TypeTransaction, payload, "")
}

func (m *Machine) armTimeout() {
	m.timer = time.NewTimer(state.MaxVoteTime())
}

func snapshotV(v map[string]bool) map[string]bool {
	out := make(map[string]bool, len(v))
	for k := range v {
		out[k] = true
	}
	return out
}
