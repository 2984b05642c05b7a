package consensus

import (
	"github.com/Klingon-tech/klingnet-chain/internal/merkle"
	"github.com/Klingon-tech/klingnet-chain/internal/state"
)

// HandleVote processes an inbound TRANSACTION envelope from senderKey
// (spec §4.6 "In VOTING, each inbound TRANSACTION..."). Votes that don't
// match the live candidate, the local Merkle root, or a staked sender
// are dropped — divergent state forbids counting the vote.
func (m *Machine) HandleVote(senderKey string, payload TransactionPayload) {
	if m.state != Voting {
		return
	}
	if payload.Root != m.tree.Root() {
		return
	}
	acct := m.chain.Lookup(senderKey)
	if !acct.HasStake() {
		return
	}
	candidateHash := payload.Transaction.HashHex(false)
	if candidateHash != m.vote.HashHex(false) {
		return
	}

	m.consensus[senderKey] = Vote{Valid: payload.Valid, Root: payload.Root, Transaction: candidateHash}
	m.checkCommit()
}

// checkCommit runs the quorum tally once enough votes are in (spec
// §4.6 "Commit check").
func (m *Machine) checkCommit() {
	v := m.validators()
	if len(m.consensus) < len(v) {
		return
	}

	selfValid, _ := state.TransactionValid(m.chain.Accounts, m.chain.Len(), len(m.pendingTxs), m.vote, true, m.now().Unix())
	m.consensus[m.selfKey] = Vote{Valid: selfValid, Root: m.tree.Root(), Transaction: m.vote.HashHex(false)}

	var trueCount, falseCount int
	validMap := make(map[string]bool, len(m.consensus))
	for key, vote := range m.consensus {
		validMap[key] = vote.Valid
		if vote.Valid {
			trueCount++
		} else {
			falseCount++
		}
	}

	if trueCount > falseCount {
		rec := state.NewRecord(m.vote, validMap)
		m.chain.ApplyRecord(rec, m.tree.(*merkle.Tree), m.now().Unix())
	}

	m.resetSlot()
}

// HandleTimeout fires when voteTimeout expires (spec §4.6 "Timeout").
// Non-voting validators from the slot's opening V snapshot are punished
// at the transport level; the candidate itself is never abandoned.
func (m *Machine) HandleTimeout() {
	if m.state != Voting {
		return
	}
	for key := range m.lastV {
		if _, voted := m.consensus[key]; !voted {
			m.closeByKey(key)
		}
	}
	m.consensus = make(map[string]Vote)

	valid, _ := state.TransactionValid(m.chain.Accounts, m.chain.Len(), len(m.pendingTxs), m.vote, true, m.now().Unix())
	m.announce(valid)
	m.armTimeout()
}

// resetSlot returns the machine to Idle, cancels the timer, and opens
// the next pending transaction if the queue is non-empty (spec §4.6
// "Either way: transition to IDLE... if pendingTxs non-empty...").
func (m *Machine) resetSlot() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.state = Idle
	m.vote = nil
	m.consensus = nil
	m.lastV = nil

	if len(m.pendingTxs) > 0 {
		next := m.pendingTxs[0]
		m.pendingTxs = m.pendingTxs[1:]
		m.openSlot(next)
	}
}
