package state

import (
	"sort"

	"github.com/Klingon-tech/klingnet-chain/internal/merkle"
	"github.com/Klingon-tech/klingnet-chain/internal/tx"
)

// ApplyRecord is the account-state transition function (spec §4.3),
// applied to one committed record at index i = len(chain.Transactions)
// before this call. It is used both for replay (startup/after sync) and
// for committing a just-agreed vote (spec §4.6), with identical
// semantics in both contexts.
//
// The source's two call sites differ on whether the sending account is
// created before or after the debit; this implementation always ensures
// the account exists first (the replay-path order, per spec §9's design
// note), so there is exactly one ordering rather than two inconsistent
// ones.
//
// The validity gate (step 1) only controls whether steps 2-4 run; the
// Merkle add (step 5) always runs, per the "Always" qualifier spec §4.3
// attaches to it alone.
func (c *Chain) ApplyRecord(rec *Record, tree *merkle.Tree, nowSec int64) {
	i := len(c.Transactions)
	genesisRecord := i < GenesisWindow && rec.Transaction.Body == tx.GenesisBody

	valid, _ := TransactionValid(c.Accounts, i, 0, rec.Transaction, false, nowSec)

	if valid {
		c.debit(rec.Transaction, genesisRecord)
		c.credit(rec.Transaction)

		if !genesisRecord && rec.rootMatches() {
			c.rewardValidators(rec)
		}
	}

	tree.Add(rec.Transaction)
	c.Transactions = append(c.Transactions, rec)
}

// debit subtracts amount from the sender's balance, unless the sender is
// the unsigned GENESIS bootstrap identity within the genesis window
// (spec §4.3 step 2).
func (c *Chain) debit(t *tx.Transaction, genesisRecord bool) {
	if genesisRecord && t.From == tx.GenesisFrom {
		return
	}
	from := c.Account(t.From)
	from.Balance -= t.Amount
}

// credit routes amount-minus-fee into the sender's stake (for a "stake"
// recipient) or the recipient's balance (spec §4.3 step 3).
func (c *Chain) credit(t *tx.Transaction) {
	net := uint64(0)
	if t.Amount > Fee {
		net = t.Amount - Fee
	}
	if t.To == tx.StakeTo {
		c.Account(t.From).Stake += net
		return
	}
	c.Account(t.To).Balance += net
}

// rewardValidators distributes the fee to honest voters and slashes
// dissenters, then increments the sender's nonce (spec §4.3 step 4).
// Iteration order is the sorted validator key order, so the outcome is
// identical on every node regardless of map iteration order.
func (c *Chain) rewardValidators(rec *Record) {
	keys := make([]string, 0, len(rec.Validators))
	for k := range rec.Validators {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if len(keys) == 0 {
		c.Account(rec.Transaction.From).Nonce++
		return
	}

	share := Fee/uint64(len(keys)) + 1
	for _, key := range keys {
		acct := c.Account(key)
		if rec.Validators[key] {
			acct.Balance += share
			continue
		}
		if acct.Stake < Fine {
			acct.Stake = 0
			continue
		}
		acct.Stake -= Fine
	}

	c.Account(rec.Transaction.From).Nonce++
}
