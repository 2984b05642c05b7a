package state

import (
	"time"

	"github.com/Klingon-tech/klingnet-chain/internal/merkle"
)

// Replay folds ApplyRecord over the chain's existing transaction
// sequence from empty accounts, rebuilding both Accounts and the Merkle
// tree (spec §4.3, invariant I2). Used at startup and after chain sync
// adopts a peer's transaction list (spec §4.5).
func (c *Chain) Replay() *merkle.Tree {
	existing := c.Transactions
	c.Transactions = nil
	c.Reset()

	tree := merkle.New()
	now := time.Now().Unix()
	for _, rec := range existing {
		c.ApplyRecord(rec, tree, now)
	}
	return tree
}
