package state

import "github.com/Klingon-tech/klingnet-chain/internal/tx"

// Chain is the replicated append-only history together with the derived
// account state (spec §3). Per spec §5, Chain is owned exclusively by
// the node's single event-loop goroutine; it carries no internal
// locking because only that goroutine ever mutates it.
type Chain struct {
	Transactions []*Record
	Accounts     map[string]*Account
}

// NewChain returns an empty chain with no transactions or accounts.
func NewChain() *Chain {
	return &Chain{Accounts: make(map[string]*Account)}
}

// NewChainFromTransactions seeds a chain with a pre-loaded transaction
// sequence and empty accounts, the shape the launcher may hand to
// Start() (spec §6 Collaborator interfaces).
func NewChainFromTransactions(txs []*tx.Transaction) *Chain {
	c := NewChain()
	for _, transaction := range txs {
		c.Transactions = append(c.Transactions, &Record{Transaction: transaction})
	}
	return c
}

// Account returns the account for key, creating it if absent.
func (c *Chain) Account(key string) *Account {
	a, ok := c.Accounts[key]
	if !ok {
		a = &Account{}
		c.Accounts[key] = a
	}
	return a
}

// Lookup returns the account for key without creating it, or nil if no
// account exists yet. Useful for read-only stake checks that should not
// mutate state as a side effect (e.g. a gossip vote from an unknown key).
func (c *Chain) Lookup(key string) *Account {
	return c.Accounts[key]
}

// Len returns the number of committed records.
func (c *Chain) Len() int {
	return len(c.Transactions)
}

// Snapshot returns a read-only copy of the committed transaction
// sequence, the form handed to peers answering GET_CHAIN (spec §4.5)
// and used by tests without risking a caller mutating live state.
func (c *Chain) Snapshot() []*Record {
	out := make([]*Record, len(c.Transactions))
	copy(out, c.Transactions)
	return out
}

// Reset clears accounts, used by chain sync before re-deriving state
// from an adopted peer chain (spec §4.5).
func (c *Chain) Reset() {
	c.Accounts = make(map[string]*Account)
}
