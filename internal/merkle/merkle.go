// Package merkle implements the incremental Merkle commitment over
// committed transactions (spec §4.2). It is an append-only accumulator,
// not a proof system — only the root is ever consumed by the protocol.
package merkle

import (
	"github.com/Klingon-tech/klingnet-chain/internal/tx"
	"github.com/Klingon-tech/klingnet-chain/pkg/crypto"
)

// emptyRoot is the root of a tree with no leaves: sha256("0") (spec §4.2).
var emptyRoot = crypto.HashHex([]byte("0"))

// Tree is an incremental binary hash tree over transaction leaves.
//
// levels[0] holds leaf hashes not yet promoted; levels[k] holds the
// subtree root of 2^k leaves not yet promoted into levels[k+1]. The
// cascade in Add keeps each level at 0 or 1 pending node at all times —
// a sparse binary-counter representation of the leaf count, the same
// technique incremental append-only logs use to avoid recomputing the
// whole tree on every insert.
type Tree struct {
	levels [][]string
}

// New returns an empty Merkle tree.
func New() *Tree {
	return &Tree{}
}

// Add pushes the hex of tx.Hash(false) as a new leaf, promoting pairs
// upward whenever a level's pending count becomes even (spec §4.2).
func (t *Tree) Add(transaction *tx.Transaction) {
	t.AddLeaf(transaction.HashHex(false))
}

// AddLeaf pushes a precomputed leaf hex directly, used when replaying a
// sequence of already-serialized transactions.
func (t *Tree) AddLeaf(leafHex string) {
	level := 0
	pending := leafHex
	for {
		if level == len(t.levels) {
			t.levels = append(t.levels, nil)
		}
		t.levels[level] = append(t.levels[level], pending)
		if len(t.levels[level])%2 != 0 {
			return
		}
		n := len(t.levels[level])
		a, b := t.levels[level][n-2], t.levels[level][n-1]
		t.levels[level] = t.levels[level][:n-2]
		pending = crypto.HashConcat(a, b)
		level++
	}
}

// Root folds the pending nodes across all levels — lowest level first,
// duplicating the last node when the count is odd — until one node
// remains, and returns it hex-encoded. An empty tree returns
// sha256("0"). This is the canonical rule for the open question in
// spec §9 ("getRoot() builds its top level using a mixed expression
// that may duplicate or skip nodes at odd sizes"): duplicate last if
// odd, always.
func (t *Tree) Root() string {
	var nodes []string
	for _, level := range t.levels {
		nodes = append(nodes, level...)
	}
	if len(nodes) == 0 {
		return emptyRoot
	}
	for len(nodes) > 1 {
		if len(nodes)%2 != 0 {
			nodes = append(nodes, nodes[len(nodes)-1])
		}
		next := make([]string, len(nodes)/2)
		for i := 0; i < len(nodes); i += 2 {
			next[i/2] = crypto.HashConcat(nodes[i], nodes[i+1])
		}
		nodes = next
	}
	return nodes[0]
}

// Len returns the number of leaves added so far.
func (t *Tree) Len() int {
	total := 0
	weight := 1
	for _, level := range t.levels {
		total += len(level) * weight
		weight *= 2
	}
	return total
}

// FromTransactions builds a tree from a sequence of transactions in order,
// used by chain sync (spec §4.5) when only the transaction list — not the
// running account state — is known locally.
func FromTransactions(txs []*tx.Transaction) *Tree {
	t := New()
	for _, transaction := range txs {
		t.Add(transaction)
	}
	return t
}
