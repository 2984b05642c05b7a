package node

import (
	"testing"

	"github.com/Klingon-tech/klingnet-chain/internal/state"
	"github.com/Klingon-tech/klingnet-chain/internal/tx"
	"github.com/Klingon-tech/klingnet-chain/pkg/crypto"
	"github.com/rs/zerolog"
)

func newTestNode(t *testing.T, chain *state.Chain) *Node {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	n := New(Config{
		Chain:      chain,
		ListenAddr: "127.0.0.1:0",
		PrivateKey: key,
		Logger:     zerolog.Nop(),
	})
	n.tree = n.bootstrapTree()
	n.validators = make(map[string]bool)
	return n
}

func genesisTx(to string, amount uint64) *tx.Transaction {
	return &tx.Transaction{From: tx.GenesisFrom, To: to, Amount: amount, Body: tx.GenesisBody}
}

// TestAdoptPluralityPicksLongestMatchingRoot exercises spec.md scenario 6.
func TestAdoptPluralityPicksLongestMatchingRoot(t *testing.T) {
	chain := state.NewChainFromTransactions([]*tx.Transaction{genesisTx("alice", 100)})
	chain.Replay()
	n := newTestNode(t, chain)

	long := []*state.Record{
		state.NewRecord(genesisTx("alice", 1), nil),
		state.NewRecord(genesisTx("alice", 2), nil),
	}
	short := []*state.Record{state.NewRecord(genesisTx("alice", 1), nil)}

	n.sync.requested = true
	n.sync.responses["peerA"] = long
	n.sync.roots["peerA"] = "root-r"
	n.sync.responses["peerB"] = long
	n.sync.roots["peerB"] = "root-r"
	n.sync.responses["peerC"] = short
	n.sync.roots["peerC"] = "root-r-prime"

	n.adoptPlurality()

	if len(n.chain.Transactions) != 2 {
		t.Fatalf("adopted chain length = %d, want 2", len(n.chain.Transactions))
	}
	if !n.sync.done {
		t.Fatal("sync should be marked done after adoption")
	}
}

// TestAdoptPluralitySkipsShorterPeer ensures the plurality root is only
// adopted from a peer whose chain is at least as long as the local one
// (spec §4.5 "adopts that peer's transaction list provided it is at
// least as long as the local chain").
func TestAdoptPluralitySkipsShorterPeer(t *testing.T) {
	chain := state.NewChainFromTransactions([]*tx.Transaction{
		genesisTx("alice", 1), genesisTx("alice", 2), genesisTx("alice", 3),
	})
	chain.Replay()
	n := newTestNode(t, chain)
	originalLen := len(n.chain.Transactions)

	shorter := []*state.Record{state.NewRecord(genesisTx("alice", 1), nil)}
	n.sync.requested = true
	n.sync.responses["peerA"] = shorter
	n.sync.roots["peerA"] = "only-root"

	n.adoptPlurality()

	if len(n.chain.Transactions) != originalLen {
		t.Fatalf("chain length changed to %d, want unchanged %d", len(n.chain.Transactions), originalLen)
	}
}
