package node

import (
	"encoding/json"
	"testing"

	"github.com/Klingon-tech/klingnet-chain/internal/gossip"
	"github.com/Klingon-tech/klingnet-chain/internal/state"
	"github.com/Klingon-tech/klingnet-chain/internal/tx"
	"github.com/Klingon-tech/klingnet-chain/pkg/crypto"
)

func mustEnvelope(t *testing.T, msgType string, data any, key *crypto.PrivateKey) gossip.Envelope {
	t.Helper()
	env, err := gossip.NewEnvelope(msgType, data, "", key)
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}
	return env
}

// TestValidatorAnnounceRequiresStake is spec §4.4 "Validator-set
// maintenance": only peers with stake >= minStake are admitted to V.
func TestValidatorAnnounceRequiresStake(t *testing.T) {
	chain := state.NewChainFromTransactions([]*tx.Transaction{genesisTx("alice", 1)})
	chain.Replay()
	n := newTestNode(t, chain)

	peer, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	env := mustEnvelope(t, gossip.TypeValidator, peer.PublicKeyHex(), peer)

	n.handleValidatorAnnounce(env)
	if n.validators[peer.PublicKeyHex()] {
		t.Fatal("under-staked peer must not be admitted to V")
	}

	n.chain.Account(peer.PublicKeyHex()).Stake = state.MinStake
	n.handleValidatorAnnounce(env)
	if !n.validators[peer.PublicKeyHex()] {
		t.Fatal("sufficiently staked peer must be admitted to V")
	}
}

// TestValidatorAnnounceIgnoresSelf prevents a node from admitting its
// own announce as a peer.
func TestValidatorAnnounceIgnoresSelf(t *testing.T) {
	chain := state.NewChainFromTransactions([]*tx.Transaction{genesisTx("alice", 1)})
	chain.Replay()
	n := newTestNode(t, chain)
	n.chain.Account(n.selfKey).Stake = state.MinStake

	env := mustEnvelope(t, gossip.TypeValidator, n.selfKey, n.key)
	n.handleValidatorAnnounce(env)

	if len(n.validators) != 0 {
		t.Fatal("a node must never add itself to its own validator set")
	}
}

// TestSocketClosedResetsValidatorSet is spec §4.4 "Any socket close
// empties V".
func TestSocketClosedResetsValidatorSet(t *testing.T) {
	chain := state.NewChainFromTransactions([]*tx.Transaction{genesisTx("alice", 1)})
	chain.Replay()
	n := newTestNode(t, chain)
	n.validators["somePeer"] = true

	n.handleSocketClosed(gossip.Event{Closed: true, SocketID: "sock-1", PeerKey: "somePeer"})

	if len(n.validators) != 0 {
		t.Fatal("validator set must be emptied on any socket close")
	}
}

func TestChainPayloadRoundTrip(t *testing.T) {
	records := []*state.Record{state.NewRecord(genesisTx("alice", 1), nil)}
	encoded, err := json.Marshal(records)
	if err != nil {
		t.Fatalf("marshal records: %v", err)
	}
	payload := chainPayload{Transactions: string(encoded), Root: "abc"}

	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	var decoded chainPayload
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}

	var roundTripped []*state.Record
	if err := json.Unmarshal([]byte(decoded.Transactions), &roundTripped); err != nil {
		t.Fatalf("unmarshal nested transactions: %v", err)
	}
	if len(roundTripped) != 1 {
		t.Fatalf("round-tripped records length = %d, want 1", len(roundTripped))
	}
}
