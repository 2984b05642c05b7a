package node

import (
	"encoding/json"
	"sort"

	"github.com/Klingon-tech/klingnet-chain/internal/gossip"
	"github.com/Klingon-tech/klingnet-chain/internal/state"
)

// chainPayload is the CHAIN reply body (spec §6). The source
// double-encodes transactions as a JSON string nested inside the
// envelope's JSON data; implementers must match this for interop with
// peers speaking the same wire format (spec §9, "mixing a
// serialized-string length with a top-level object").
type chainPayload struct {
	Transactions string `json:"transactions"`
	Root         string `json:"root"`
}

// syncState collects CHAIN responses keyed by peer pubkey during
// startup sync (spec §4.5 C6).
type syncState struct {
	responses map[string][]*state.Record
	roots     map[string]string
	requested bool
	done      bool
}

func newSyncState() *syncState {
	return &syncState{responses: make(map[string][]*state.Record), roots: make(map[string]string)}
}

// RequestChainSync broadcasts GET_CHAIN if at least one peer socket is
// open (spec §4.5 "On startup with at least one peer connected").
func (n *Node) RequestChainSync() {
	if n.mesh.OpenCount() == 0 {
		return
	}
	n.sync.requested = true
	_ = n.mesh.Broadcast(gossip.TypeGetChain, nil, "")
}

func (n *Node) handleGetChain(env gossip.Envelope) {
	records := n.chain.Snapshot()
	encoded, err := json.Marshal(records)
	if err != nil {
		n.logger.Error().Err(err).Msg("encode chain snapshot")
		return
	}
	payload := chainPayload{Transactions: string(encoded), Root: n.tree.Root()}
	_ = n.mesh.Broadcast(gossip.TypeChain, payload, env.Key)
}

// handleChain tallies plurality-root CHAIN replies and, once a quorum of
// peers has answered, adopts the winning peer's transaction list if it
// is at least as long as the local chain (spec §4.5, end-to-end scenario
// 6). The gate "|consensus| >= |V| - 1" is read as a threshold over
// distinct peers that have replied so far, since V may still be empty
// this early if no VALIDATOR announces have arrived yet.
func (n *Node) handleChain(env gossip.Envelope) {
	if env.For != n.selfKey {
		return
	}
	if n.sync.done || !n.sync.requested {
		return
	}

	var payload chainPayload
	if err := env.Unmarshal(&payload); err != nil {
		n.logger.Debug().Err(err).Msg("malformed CHAIN reply")
		return
	}
	var records []*state.Record
	if err := json.Unmarshal([]byte(payload.Transactions), &records); err != nil {
		n.logger.Debug().Err(err).Msg("malformed CHAIN transactions payload")
		return
	}

	n.sync.responses[env.Key] = records
	n.sync.roots[env.Key] = payload.Root

	threshold := len(n.validators) - 1
	if threshold < 0 {
		threshold = 0
	}
	if len(n.sync.responses) < threshold && len(n.sync.responses) < n.mesh.OpenCount() {
		return
	}

	n.adoptPlurality()
}

func (n *Node) adoptPlurality() {
	n.sync.done = true

	tally := make(map[string]int)
	for _, root := range n.sync.roots {
		tally[root]++
	}

	var pluralityRoot string
	var best int
	// deterministic tie-break: lowest root string wins among equal counts.
	roots := make([]string, 0, len(tally))
	for root := range tally {
		roots = append(roots, root)
	}
	sort.Strings(roots)
	for _, root := range roots {
		if tally[root] > best {
			best = tally[root]
			pluralityRoot = root
		}
	}

	for peerKey, root := range n.sync.roots {
		if root != pluralityRoot {
			continue
		}
		records := n.sync.responses[peerKey]
		if len(records) < n.chain.Len() {
			continue
		}
		n.adoptChain(records)
		return
	}
}

func (n *Node) adoptChain(records []*state.Record) {
	n.chain.Transactions = records
	n.chain.Reset()
	n.tree = n.chain.Replay()
	n.logger.Info().Int("records", len(records)).Msg("adopted peer chain snapshot")
}
