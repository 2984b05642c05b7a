// Package node wires the gossip transport, the vote state machine, and
// the account-state chain into a single orchestrator (spec §2 C8). It is
// the sole owner of the validator set and the chain-sync collector; both
// are mutated exclusively by the goroutine running Start.
package node

import (
	"context"
	"fmt"

	"github.com/Klingon-tech/klingnet-chain/internal/consensus"
	"github.com/Klingon-tech/klingnet-chain/internal/gossip"
	klog "github.com/Klingon-tech/klingnet-chain/internal/log"
	"github.com/Klingon-tech/klingnet-chain/internal/merkle"
	"github.com/Klingon-tech/klingnet-chain/internal/state"
	"github.com/Klingon-tech/klingnet-chain/internal/tx"
	"github.com/Klingon-tech/klingnet-chain/pkg/crypto"
	"github.com/rs/zerolog"
)

// Config supplies a Node's collaborators (spec §6 "Collaborator
// interfaces": chain, port, peers, privateKey).
type Config struct {
	Chain      *state.Chain
	ListenAddr string
	Peers      []string
	PrivateKey *crypto.PrivateKey
	Logger     zerolog.Logger
}

// Node owns the chain, the validator set, and the mesh and drives them
// from one event loop (spec §5 "Scheduling model").
type Node struct {
	mesh    *gossip.Mesh
	chain   *state.Chain
	tree    *merkle.Tree
	key     *crypto.PrivateKey
	selfKey string
	logger  zerolog.Logger

	validators map[string]bool // reachable peers with stake >= minStake, excludes self
	sync       *syncState
	cons       *consensus.Machine
}

// New constructs a Node. Call Start to begin serving.
func New(cfg Config) *Node {
	n := &Node{
		chain:      cfg.Chain,
		key:        cfg.PrivateKey,
		selfKey:    cfg.PrivateKey.PublicKeyHex(),
		logger:     cfg.Logger,
		validators: make(map[string]bool),
		sync:       newSyncState(),
	}
	n.mesh = gossip.New(gossip.Config{
		ListenAddr: cfg.ListenAddr,
		Seeds:      cfg.Peers,
		Key:        cfg.PrivateKey,
		Logger:     klog.WithComponent(cfg.Logger, "gossip"),
	})
	return n
}

// Submit injects a locally created transaction into the vote machine
// (spec §6 "the node exposes submit(T)").
func (n *Node) Submit(t *tx.Transaction) {
	n.cons.Submit(t)
}

// Start binds the gossip mesh, derives initial chain state, and runs the
// single dispatch loop until ctx is cancelled.
func (n *Node) Start(ctx context.Context) error {
	n.tree = n.bootstrapTree()
	n.cons = consensus.New(consensus.Config{
		Chain:      n.chain,
		Tree:       n.tree,
		SelfKey:    n.selfKey,
		Broadcast:  n.mesh,
		CloseByKey: n.mesh.CloseByKey,
		Validators: n.peerValidators,
	})

	if err := n.mesh.Start(ctx); err != nil {
		return fmt.Errorf("node: start mesh: %w", err)
	}

	n.runLoop(ctx)
	return nil
}

// bootstrapTree runs the full C4 replay over any pre-loaded transactions
// so accounts and the Merkle tree agree before the mesh ever comes up.
// It has no mode that builds only the tree and leaves accounts as given. If peers answer GET_CHAIN
// once connected, handleChain may later replace this via a fresh Replay.
func (n *Node) bootstrapTree() *merkle.Tree {
	if n.chain.Len() == 0 {
		return merkle.New()
	}
	return n.chain.Replay()
}

func (n *Node) peerValidators() map[string]bool {
	return n.validators
}

// runLoop is the single-threaded cooperative event loop (spec §5): the
// only suspension points are the mesh's event channel and the vote
// timer, and no other goroutine mutates chain, validators, or cons.
func (n *Node) runLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-n.mesh.Events():
			if !ok {
				return
			}
			if ev.Closed {
				n.handleSocketClosed(ev)
				continue
			}
			if ev.Opened {
				_ = n.mesh.Broadcast(gossip.TypeValidator, n.selfKey, "")
				continue
			}
			n.dispatch(ev)
		case <-n.cons.TimerC():
			n.cons.HandleTimeout()
		}
	}
}

// dispatch is the exhaustive match over the seven message kinds (spec §9
// "Dynamic dispatch on message type").
func (n *Node) dispatch(ev gossip.Event) {
	if !n.sync.requested && !n.sync.done {
		n.RequestChainSync()
	}

	env := ev.Envelope
	switch env.Type {
	case gossip.TypeValidator, gossip.TypeHelloValidator:
		n.handleValidatorAnnounce(env)
	case gossip.TypeValidators:
		_ = n.mesh.Broadcast(gossip.TypeValidator, n.selfKey, "")
	case gossip.TypeGetChain:
		n.handleGetChain(env)
	case gossip.TypeChain:
		n.handleChain(env)
	case gossip.TypeNewTransaction:
		n.handleNewTransaction(env)
	case gossip.TypeTransaction:
		n.handleTransactionVote(env)
	default:
		n.logger.Debug().Str("type", env.Type).Msg("unknown message type")
	}
}

func (n *Node) handleNewTransaction(env gossip.Envelope) {
	var t tx.Transaction
	if err := env.Unmarshal(&t); err != nil {
		n.logger.Debug().Err(err).Msg("malformed NEW_TRANSACTION")
		return
	}
	n.cons.Submit(&t)
}

func (n *Node) handleTransactionVote(env gossip.Envelope) {
	var payload consensus.TransactionPayload
	if err := env.Unmarshal(&payload); err != nil {
		n.logger.Debug().Err(err).Msg("malformed TRANSACTION")
		return
	}
	n.cons.HandleVote(env.Key, payload)
}
