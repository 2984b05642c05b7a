package node

import (
	"github.com/Klingon-tech/klingnet-chain/internal/gossip"
)

// handleValidatorAnnounce admits a peer to V once it reports stake
// above minStake (spec §4.4 "Validator-set maintenance"). HELLO_VALIDATOR
// is an acknowledgement and never itself provokes a reply.
func (n *Node) handleValidatorAnnounce(env gossip.Envelope) {
	var pubkey string
	if err := env.Unmarshal(&pubkey); err != nil {
		n.logger.Debug().Err(err).Msg("malformed VALIDATOR announce")
		return
	}
	if pubkey == n.selfKey {
		return
	}
	acct := n.chain.Lookup(pubkey)
	if !acct.HasStake() {
		n.logger.Debug().Str("peer", pubkey).Msg("ignoring announce from under-staked peer")
		return
	}
	n.validators[pubkey] = true

	if env.Type == gossip.TypeValidator {
		_ = n.mesh.Broadcast(gossip.TypeHelloValidator, n.selfKey, env.Key)
	}
}

// handleSocketClosed empties V and re-announces, because the validator
// set is defined by live membership, not history (spec §4.4 "Any socket
// close empties V").
func (n *Node) handleSocketClosed(ev gossip.Event) {
	n.logger.Info().Str("socket", ev.SocketID).Str("peer", ev.PeerKey).Msg("peer disconnected, resetting validator set")
	n.validators = make(map[string]bool)
	_ = n.mesh.Broadcast(gossip.TypeValidators, nil, "")
}
