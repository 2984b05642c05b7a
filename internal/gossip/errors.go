package gossip

import "errors"

var (
	errSocketClosed      = errors.New("gossip: socket is closed")
	errEnvelopeRejected  = errors.New("gossip: envelope rejected")
	errMissingPeerList   = errors.New("gossip: no seed peers configured")
)
