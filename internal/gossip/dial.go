package gossip

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
)

const (
	dialRetryInitial = 1 * time.Second
	dialRetryMax     = 30 * time.Second
)

// dialWithRetry connects to a seed peer and keeps reconnecting with
// exponential backoff whenever the connection drops, until ctx is done.
// The "initial" flag is not read; every call behaves the same.
func (m *Mesh) dialWithRetry(ctx context.Context, addr string, initial bool) {
	backoff := dialRetryInitial
	for {
		if ctx.Err() != nil {
			return
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, addr, nil)
		if err != nil {
			m.logger.Warn().Err(err).Str("peer", addr).Msg("dial failed, retrying")
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			if backoff < dialRetryMax {
				backoff *= 2
			}
			continue
		}

		backoff = dialRetryInitial
		s := m.addSocket(conn, true)
		m.logger.Info().Str("socket", s.id).Str("peer", addr).Msg("dialed peer")
		m.runSocket(s)

		if ctx.Err() != nil {
			return
		}
		// connection dropped; loop around and redial.
		time.Sleep(dialRetryInitial)
	}
}
