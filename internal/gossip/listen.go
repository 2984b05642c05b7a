package gossip

import (
	"context"
	"net"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// listen binds cfg.ListenAddr and begins accepting inbound WebSocket
// connections in the background. Every accepted connection is handed to
// runSocket immediately; identity binding happens later, on the first
// verified envelope it carries (spec §4.4).
func (m *Mesh) listen(ctx context.Context) error {
	ln, err := net.Listen("tcp", m.cfg.ListenAddr)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			m.logger.Debug().Err(err).Msg("upgrade failed")
			return
		}
		s := m.addSocket(conn, false)
		m.logger.Info().Str("socket", s.id).Str("remote", r.RemoteAddr).Msg("peer connected")
		go m.runSocket(s)
	})

	srv := &http.Server{Handler: mux}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	go func() {
		if err := srv.Serve(ln); err != nil && ctx.Err() == nil {
			m.logger.Error().Err(err).Msg("listener stopped")
		}
	}()

	m.logger.Info().Str("addr", m.cfg.ListenAddr).Msg("gossip listener bound")
	return nil
}
