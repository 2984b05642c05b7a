package gossip

import (
	"sync"

	"github.com/gorilla/websocket"
)

// socketState tracks whether a socket is still writable. Only OPEN
// sockets receive flood-fill traffic (spec §5: "no backpressure on the
// outbound flood-fill; implementers should drop messages to sockets not
// in OPEN state").
type socketState int

const (
	socketOpen socketState = iota
	socketClosed
)

// socket wraps one peer connection. It carries a back-reference to the
// peer's public key only, never to the mesh or node — an identifier
// handle, not a shared pointer (spec §9, "cyclic references").
type socket struct {
	id      string
	conn    *websocket.Conn
	outbound bool // true if we dialed, false if we accepted

	mu    sync.Mutex
	state socketState
	key   string // bound peer identity, "" until a VALIDATOR/HELLO_VALIDATOR/TRANSACTION etc. arrives
}

func newSocket(id string, conn *websocket.Conn, outbound bool) *socket {
	return &socket{id: id, conn: conn, outbound: outbound, state: socketOpen}
}

// Write sends one envelope as a text frame. Returns an error if the
// socket is already closed or the write fails; callers drop rather than
// retry, per spec §5 ("no backpressure").
func (s *socket) Write(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != socketOpen {
		return errSocketClosed
	}
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}

// BindIdentity records the peer's public key the first time it is
// learned from a message the socket carried (spec §4.4 step 4).
func (s *socket) BindIdentity(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.key == "" {
		s.key = key
	}
}

// Identity returns the bound peer public key, or "" if none yet.
func (s *socket) Identity() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key
}

// MarkClosed transitions the socket to closed, idempotently.
func (s *socket) MarkClosed() (wasOpen bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == socketClosed {
		return false
	}
	s.state = socketClosed
	return true
}

// IsOpen reports whether the socket is still OPEN.
func (s *socket) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == socketOpen
}
