package gossip

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Klingon-tech/klingnet-chain/pkg/crypto"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Event is one item handed to the node's single event loop: a verified
// inbound envelope, a socket-open notification, or a socket-close
// notification (spec §4.4 step 5 dispatch, and §4.4 "any socket close
// empties V").
type Event struct {
	Envelope Envelope
	SocketID string
	Opened   bool // true the first time this socket becomes usable
	Closed   bool
	PeerKey  string // identity bound to the socket at close time, "" if never bound
}

// Config configures a Mesh.
type Config struct {
	ListenAddr string
	Seeds      []string
	Key        *crypto.PrivateKey
	Logger     zerolog.Logger
}

// Mesh is the gossip transport: it owns the socket list, the dedup
// window, and signing/verification, and hands every accepted message to
// a single events channel for the node loop to dispatch (spec §4.4).
type Mesh struct {
	cfg    Config
	dedup  *dedupWindow
	logger zerolog.Logger

	mu               sync.Mutex
	sockets          map[string]*socket
	nextID           int
	reconnectStarted bool

	events chan Event
}

// New creates a Mesh. Call Start to begin listening and dialing seeds.
func New(cfg Config) *Mesh {
	return &Mesh{
		cfg:     cfg,
		dedup:   newDedupWindow(gossipDedupWindowSize),
		logger:  cfg.Logger,
		sockets: make(map[string]*socket),
		events:  make(chan Event, 256),
	}
}

// gossipDedupWindowSize mirrors state.GossipDedupWindow without an
// import-cycle dependency on the state package from the transport layer.
const gossipDedupWindowSize = 10

// Events returns the channel of inbound envelopes and socket-open and
// socket-close notifications. The node's event loop is the sole consumer.
func (m *Mesh) Events() <-chan Event {
	return m.events
}

// Start opens the listener and dials every configured seed. It returns
// once the listener is bound; dialing and accepting continue in the
// background.
func (m *Mesh) Start(ctx context.Context) error {
	if err := m.listen(ctx); err != nil {
		return fmt.Errorf("gossip: listen: %w", err)
	}
	for _, seed := range m.cfg.Seeds {
		go m.dialWithRetry(ctx, seed, true)
	}
	return nil
}

// OpenCount returns the number of currently OPEN sockets.
func (m *Mesh) OpenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.sockets {
		if s.IsOpen() {
			n++
		}
	}
	return n
}

// Broadcast signs a new envelope of the given type/payload/recipient and
// flood-fills it to every open socket.
func (m *Mesh) Broadcast(msgType string, data any, forKey string) error {
	env, err := NewEnvelope(msgType, data, forKey, m.cfg.Key)
	if err != nil {
		return fmt.Errorf("gossip: broadcast: %w", err)
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("gossip: marshal envelope: %w", err)
	}
	m.writeToAll(payload, "")
	return nil
}

// Forward flood-fills an already-verified envelope verbatim to every
// open socket except the one it arrived on (spec §4.4 step 3).
func (m *Mesh) Forward(env Envelope, exceptSocketID string) {
	payload, err := json.Marshal(env)
	if err != nil {
		m.logger.Error().Err(err).Msg("forward: marshal envelope")
		return
	}
	m.writeToAll(payload, exceptSocketID)
}

func (m *Mesh) writeToAll(payload []byte, exceptSocketID string) {
	m.mu.Lock()
	targets := make([]*socket, 0, len(m.sockets))
	for id, s := range m.sockets {
		if id == exceptSocketID || !s.IsOpen() {
			continue
		}
		targets = append(targets, s)
	}
	m.mu.Unlock()

	for _, s := range targets {
		if err := s.Write(payload); err != nil {
			m.logger.Debug().Err(err).Str("socket", s.id).Msg("drop write to non-open socket")
		}
	}
}

// CloseByKey closes every socket whose bound identity matches key. The
// vote timeout uses this to punish validators who did not vote (spec
// §4.6 Timeout: "close any socket whose identity is in the last V but
// not in consensus").
func (m *Mesh) CloseByKey(key string) {
	m.mu.Lock()
	var targets []*socket
	for _, s := range m.sockets {
		if s.Identity() == key {
			targets = append(targets, s)
		}
	}
	m.mu.Unlock()

	for _, s := range targets {
		s.conn.Close()
	}
}

func (m *Mesh) addSocket(conn *websocket.Conn, outbound bool) *socket {
	m.mu.Lock()
	m.nextID++
	id := fmt.Sprintf("sock-%d", m.nextID)
	s := newSocket(id, conn, outbound)
	m.sockets[id] = s
	m.mu.Unlock()
	return s
}

func (m *Mesh) removeSocket(id string) {
	m.mu.Lock()
	delete(m.sockets, id)
	m.mu.Unlock()
}

// runSocket owns one connection's read loop until it errors or closes,
// then emits a close Event and tears the socket down (spec §4.4 step 5
// and §4.6 "any socket close empties V").
func (m *Mesh) runSocket(s *socket) {
	defer m.teardownSocket(s)

	select {
	case m.events <- Event{Opened: true, SocketID: s.id}:
	default:
		m.logger.Warn().Str("socket", s.id).Msg("event backlog full, dropping open notification")
	}

	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			return
		}

		var env Envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			m.logger.Debug().Err(err).Str("socket", s.id).Msg("drop malformed frame")
			continue
		}
		if !env.Verify() {
			m.logger.Debug().Str("socket", s.id).Msg("drop unverifiable envelope")
			continue
		}
		if m.dedup.SeenOrRecord(env.ID) {
			continue
		}

		s.BindIdentity(env.Key)
		m.Forward(env, s.id)

		select {
		case m.events <- Event{Envelope: env, SocketID: s.id}:
		default:
			m.logger.Warn().Str("socket", s.id).Msg("event backlog full, dropping envelope")
		}
	}
}

func (m *Mesh) teardownSocket(s *socket) {
	s.MarkClosed()
	peerKey := s.Identity()
	m.removeSocket(s.id)
	s.conn.Close()

	select {
	case m.events <- Event{Closed: true, SocketID: s.id, PeerKey: peerKey}:
	default:
		m.logger.Warn().Str("socket", s.id).Msg("event backlog full, dropping close notification")
	}

	go m.scheduleLivenessCheck(m.nextReconnectDelay())
}

func (m *Mesh) nextReconnectDelay() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.reconnectStarted {
		m.reconnectStarted = true
		return reconnectInitialDelay
	}
	return reconnectRecheckDelay
}
