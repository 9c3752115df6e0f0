package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"spot-trainer/internal/game"
	"spot-trainer/internal/session"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 64 << 10
	defaultBuffer  = 64
)

// Protocol errors. They never reach the table.
var (
	ErrUnknownType      = errors.New("unknown_message_type")
	ErrNotJoined        = errors.New("not_joined")
	ErrAlreadyJoined    = errors.New("already_joined")
	ErrIdentityMismatch = errors.New("identity_mismatch")
	ErrMalformed        = errors.New("malformed_message")
)

type Options struct {
	SendBuffer     int
	AllowedOrigins []string
}

type tableKey struct {
	session string
	table   int
}

// subscribers of one table. seats holds the connection controlling each
// seat, clients every connection including observers.
type subscribers struct {
	clients map[*Client]struct{}
	seats   [2]*Client
}

type Client struct {
	conn *websocket.Conn
	send chan []byte

	sendMu sync.Mutex
	closed bool

	// identity is set once by join_session and cleared when another
	// connection takes over the seat
	mu       sync.Mutex
	identity *Identity
	detached bool
}

func (c *Client) Identity() (Identity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.identity == nil {
		return Identity{}, false
	}
	return *c.identity, true
}

// detach revokes the seat from a connection that has been replaced. Its
// read loop may still be running; nothing it sends is honoured afterwards.
func (c *Client) detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.identity = nil
	c.detached = true
}

func (c *Client) holds(id Identity) bool {
	cur, ok := c.Identity()
	return ok && cur == id
}

// enqueue never blocks. A client whose buffer is full is cut off rather
// than skipped, so no connection ever sees a gap in the snapshot sequence.
func (c *Client) enqueue(msg []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		c.closed = true
		close(c.send)
		metricSlowConsumers.Add(1)
		return false
	}
}

func (c *Client) shutdown() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Server is the persistent-connection gateway in front of the session
// manager.
type Server struct {
	mgr        *session.Manager
	upgrader   websocket.Upgrader
	sendBuffer int

	mu     sync.Mutex
	tables map[tableKey]*subscribers
}

func NewServer(mgr *session.Manager, opts Options) *Server {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = defaultBuffer
	}
	return &Server{
		mgr:        mgr,
		upgrader:   websocket.Upgrader{CheckOrigin: originChecker(opts.AllowedOrigins)},
		sendBuffer: opts.SendBuffer,
		tables:     map[tableKey]*subscribers{},
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := map[string]bool{}
	for _, o := range allowed {
		set[strings.ToLower(strings.TrimSpace(o))] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return set[strings.ToLower(u.Scheme+"://"+u.Host)] || set[strings.ToLower(u.Host)]
	}
}

func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("ws_upgrade_failed")
		return
	}
	client := &Client{conn: conn, send: make(chan []byte, s.sendBuffer)}
	metricConnectionsActive.Add(1)
	metricConnectionsTotal.Add(1)
	log.Debug().Str("remote", r.RemoteAddr).Msg("ws_connected")

	go s.writeLoop(client)
	s.readLoop(client)
}

func (s *Server) readLoop(c *Client) {
	defer func() {
		s.unregister(c)
		c.shutdown()
		_ = c.conn.Close()
		metricConnectionsActive.Add(-1)
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		metricMessagesIn.Add(1)
		s.dispatch(c, msg)
	}
}

func (s *Server) writeLoop(c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) dispatch(c *Client, msg []byte) {
	var base struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg, &base); err != nil {
		s.sendError(c, ErrMalformed)
		return
	}
	var err error
	switch base.Type {
	case TypeJoinSession:
		var m JoinSessionMessage
		if err = json.Unmarshal(msg, &m); err == nil {
			err = s.handleJoin(c, m)
		}
	case TypePlayerAction:
		var m PlayerActionMessage
		if err = json.Unmarshal(msg, &m); err == nil {
			err = s.handleAction(c, m)
		}
	case TypeRequestNewHand:
		var m RequestNewHandMessage
		if err = json.Unmarshal(msg, &m); err == nil {
			err = s.handleNewHand(c, m)
		}
	default:
		err = ErrUnknownType
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		err = ErrMalformed
	}
	if err != nil {
		s.sendError(c, err)
	}
}

func (s *Server) handleJoin(c *Client, m JoinSessionMessage) error {
	c.mu.Lock()
	joined := c.identity != nil || c.detached
	c.mu.Unlock()
	if joined {
		return ErrAlreadyJoined
	}
	id := m.Identity
	if id.SeatID < 0 || id.SeatID > 2 {
		return session.ErrSeatNotFound
	}
	return s.mgr.WithTable(id.SessionID, id.TableID, func(slot *session.TableSlot) error {
		if id.SeatID > 0 {
			if err := slot.Rename(id.SeatID, m.DisplayName); err != nil {
				return err
			}
		}
		replaced := s.subscribe(c, id)
		c.mu.Lock()
		c.identity = &id
		c.mu.Unlock()
		if replaced != nil {
			log.Info().Str("session_id", id.SessionID).Int("table_id", id.TableID).Int("seat_id", id.SeatID).Msg("ws_seat_reattached")
			replaced.detach()
			replaced.shutdown()
		}

		c.enqueue(mustJSON(GameStateMessage{Type: TypeGameState, Identity: id, Table: slot.Snapshot(id.SeatID)}))
		if id.SeatID > 0 {
			_ = slot.SetPresence(id.SeatID, true)
			name := slot.Snapshot(0).Seats[id.SeatID-1].Name
			s.broadcastExcept(id, c, mustJSON(PresenceMessage{Type: TypePlayerConnected, Identity: id, DisplayName: name}))
		}
		log.Info().
			Str("session_id", id.SessionID).
			Int("table_id", id.TableID).
			Int("seat_id", id.SeatID).
			Msg("ws_joined")
		return nil
	})
}

// checkIdentity requires the message to address the seat the connection
// joined with.
func checkIdentity(c *Client, got Identity) (Identity, error) {
	id, ok := c.Identity()
	if !ok {
		return Identity{}, ErrNotJoined
	}
	if id.SeatID == 0 || got != id {
		return Identity{}, ErrIdentityMismatch
	}
	return id, nil
}

func parseKind(s string) (game.ActionKind, error) {
	switch k := game.ActionKind(strings.ToLower(strings.TrimSpace(s))); k {
	case game.ActionFold, game.ActionCheck, game.ActionCall, game.ActionBet, game.ActionRaise:
		return k, nil
	}
	return "", game.ErrInvalidAction
}

func (s *Server) handleAction(c *Client, m PlayerActionMessage) error {
	id, err := checkIdentity(c, m.Identity)
	if err != nil {
		return err
	}
	kind, err := parseKind(m.Action)
	if err != nil {
		return err
	}
	return s.mgr.WithTable(id.SessionID, id.TableID, func(slot *session.TableSlot) error {
		// the seat may have been taken over while this waited for the lock
		if !c.holds(id) {
			return ErrNotJoined
		}
		out, err := slot.Act(id.SeatID, kind, m.Amount)
		if err != nil {
			metricActionsRejected.Add(1)
			log.Debug().Err(err).Str("session_id", id.SessionID).Int("table_id", id.TableID).Int("seat_id", id.SeatID).Msg("action_rejected")
			return err
		}
		metricActionsApplied.Add(1)
		log.Info().
			Str("session_id", id.SessionID).
			Int("table_id", id.TableID).
			Int("seat_id", id.SeatID).
			Str("action", string(kind)).
			Int64("amount", out.Action.Amount).
			Bool("hand_complete", out.HandComplete).
			Msg("action_applied")

		s.broadcast(id, func(viewer Identity) []byte {
			msg := TableUpdateMessage{Type: TypeTableUpdate, Identity: viewer, Table: slot.Snapshot(viewer.SeatID), Outcome: out}
			if out.HandComplete {
				text, err := slot.LastHistory(viewer.SeatID)
				if err != nil {
					log.Error().Err(err).Str("session_id", id.SessionID).Int("table_id", id.TableID).Msg("hand_history_failed")
				}
				msg.HandHistory = text
			}
			return mustJSON(msg)
		})
		return nil
	})
}

func (s *Server) handleNewHand(c *Client, m RequestNewHandMessage) error {
	id, err := checkIdentity(c, m.Identity)
	if err != nil {
		return err
	}
	return s.mgr.WithTable(id.SessionID, id.TableID, func(slot *session.TableSlot) error {
		if !c.holds(id) {
			return ErrNotJoined
		}
		if err := slot.NewHand(); err != nil {
			return err
		}
		metricNewHands.Add(1)
		log.Info().
			Str("session_id", id.SessionID).
			Int("table_id", id.TableID).
			Int64("hand_number", slot.Table().HandNumber).
			Msg("hand_start")
		s.broadcast(id, func(viewer Identity) []byte {
			return mustJSON(NewHandMessage{Type: TypeNewHand, Identity: viewer, Table: slot.Snapshot(viewer.SeatID)})
		})
		return nil
	})
}

// subscribe adds c to its table and returns the connection it displaced
// from the seat, if any. Callers hold the table lock.
func (s *Server) subscribe(c *Client, id Identity) *Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := tableKey{id.SessionID, id.TableID}
	subs := s.tables[key]
	if subs == nil {
		subs = &subscribers{clients: map[*Client]struct{}{}}
		s.tables[key] = subs
	}
	subs.clients[c] = struct{}{}
	if id.SeatID == 0 {
		return nil
	}
	old := subs.seats[id.SeatID-1]
	subs.seats[id.SeatID-1] = c
	if old != nil && old != c {
		delete(subs.clients, old)
		return old
	}
	return nil
}

func (s *Server) unregister(c *Client) {
	id, ok := c.Identity()
	if !ok {
		return
	}
	err := s.mgr.WithTable(id.SessionID, id.TableID, func(slot *session.TableSlot) error {
		s.mu.Lock()
		key := tableKey{id.SessionID, id.TableID}
		subs := s.tables[key]
		owned := false
		if subs != nil {
			delete(subs.clients, c)
			if id.SeatID > 0 && subs.seats[id.SeatID-1] == c {
				subs.seats[id.SeatID-1] = nil
				owned = true
			}
			if len(subs.clients) == 0 {
				delete(s.tables, key)
			}
		}
		s.mu.Unlock()
		if !owned {
			return nil
		}
		_ = slot.SetPresence(id.SeatID, false)
		s.broadcastExcept(id, c, mustJSON(PresenceMessage{Type: TypePlayerDisconnected, Identity: id}))
		log.Info().Str("session_id", id.SessionID).Int("table_id", id.TableID).Int("seat_id", id.SeatID).Msg("ws_disconnected")
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Str("session_id", id.SessionID).Int("table_id", id.TableID).Msg("ws_unregister_failed")
	}
}

func (s *Server) recipients(id Identity) []*Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	subs := s.tables[tableKey{id.SessionID, id.TableID}]
	if subs == nil {
		return nil
	}
	out := make([]*Client, 0, len(subs.clients))
	for c := range subs.clients {
		out = append(out, c)
	}
	return out
}

// broadcast renders one message per distinct viewer seat and enqueues it
// to every connection on the table. Callers hold the table lock, so the
// per-table order of messages is the order of accepted actions.
func (s *Server) broadcast(id Identity, render func(viewer Identity) []byte) {
	cache := map[int][]byte{}
	for _, c := range s.recipients(id) {
		viewer, ok := c.Identity()
		if !ok {
			continue
		}
		msg, hit := cache[viewer.SeatID]
		if !hit {
			msg = render(viewer)
			cache[viewer.SeatID] = msg
		}
		c.enqueue(msg)
	}
}

func (s *Server) broadcastExcept(id Identity, skip *Client, msg []byte) {
	for _, c := range s.recipients(id) {
		if c != skip {
			c.enqueue(msg)
		}
	}
}

func (s *Server) sendError(c *Client, err error) {
	kind := session.Classify(err).String()
	switch {
	case errors.Is(err, ErrUnknownType), errors.Is(err, ErrNotJoined), errors.Is(err, ErrAlreadyJoined),
		errors.Is(err, ErrIdentityMismatch), errors.Is(err, ErrMalformed):
		kind = session.KindProtocol.String()
	}
	metricErrorsSent.Add(1)
	c.enqueue(mustJSON(ErrorMessage{Type: TypeError, Code: session.Code(err), Kind: kind, Message: err.Error()}))
}

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("ws_marshal_failed")
		return []byte(`{"type":"error","code":"internal_error","kind":"internal","message":"internal_error"}`)
	}
	return b
}
