package service

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/snehajha1230/ELARIA-HOME-sub001/internal/model"

	"github.com/gofiber/contrib/websocket"
)

// Client is one live websocket connection bound to an authenticated user.
// A user may hold several at once (multi-device); each gets every
// user-targeted event.
type Client struct {
	Conn     *websocket.Conn
	UserID   string
	Username string
	Send     chan []byte
}

// Publisher is the event fan-out surface the domain services depend on.
// Delivery is best-effort: no live connection means the frame is dropped
// and the durable notification record is the fallback.
type Publisher interface {
	PublishToUser(userID, event string, payload any)
	PublishToSession(sessionID, event string, payload any)
	SessionHasUser(sessionID, userID string) bool
}

// Dispatcher routes domain events to live connections. It keeps two
// presence tables: user → connections and session → connections joined
// while actively viewing that session. Both are in-memory only and rebuilt
// from nothing on restart.
type Dispatcher struct {
	mu       sync.RWMutex
	users    map[string]map[*Client]struct{}
	sessions map[string]map[*Client]struct{}
	closed   bool
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		users:    make(map[string]map[*Client]struct{}),
		sessions: make(map[string]map[*Client]struct{}),
	}
}

// Register places the connection in its user's presence group.
func (d *Dispatcher) Register(c *Client) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		close(c.Send)
		return
	}
	set, ok := d.users[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		d.users[c.UserID] = set
	}
	set[c] = struct{}{}
	log.Printf("[WS] %s connected (connections: %d)", c.Username, d.onlineLocked())
}

// Unregister removes the connection from every group and closes its send
// channel.
func (d *Dispatcher) Unregister(c *Client) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if set, ok := d.users[c.UserID]; ok {
		if _, member := set[c]; member {
			delete(set, c)
			close(c.Send)
		}
		if len(set) == 0 {
			delete(d.users, c.UserID)
		}
	}
	for sessionID, set := range d.sessions {
		delete(set, c)
		if len(set) == 0 {
			delete(d.sessions, sessionID)
		}
	}
	log.Printf("[WS] %s disconnected (connections: %d)", c.Username, d.onlineLocked())
}

// JoinSession subscribes the connection to a session's event stream.
// Authorization happens at the transport layer before this is called.
func (d *Dispatcher) JoinSession(c *Client, sessionID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	set, ok := d.sessions[sessionID]
	if !ok {
		set = make(map[*Client]struct{})
		d.sessions[sessionID] = set
	}
	set[c] = struct{}{}
}

// LeaveSession drops the connection from a session group.
func (d *Dispatcher) LeaveSession(c *Client, sessionID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if set, ok := d.sessions[sessionID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(d.sessions, sessionID)
		}
	}
}

// PublishToUser delivers an event to every live connection of one user.
// Silently a no-op when the user has none.
func (d *Dispatcher) PublishToUser(userID, event string, payload any) {
	frame, err := encodeFrame(event, payload)
	if err != nil {
		log.Printf("[WS] encode %s: %v", event, err)
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	for c := range d.users[userID] {
		c.trySend(frame)
	}
}

// PublishToSession delivers an event to every connection joined to the
// session. Callers that need ordering serialize their own publishes; the
// dispatcher preserves the order of calls per connection.
func (d *Dispatcher) PublishToSession(sessionID, event string, payload any) {
	frame, err := encodeFrame(event, payload)
	if err != nil {
		log.Printf("[WS] encode %s: %v", event, err)
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	for c := range d.sessions[sessionID] {
		c.trySend(frame)
	}
}

// SessionHasUser reports whether any of the user's connections is joined
// to the session.
func (d *Dispatcher) SessionHasUser(sessionID, userID string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for c := range d.sessions[sessionID] {
		if c.UserID == userID {
			return true
		}
	}
	return false
}

func (d *Dispatcher) OnlineCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.onlineLocked()
}

func (d *Dispatcher) onlineLocked() int {
	n := 0
	for _, set := range d.users {
		n += len(set)
	}
	return n
}

// Shutdown closes every send channel and refuses further registrations.
func (d *Dispatcher) Shutdown() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	for _, set := range d.users {
		for c := range set {
			close(c.Send)
		}
	}
	d.users = make(map[string]map[*Client]struct{})
	d.sessions = make(map[string]map[*Client]struct{})
}

// trySend drops the frame rather than block on a slow consumer; the
// notification outbox is the durable fallback.
func (c *Client) trySend(frame []byte) {
	select {
	case c.Send <- frame:
	default:
	}
}

func encodeFrame(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(model.WSEvent{Type: event, Data: data})
}
