package game

import (
	"log"
	"sync"
	"time"

	"skirmish/backend/internal/hub"
	"skirmish/backend/internal/session"
)

// Publisher is the event fanout the coordinator publishes through. The
// hub implements it; tests substitute a recorder.
type Publisher interface {
	Register(code, playerID string, client hub.Client)
	Unregister(code, playerID string)
	Broadcast(code string, event hub.Event)
	BroadcastExcept(code, senderID string, event hub.Event)
	Send(code, playerID string, event hub.Event)
}

// Coordinator implements the session protocol: membership, the five
// agreement gates, and the state relay. Every inbound message is
// handled to completion under a single mutex, so per-session state
// needs no locking of its own.
type Coordinator struct {
	mu         sync.Mutex
	registry   *session.Registry
	pub        Publisher
	startDelay time.Duration
}

// New creates a coordinator over the given registry and publisher.
// startDelay is the fixed interval between the ready gate firing and
// the start notification going out.
func New(registry *session.Registry, pub Publisher, startDelay time.Duration) *Coordinator {
	return &Coordinator{
		registry:   registry,
		pub:        pub,
		startDelay: startDelay,
	}
}

// resolve maps a connection to its session and checks it against the
// code carried by the message. A mismatch means the message is stale or
// duplicated and is silently dropped by callers.
func (c *Coordinator) resolve(playerID, code string) (*session.Session, bool) {
	s, ok := c.registry.SessionFor(playerID)
	if !ok {
		return nil, false
	}
	if code != "" && s.Code() != code {
		return nil, false
	}
	return s, true
}

// CreateSession makes a new session with the caller as host and first
// member. A connection that is already in a session cannot open a
// second one; the duplicate message is treated as stale and dropped,
// or the old session would keep a member no removal path can reach.
func (c *Coordinator) CreateSession(playerID, displayName string, client hub.Client) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.registry.SessionFor(playerID); ok {
		return
	}
	player := &session.Player{ID: playerID, Name: displayName}
	s := c.registry.Create(player)
	c.pub.Register(s.Code(), playerID, client)
	log.Printf("session %s: created by %s (%s)", s.Code(), displayName, playerID)

	c.pub.Send(s.Code(), playerID, hub.Event{Type: "sessionCreated", Payload: map[string]interface{}{
		"code":     s.Code(),
		"playerId": playerID,
		"players":  s.Players(),
	}})
	c.pub.Broadcast(s.Code(), hub.Event{Type: "playersUpdate", Payload: map[string]interface{}{
		"players": s.Players(),
	}})
}

// JoinSession adds the caller to an existing session. The returned
// error is session.ErrNotFound or session.ErrFull; the transport layer
// surfaces it to the caller as a joinError event. A caller already in
// a session is dropped silently, like any other stale message.
func (c *Coordinator) JoinSession(playerID, displayName, code string, client hub.Client) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.registry.SessionFor(playerID); ok {
		return nil
	}
	player := &session.Player{ID: playerID, Name: displayName}
	s, err := c.registry.Join(code, player)
	if err != nil {
		return err
	}
	c.pub.Register(code, playerID, client)
	log.Printf("session %s: %s (%s) joined", code, displayName, playerID)

	c.pub.Send(code, playerID, hub.Event{Type: "sessionJoined", Payload: map[string]interface{}{
		"code":     code,
		"playerId": playerID,
		"players":  s.Players(),
	}})
	c.pub.Broadcast(code, hub.Event{Type: "playersUpdate", Payload: map[string]interface{}{
		"players": s.Players(),
	}})
	return nil
}

// SetReady flips the caller's flag on the ready gate. When the flip
// completes the agreement and setup has not begun, a single start
// notification is scheduled after the fixed delay. The notification is
// fire-and-forget: it cannot be cancelled, and it carries the
// membership captured at schedule time, so a player who un-readies
// inside the window still receives it.
func (c *Coordinator) SetReady(playerID string, ready bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.registry.SessionFor(playerID)
	if !ok {
		return
	}
	wasSatisfied := s.GateSatisfied(session.GateReady)
	s.SetFlag(session.GateReady, playerID, ready)

	code := s.Code()
	c.pub.Broadcast(code, hub.Event{Type: "readyUpdate", Payload: s.ProjectFlags(session.GateReady)})

	if !wasSatisfied && s.GateSatisfied(session.GateReady) && !s.SetupLocked() {
		players := s.Players()
		log.Printf("session %s: both ready, starting in %s", code, c.startDelay)
		time.AfterFunc(c.startDelay, func() {
			c.pub.Broadcast(code, hub.Event{Type: "gameStarting", Payload: map[string]interface{}{
				"players": players,
			}})
		})
	}
}

// Leave removes the caller from its session. An empty code means
// "whatever session this connection is in"; a mismatched code is
// treated as stale and dropped.
func (c *Coordinator) Leave(playerID, code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(playerID, code)
}

// Disconnect handles a connection terminating without an explicit
// leave. Identical effect to Leave, and safe to race with it.
func (c *Coordinator) Disconnect(playerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(playerID, "")
}

func (c *Coordinator) remove(playerID, code string) {
	if code != "" {
		if _, ok := c.resolve(playerID, code); !ok {
			return
		}
	}
	s, destroyed := c.registry.Remove(playerID)
	if s == nil {
		return
	}
	c.pub.Unregister(s.Code(), playerID)
	if destroyed {
		log.Printf("session %s: empty, destroyed", s.Code())
		return
	}
	c.pub.Broadcast(s.Code(), hub.Event{Type: "playersUpdate", Payload: map[string]interface{}{
		"players": s.Players(),
	}})
}
