package game

import (
	"encoding/json"
	"log"

	"skirmish/backend/internal/hub"
	"skirmish/backend/internal/session"
)

// Army selection actions.
const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

// UpdateArmySelection adds or removes an army id on a player's
// selection list and republishes both the raw lists and the derived
// selection status in canonical slot form.
func (c *Coordinator) UpdateArmySelection(senderID, code, playerID, armyID, action string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.resolve(senderID, code)
	if !ok {
		return
	}
	switch action {
	case ActionAdd:
		s.AddArmy(playerID, armyID)
	case ActionRemove:
		s.RemoveArmy(playerID, armyID)
	default:
		return
	}
	c.pub.Broadcast(code, hub.Event{Type: "armySelectionUpdate", Payload: map[string]interface{}{
		"selections": s.ProjectSelections(),
		"status":     s.ProjectSelectionStatus(),
	}})
}

// SetArmySelectionStatus records a player's explicit selection-complete
// flag.
func (c *Coordinator) SetArmySelectionStatus(senderID, code, playerID string, selected bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.resolve(senderID, code)
	if !ok {
		return
	}
	s.SetSelectionStatus(playerID, selected)
	c.pub.Broadcast(code, hub.Event{Type: "armySelectionStatusUpdate", Payload: s.ProjectSelectionStatus()})
}

// EnterSetup locks the session into game setup, which prevents the
// ready gate from scheduling another start notification.
func (c *Coordinator) EnterSetup(senderID, code string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.resolve(senderID, code)
	if !ok {
		return
	}
	s.LockSetup()
	log.Printf("session %s: entered setup", code)
	c.pub.Broadcast(code, hub.Event{Type: "setupStarted", Payload: map[string]interface{}{
		"code": code,
	}})
}

// StartGame begins the game. Only the current host (first-ordered
// member) may start, and both players must have completed army
// selection; violations surface a startError event to the caller.
func (c *Coordinator) StartGame(senderID, code string, gameConfig json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.resolve(senderID, code)
	if !ok {
		return
	}
	if host := s.Host(); host == nil || host.ID != senderID {
		c.pub.Send(code, senderID, hub.Event{Type: "startError", Payload: map[string]interface{}{
			"reason":  "NotHost",
			"message": "only the host can start the game",
		}})
		return
	}
	status := s.ProjectSelectionStatus()
	if s.MemberCount() < session.MaxMembers || !status.First || !status.Second {
		c.pub.Send(code, senderID, hub.Event{Type: "startError", Payload: map[string]interface{}{
			"reason":  "Incomplete",
			"message": "both players must select armies",
		}})
		return
	}
	log.Printf("session %s: game started", code)
	c.pub.Broadcast(code, hub.Event{Type: "gameStarted", Payload: map[string]interface{}{
		"gameConfig": gameConfig,
	}})
}

// SetSetupReady flips a player's flag on the setup-ready gate and
// announces setup completion once both agree.
func (c *Coordinator) SetSetupReady(senderID, code, playerID string, ready bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.resolve(senderID, code)
	if !ok {
		return
	}
	wasSatisfied := s.GateSatisfied(session.GateSetupReady)
	s.SetFlag(session.GateSetupReady, playerID, ready)
	c.pub.Broadcast(code, hub.Event{Type: "setupReadyUpdate", Payload: s.ProjectFlags(session.GateSetupReady)})
	if !wasSatisfied && s.GateSatisfied(session.GateSetupReady) {
		c.pub.Broadcast(code, hub.Event{Type: "setupComplete", Payload: map[string]interface{}{
			"code": code,
		}})
	}
}

// RequestSetupReadyStatus serves the setup-ready flags to the requester
// only.
func (c *Coordinator) RequestSetupReadyStatus(senderID, code string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.resolve(senderID, code)
	if !ok {
		return
	}
	c.pub.Send(code, senderID, hub.Event{Type: "setupReadyStatus", Payload: s.ProjectFlags(session.GateSetupReady)})
}

// SetLegacyReady drives the legacy start gate. Unlike the other gates
// it tolerates a single member, so the old solo flow stays testable.
// It is one-shot: flags clear when it fires.
func (c *Coordinator) SetLegacyReady(senderID, code, playerID string, ready bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.resolve(senderID, code)
	if !ok {
		return
	}
	s.SetFlag(session.GateLegacyReady, playerID, ready)
	c.pub.Broadcast(code, hub.Event{Type: "legacyReadyUpdate", Payload: s.ProjectFlags(session.GateLegacyReady)})
	if s.GateSatisfied(session.GateLegacyReady) {
		s.ClearGate(session.GateLegacyReady)
		c.pub.Broadcast(code, hub.Event{Type: "legacyGameStart", Payload: map[string]interface{}{
			"code": code,
		}})
	}
}

// RequestLegacyReadyStatus serves the legacy ready flags to the
// requester only.
func (c *Coordinator) RequestLegacyReadyStatus(senderID, code string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.resolve(senderID, code)
	if !ok {
		return
	}
	c.pub.Send(code, senderID, hub.Event{Type: "legacyReadyStatus", Payload: s.ProjectFlags(session.GateLegacyReady)})
}
