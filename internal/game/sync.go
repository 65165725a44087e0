package game

import (
	"encoding/json"

	"skirmish/backend/internal/hub"
	"skirmish/backend/internal/session"
)

// SyncState relays a turn-state and zones update to the other member
// and folds it into the replicated snapshot, last writer wins.
func (c *Coordinator) SyncState(senderID, code string, turnState, zones json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.resolve(senderID, code)
	if !ok {
		return
	}
	s.MergeSnapshot(session.Snapshot{TurnState: turnState, Zones: zones})
	c.pub.BroadcastExcept(code, senderID, hub.Event{Type: "stateSync", Payload: map[string]interface{}{
		"turnState": turnState,
		"zones":     zones,
	}})
}

// SyncBattlefield relays a zones update; the turn state piggybacks when
// present.
func (c *Coordinator) SyncBattlefield(senderID, code string, zones, turnState json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.resolve(senderID, code)
	if !ok {
		return
	}
	s.MergeSnapshot(session.Snapshot{Zones: zones, TurnState: turnState})
	c.pub.BroadcastExcept(code, senderID, hub.Event{Type: "battlefieldSync", Payload: map[string]interface{}{
		"zones":     zones,
		"turnState": turnState,
	}})
}

// SyncZoneDetail relays a zone-detail update; the turn state piggybacks
// when present.
func (c *Coordinator) SyncZoneDetail(senderID, code string, zoneDetail, turnState json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.resolve(senderID, code)
	if !ok {
		return
	}
	s.MergeSnapshot(session.Snapshot{ZoneDetail: zoneDetail, TurnState: turnState})
	c.pub.BroadcastExcept(code, senderID, hub.Event{Type: "zoneDetailSync", Payload: map[string]interface{}{
		"zoneDetail": zoneDetail,
		"turnState":  turnState,
	}})
}

// SyncTurn relays a turn change to the other member. Turn changes are
// forward-only; the full turn state arrives through SyncState.
func (c *Coordinator) SyncTurn(senderID, code string, currentPlayer, commandPoints json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.resolve(senderID, code); !ok {
		return
	}
	c.pub.BroadcastExcept(code, senderID, hub.Event{Type: "turnSync", Payload: map[string]interface{}{
		"currentPlayer": currentPlayer,
		"commandPoints": commandPoints,
	}})
}

// RequestBattlefieldState serves the cached snapshot to the requester,
// used for resync after a reconnect. Never-synced sessions report empty
// defaults.
func (c *Coordinator) RequestBattlefieldState(senderID, code string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.resolve(senderID, code)
	if !ok {
		return
	}
	snap := s.CachedSnapshot()
	c.pub.Send(code, senderID, hub.Event{Type: "battlefieldState", Payload: map[string]interface{}{
		"turnState":  snap.TurnState,
		"zones":      snap.Zones,
		"zoneDetail": snap.ZoneDetail,
	}})
}

// UpdatePlayerField stores a freeform per-player display field and
// relays it to the other member.
func (c *Coordinator) UpdatePlayerField(senderID, code, playerID, field string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.resolve(senderID, code)
	if !ok {
		return
	}
	s.SetPlayerField(playerID, field, value)
	c.pub.BroadcastExcept(code, senderID, hub.Event{Type: "playerFieldUpdate", Payload: map[string]interface{}{
		"playerId": playerID,
		"field":    field,
		"value":    value,
	}})
}
