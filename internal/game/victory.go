package game

import (
	"encoding/json"
	"log"

	"skirmish/backend/internal/hub"
	"skirmish/backend/internal/session"
)

// Surrender announces a surrender to both members and folds the final
// turn state into the snapshot so a later resync is coherent.
func (c *Coordinator) Surrender(senderID, code string, surrenderingSlot int, turnState json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.resolve(senderID, code)
	if !ok {
		return
	}
	s.MergeSnapshot(session.Snapshot{TurnState: turnState})
	c.pub.Broadcast(code, hub.Event{Type: "surrenderUpdate", Payload: map[string]interface{}{
		"surrenderingSlot": surrenderingSlot,
		"turnState":        turnState,
	}})
}

// RequestVictoryAcceptance serves the current acceptance flags to the
// requester only.
func (c *Coordinator) RequestVictoryAcceptance(senderID, code string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.resolve(senderID, code)
	if !ok {
		return
	}
	c.pub.Send(code, senderID, hub.Event{Type: "victoryAcceptanceStatus", Payload: s.ProjectFlags(session.GateVictory)})
}

// SetVictoryAcceptance flips a player's flag on the victory-acceptance
// gate. When both accept, an all-accepted event goes out and the gate
// clears, so later status queries report empty again.
func (c *Coordinator) SetVictoryAcceptance(senderID, code, playerID string, accepted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.resolve(senderID, code)
	if !ok {
		return
	}
	s.SetFlag(session.GateVictory, playerID, accepted)
	c.pub.Broadcast(code, hub.Event{Type: "victoryAcceptanceUpdate", Payload: s.ProjectFlags(session.GateVictory)})
	if s.GateSatisfied(session.GateVictory) {
		s.ClearGate(session.GateVictory)
		log.Printf("session %s: victory accepted by both players", code)
		c.pub.Broadcast(code, hub.Event{Type: "victoryAccepted", Payload: map[string]interface{}{
			"code": code,
		}})
	}
}

// DeclareVictory announces the game result to both members and caches
// the final state.
func (c *Coordinator) DeclareVictory(senderID, code string, winnerSlot int, winnerName, endCondition string, turnState, zones json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.resolve(senderID, code)
	if !ok {
		return
	}
	s.MergeSnapshot(session.Snapshot{TurnState: turnState, Zones: zones})
	log.Printf("session %s: victory declared for %s (%s)", code, winnerName, endCondition)
	c.pub.Broadcast(code, hub.Event{Type: "victoryDeclared", Payload: map[string]interface{}{
		"winnerSlot":   winnerSlot,
		"winnerName":   winnerName,
		"endCondition": endCondition,
		"turnState":    turnState,
		"zones":        zones,
	}})
}

// RequestNewGame flags the caller on the new-game gate. Once both
// members request it, the session resets to the forming state and both
// are told to begin again.
func (c *Coordinator) RequestNewGame(senderID, code string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.resolve(senderID, code)
	if !ok {
		return
	}
	s.SetFlag(session.GateNewGame, senderID, true)
	c.pub.Broadcast(code, hub.Event{Type: "newGameRequestUpdate", Payload: s.ProjectFlags(session.GateNewGame)})
	if s.GateSatisfied(session.GateNewGame) {
		s.ClearGate(session.GateNewGame)
		s.ResetForNewGame()
		log.Printf("session %s: reset for new game", code)
		c.pub.Broadcast(code, hub.Event{Type: "newGameStart", Payload: map[string]interface{}{
			"code":    code,
			"players": s.Players(),
		}})
	}
}
