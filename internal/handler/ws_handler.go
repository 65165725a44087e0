package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"skirmish/backend/internal/game"
	"skirmish/backend/internal/hub"
	"skirmish/backend/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// wsMsg is the envelope every client message arrives in.
type wsMsg struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// region --- payload DTOs ---

type createSessionPayload struct {
	DisplayName string `json:"displayName"`
}

type joinSessionPayload struct {
	Code        string `json:"code"`
	DisplayName string `json:"displayName"`
}

type readyPayload struct {
	Ready bool `json:"ready"`
}

type codePayload struct {
	Code string `json:"code"`
}

type armySelectionPayload struct {
	Code     string `json:"code"`
	PlayerID string `json:"playerId"`
	ArmyID   string `json:"armyId"`
	Action   string `json:"action"`
}

type selectionStatusPayload struct {
	Code     string `json:"code"`
	PlayerID string `json:"playerId"`
	Selected bool   `json:"selected"`
}

type playerReadyPayload struct {
	Code     string `json:"code"`
	PlayerID string `json:"playerId"`
	Ready    bool   `json:"ready"`
}

type startGamePayload struct {
	Code       string          `json:"code"`
	GameConfig json.RawMessage `json:"gameConfig"`
}

type syncStatePayload struct {
	Code      string          `json:"code"`
	TurnState json.RawMessage `json:"turnState"`
	Zones     json.RawMessage `json:"zones"`
}

type syncBattlefieldPayload struct {
	Code      string          `json:"code"`
	Zones     json.RawMessage `json:"zones"`
	TurnState json.RawMessage `json:"turnState"`
}

type syncZoneDetailPayload struct {
	Code       string          `json:"code"`
	ZoneDetail json.RawMessage `json:"zoneDetail"`
	TurnState  json.RawMessage `json:"turnState"`
}

type syncTurnPayload struct {
	Code          string          `json:"code"`
	CurrentPlayer json.RawMessage `json:"currentPlayer"`
	CommandPoints json.RawMessage `json:"commandPoints"`
}

type surrenderPayload struct {
	Code             string          `json:"code"`
	SurrenderingSlot int             `json:"surrenderingSlot"`
	TurnState        json.RawMessage `json:"turnState"`
}

type victoryAcceptancePayload struct {
	Code     string `json:"code"`
	PlayerID string `json:"playerId"`
	Accepted bool   `json:"accepted"`
}

type declareVictoryPayload struct {
	Code         string          `json:"code"`
	WinnerSlot   int             `json:"winnerSlot"`
	WinnerName   string          `json:"winnerName"`
	EndCondition string          `json:"endCondition"`
	TurnState    json.RawMessage `json:"turnState"`
	Zones        json.RawMessage `json:"zones"`
}

type playerFieldPayload struct {
	Code     string      `json:"code"`
	PlayerID string      `json:"playerId"`
	Field    string      `json:"field"`
	Value    interface{} `json:"value"`
}

// endregion

// WSHandler upgrades connections and bridges the websocket wire format
// to the coordinator.
type WSHandler struct {
	coordinator  *game.Coordinator
	clientBuffer int
}

// NewWSHandler creates the websocket handler.
func NewWSHandler(coordinator *game.Coordinator, clientBuffer int) *WSHandler {
	return &WSHandler{coordinator: coordinator, clientBuffer: clientBuffer}
}

// Serve handles GET /ws. Each connection gets a fresh uuid as its
// connection handle, which doubles as the player id for the lifetime of
// the connection.
func (h *WSHandler) Serve(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws: upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	playerID := uuid.NewString()
	client := make(hub.Client, h.clientBuffer)

	done := make(chan struct{})
	go writePump(conn, client, done)
	defer close(done)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			h.coordinator.Disconnect(playerID)
			return
		}
		var msg wsMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			// Malformed messages degrade to no-ops.
			continue
		}
		h.dispatch(playerID, client, msg)
	}
}

// writePump drains the client channel onto the websocket until the read
// loop ends. Undelivered events are simply dropped.
func writePump(conn *websocket.Conn, client hub.Client, done <-chan struct{}) {
	for {
		select {
		case data := <-client:
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (h *WSHandler) dispatch(playerID string, client hub.Client, msg wsMsg) {
	switch msg.Type {
	case "createSession":
		var p createSessionPayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		h.coordinator.CreateSession(playerID, p.DisplayName, client)

	case "joinSession":
		var p joinSessionPayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		if err := h.coordinator.JoinSession(playerID, p.DisplayName, p.Code, client); err != nil {
			sendDirect(client, hub.Event{Type: "joinError", Payload: map[string]interface{}{
				"reason": joinErrorReason(err),
			}})
		}

	case "setReady":
		var p readyPayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		h.coordinator.SetReady(playerID, p.Ready)

	case "updateArmySelection":
		var p armySelectionPayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		h.coordinator.UpdateArmySelection(playerID, p.Code, p.PlayerID, p.ArmyID, p.Action)

	case "setArmySelectionStatus":
		var p selectionStatusPayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		h.coordinator.SetArmySelectionStatus(playerID, p.Code, p.PlayerID, p.Selected)

	case "enterSetup":
		var p codePayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		h.coordinator.EnterSetup(playerID, p.Code)

	case "setSetupReady":
		var p playerReadyPayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		h.coordinator.SetSetupReady(playerID, p.Code, p.PlayerID, p.Ready)

	case "requestSetupReadyStatus":
		var p codePayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		h.coordinator.RequestSetupReadyStatus(playerID, p.Code)

	case "setLegacyReady":
		var p playerReadyPayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		h.coordinator.SetLegacyReady(playerID, p.Code, p.PlayerID, p.Ready)

	case "requestLegacyReadyStatus":
		var p codePayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		h.coordinator.RequestLegacyReadyStatus(playerID, p.Code)

	case "startGame":
		var p startGamePayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		h.coordinator.StartGame(playerID, p.Code, p.GameConfig)

	case "syncState":
		var p syncStatePayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		h.coordinator.SyncState(playerID, p.Code, p.TurnState, p.Zones)

	case "syncBattlefield":
		var p syncBattlefieldPayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		h.coordinator.SyncBattlefield(playerID, p.Code, p.Zones, p.TurnState)

	case "syncZoneDetail":
		var p syncZoneDetailPayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		h.coordinator.SyncZoneDetail(playerID, p.Code, p.ZoneDetail, p.TurnState)

	case "syncTurn":
		var p syncTurnPayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		h.coordinator.SyncTurn(playerID, p.Code, p.CurrentPlayer, p.CommandPoints)

	case "requestBattlefieldState":
		var p codePayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		h.coordinator.RequestBattlefieldState(playerID, p.Code)

	case "surrender":
		var p surrenderPayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		h.coordinator.Surrender(playerID, p.Code, p.SurrenderingSlot, p.TurnState)

	case "requestVictoryAcceptance":
		var p codePayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		h.coordinator.RequestVictoryAcceptance(playerID, p.Code)

	case "setVictoryAcceptance":
		var p victoryAcceptancePayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		h.coordinator.SetVictoryAcceptance(playerID, p.Code, p.PlayerID, p.Accepted)

	case "declareVictory":
		var p declareVictoryPayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		h.coordinator.DeclareVictory(playerID, p.Code, p.WinnerSlot, p.WinnerName, p.EndCondition, p.TurnState, p.Zones)

	case "requestNewGame":
		var p codePayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		h.coordinator.RequestNewGame(playerID, p.Code)

	case "updatePlayerField":
		var p playerFieldPayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		h.coordinator.UpdatePlayerField(playerID, p.Code, p.PlayerID, p.Field, p.Value)

	case "leaveSession":
		var p codePayload
		_ = json.Unmarshal(msg.Payload, &p)
		h.coordinator.Leave(playerID, p.Code)
	}
}

// sendDirect pushes an event onto the connection's own channel, used
// for responses to a connection that is not in a session yet.
func sendDirect(client hub.Client, event hub.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	select {
	case client <- data:
	default:
	}
}

func joinErrorReason(err error) string {
	switch {
	case errors.Is(err, session.ErrFull):
		return "Full"
	default:
		return "NotFound"
	}
}
