package session

import "encoding/json"

// Player represents a participant in a session. The ID doubles as the
// player's logical id for gate flags and army selections; it lives and
// dies with the underlying connection.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Snapshot is the last known shared game state for a session. The server
// never interprets these payloads; it only caches and forwards them.
type Snapshot struct {
	TurnState  json.RawMessage `json:"turnState,omitempty"`
	Zones      json.RawMessage `json:"zones,omitempty"`
	ZoneDetail json.RawMessage `json:"zoneDetail,omitempty"`
}

// Session is a two-player pairing identified by a 6-digit code. All
// mutation happens under the owning registry's serialization, so the
// struct itself carries no locking.
type Session struct {
	code        string
	members     []*Player
	setupLocked bool

	gates           map[string]map[string]bool
	armySelections  map[string][]string
	selectionStatus map[string]bool
	snapshot        Snapshot
	playerSettings  map[string]map[string]interface{}
}

func newSession(code string) *Session {
	return &Session{
		code:            code,
		gates:           make(map[string]map[string]bool),
		armySelections:  make(map[string][]string),
		selectionStatus: make(map[string]bool),
		playerSettings:  make(map[string]map[string]interface{}),
	}
}

// Code returns the session's 6-digit code.
func (s *Session) Code() string {
	return s.code
}

// Players returns the current members in join order.
func (s *Session) Players() []*Player {
	out := make([]*Player, len(s.members))
	copy(out, s.members)
	return out
}

// MemberCount reports the number of current members.
func (s *Session) MemberCount() int {
	return len(s.members)
}

// IsMember reports whether the given player id belongs to this session.
func (s *Session) IsMember(playerID string) bool {
	for _, p := range s.members {
		if p.ID == playerID {
			return true
		}
	}
	return false
}

// Host returns the current host: the first-ordered member. When the
// original first joiner departs, the survivor inherits the host role.
func (s *Session) Host() *Player {
	if len(s.members) == 0 {
		return nil
	}
	return s.members[0]
}

// SetupLocked reports whether the session has entered game setup.
func (s *Session) SetupLocked() bool {
	return s.setupLocked
}

// LockSetup marks the session as having entered setup, which prevents
// the ready gate from scheduling another start notification.
func (s *Session) LockSetup() {
	s.setupLocked = true
}

// ResetForNewGame returns the session to the forming state: selections,
// selection statuses, the replicated snapshot and the ready, setup and
// victory gates are all cleared, so no stale vote from the previous
// game carries into the next. Membership and player settings survive.
func (s *Session) ResetForNewGame() {
	s.armySelections = make(map[string][]string)
	s.selectionStatus = make(map[string]bool)
	s.snapshot = Snapshot{}
	s.setupLocked = false
	s.ClearGate(GateReady)
	s.ClearGate(GateSetupReady)
	s.ClearGate(GateLegacyReady)
	s.ClearGate(GateVictory)
}

func (s *Session) addMember(p *Player) {
	s.members = append(s.members, p)
}

// removeMember removes the player by identity, preserving the order of
// the remaining members.
func (s *Session) removeMember(playerID string) bool {
	for i, p := range s.members {
		if p.ID == playerID {
			s.members = append(s.members[:i], s.members[i+1:]...)
			return true
		}
	}
	return false
}
