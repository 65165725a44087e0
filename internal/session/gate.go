package session

// Gate names. Each is an independent two-party agreement primitive on
// the session: a named map of per-player boolean flags that is
// satisfied once every current member has voted true.
const (
	GateReady       = "ready"
	GateSetupReady  = "setupReady"
	GateLegacyReady = "legacyReady"
	GateVictory     = "victory"
	GateNewGame     = "newGame"
)

// SetFlag upserts a player's flag on the named gate.
func (s *Session) SetFlag(gate, playerID string, value bool) {
	flags, ok := s.gates[gate]
	if !ok {
		flags = make(map[string]bool)
		s.gates[gate] = flags
	}
	flags[playerID] = value
}

// Flag reads a player's flag on the named gate; missing flags are false.
func (s *Session) Flag(gate, playerID string) bool {
	return s.gates[gate][playerID]
}

// GateSatisfied reports whether every current member has a true flag on
// the named gate. Only current members count: a departed player's stale
// flag never blocks (or is required for) agreement, so removing a
// member whose flag was false can flip a gate to satisfied without any
// flag changing. Gates other than the legacy ready gate also require
// the full two-player party to be present.
func (s *Session) GateSatisfied(gate string) bool {
	if len(s.members) == 0 {
		return false
	}
	if gate != GateLegacyReady && len(s.members) != MaxMembers {
		return false
	}
	for _, p := range s.members {
		if !s.gates[gate][p.ID] {
			return false
		}
	}
	return true
}

// ClearGate resets all flags on the named gate. One-shot gates clear
// themselves through this when they fire.
func (s *Session) ClearGate(gate string) {
	delete(s.gates, gate)
}
