package session

// AddArmy appends an army id to a player's selection list if it is not
// already present. Duplicates are rejected as a no-op. The derived
// selection status for the player is refreshed either way.
func (s *Session) AddArmy(playerID, armyID string) {
	list := s.armySelections[playerID]
	for _, id := range list {
		if id == armyID {
			return
		}
	}
	s.armySelections[playerID] = append(list, armyID)
	s.selectionStatus[playerID] = true
}

// RemoveArmy deletes the first occurrence of an army id from a player's
// selection list; removing an absent id is a no-op.
func (s *Session) RemoveArmy(playerID, armyID string) {
	list := s.armySelections[playerID]
	for i, id := range list {
		if id == armyID {
			s.armySelections[playerID] = append(list[:i], list[i+1:]...)
			s.selectionStatus[playerID] = len(s.armySelections[playerID]) > 0
			return
		}
	}
}

// SetSelectionStatus records a player's explicit army-selection-complete
// flag, overriding the derived one.
func (s *Session) SetSelectionStatus(playerID string, selected bool) {
	s.selectionStatus[playerID] = selected
}

// ClearSelections resets the army selections and the selection status
// map for the whole session.
func (s *Session) ClearSelections() {
	s.armySelections = make(map[string][]string)
	s.selectionStatus = make(map[string]bool)
}

// MergeSnapshot folds the provided fields into the replicated snapshot,
// last writer wins per field. Unset fields leave the cached value
// untouched.
func (s *Session) MergeSnapshot(partial Snapshot) {
	if partial.TurnState != nil {
		s.snapshot.TurnState = partial.TurnState
	}
	if partial.Zones != nil {
		s.snapshot.Zones = partial.Zones
	}
	if partial.ZoneDetail != nil {
		s.snapshot.ZoneDetail = partial.ZoneDetail
	}
}

// CachedSnapshot returns the current replicated snapshot without
// mutating it; a session that never synced reports empty defaults.
func (s *Session) CachedSnapshot() Snapshot {
	return s.snapshot
}

// SetPlayerField stores a freeform per-player display field, last write
// wins.
func (s *Session) SetPlayerField(playerID, field string, value interface{}) {
	fields, ok := s.playerSettings[playerID]
	if !ok {
		fields = make(map[string]interface{})
		s.playerSettings[playerID] = fields
	}
	fields[field] = value
}

// PlayerFields returns a player's stored display fields; never nil.
func (s *Session) PlayerFields(playerID string) map[string]interface{} {
	out := make(map[string]interface{}, len(s.playerSettings[playerID]))
	for k, v := range s.playerSettings[playerID] {
		out[k] = v
	}
	return out
}
