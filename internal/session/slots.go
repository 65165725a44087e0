package session

// Slot is the canonical first/second identity derived from join order.
// It is recomputed from the current member order every time it is
// needed, never fixed at join time.
type Slot int

const (
	SlotUnassigned Slot = iota
	SlotFirst
	SlotSecond
)

// FlagPair is a per-player boolean keyed structure projected into the
// two-slot shape clients consume.
type FlagPair struct {
	First  bool `json:"first"`
	Second bool `json:"second"`
}

// ListPair is a per-player list keyed structure projected into the
// two-slot shape.
type ListPair struct {
	First  []string `json:"first"`
	Second []string `json:"second"`
}

// SlotOf maps a player id onto its slot in the current member order.
func (s *Session) SlotOf(playerID string) Slot {
	if len(s.members) > 0 && s.members[0].ID == playerID {
		return SlotFirst
	}
	if len(s.members) > 1 && s.members[1].ID == playerID {
		return SlotSecond
	}
	return SlotUnassigned
}

// ProjectFlags converts the named gate's flags into the two-slot shape.
// Absent flags default to false.
func (s *Session) ProjectFlags(gate string) FlagPair {
	var pair FlagPair
	if len(s.members) > 0 {
		pair.First = s.gates[gate][s.members[0].ID]
	}
	if len(s.members) > 1 {
		pair.Second = s.gates[gate][s.members[1].ID]
	}
	return pair
}

// ProjectSelections converts the army-selection lists into the two-slot
// shape. Absent lists default to empty, not nil, so clients always see
// an array.
func (s *Session) ProjectSelections() ListPair {
	pair := ListPair{First: []string{}, Second: []string{}}
	if len(s.members) > 0 {
		pair.First = append(pair.First, s.armySelections[s.members[0].ID]...)
	}
	if len(s.members) > 1 {
		pair.Second = append(pair.Second, s.armySelections[s.members[1].ID]...)
	}
	return pair
}

// ProjectSelectionStatus converts the per-player selection status map
// into the two-slot shape.
func (s *Session) ProjectSelectionStatus() FlagPair {
	var pair FlagPair
	if len(s.members) > 0 {
		pair.First = s.selectionStatus[s.members[0].ID]
	}
	if len(s.members) > 1 {
		pair.Second = s.selectionStatus[s.members[1].ID]
	}
	return pair
}
