package session

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestAddArmy_RejectsDuplicates(t *testing.T) {
	_, s := twoPlayerSession(t)

	s.AddArmy("p1", "inf1")
	s.AddArmy("p1", "inf1")
	s.AddArmy("p1", "tank2")
	s.AddArmy("p1", "inf1")

	got := s.ProjectSelections().First
	want := []string{"inf1", "tank2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("selections = %v, want %v", got, want)
	}
}

func TestRemoveArmy_AbsentIDIsNoop(t *testing.T) {
	_, s := twoPlayerSession(t)
	s.AddArmy("p1", "inf1")

	s.RemoveArmy("p1", "tank2")
	if got := s.ProjectSelections().First; !reflect.DeepEqual(got, []string{"inf1"}) {
		t.Fatalf("selections = %v after removing absent id", got)
	}
}

func TestAddThenRemove_ClearsDerivedStatus(t *testing.T) {
	_, s := twoPlayerSession(t)

	s.AddArmy("p1", "inf1")
	if !s.ProjectSelectionStatus().First {
		t.Fatal("derived status false after add")
	}
	s.RemoveArmy("p1", "inf1")
	if got := s.ProjectSelections().First; len(got) != 0 {
		t.Fatalf("selections = %v, want empty", got)
	}
	if s.ProjectSelectionStatus().First {
		t.Fatal("derived status true with no selections")
	}
}

func TestSelections_KeepInsertionOrder(t *testing.T) {
	_, s := twoPlayerSession(t)
	for _, id := range []string{"c", "a", "b"} {
		s.AddArmy("p2", id)
	}
	if got := s.ProjectSelections().Second; !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Fatalf("selections = %v, want insertion order", got)
	}
}

func TestClearSelections_ResetsListsAndStatus(t *testing.T) {
	_, s := twoPlayerSession(t)
	s.AddArmy("p1", "inf1")
	s.SetSelectionStatus("p2", true)

	s.ClearSelections()
	status := s.ProjectSelectionStatus()
	if status.First || status.Second {
		t.Fatal("status survived clear")
	}
	if len(s.ProjectSelections().First) != 0 {
		t.Fatal("selections survived clear")
	}
}

func TestMergeSnapshot_LastWriterWinsPerField(t *testing.T) {
	_, s := twoPlayerSession(t)

	s.MergeSnapshot(Snapshot{TurnState: json.RawMessage(`{"turn":1}`), Zones: json.RawMessage(`["z1"]`)})
	s.MergeSnapshot(Snapshot{TurnState: json.RawMessage(`{"turn":2}`)})

	snap := s.CachedSnapshot()
	if string(snap.TurnState) != `{"turn":2}` {
		t.Fatalf("turnState = %s", snap.TurnState)
	}
	if string(snap.Zones) != `["z1"]` {
		t.Fatalf("zones overwritten by partial merge: %s", snap.Zones)
	}
	if snap.ZoneDetail != nil {
		t.Fatalf("zoneDetail = %s, want unset", snap.ZoneDetail)
	}
}

func TestCachedSnapshot_EmptyDefaults(t *testing.T) {
	_, s := twoPlayerSession(t)
	snap := s.CachedSnapshot()
	if snap.TurnState != nil || snap.Zones != nil || snap.ZoneDetail != nil {
		t.Fatalf("fresh session snapshot not empty: %+v", snap)
	}
}

func TestSetPlayerField_LastWriteWins(t *testing.T) {
	_, s := twoPlayerSession(t)
	s.SetPlayerField("p1", "color", "red")
	s.SetPlayerField("p1", "color", "blue")

	if got := s.PlayerFields("p1")["color"]; got != "blue" {
		t.Fatalf("color = %v", got)
	}
}

func TestResetForNewGame_ReturnsToForming(t *testing.T) {
	_, s := twoPlayerSession(t)
	s.AddArmy("p1", "inf1")
	s.SetFlag(GateReady, "p1", true)
	s.SetFlag(GateSetupReady, "p1", true)
	s.LockSetup()
	s.MergeSnapshot(Snapshot{Zones: json.RawMessage(`["z1"]`)})

	s.ResetForNewGame()

	if s.SetupLocked() {
		t.Fatal("setup lock survived reset")
	}
	if s.Flag(GateReady, "p1") || s.Flag(GateSetupReady, "p1") {
		t.Fatal("gate flags survived reset")
	}
	if len(s.ProjectSelections().First) != 0 {
		t.Fatal("selections survived reset")
	}
	if s.CachedSnapshot().Zones != nil {
		t.Fatal("snapshot survived reset")
	}
	if s.MemberCount() != 2 {
		t.Fatal("membership did not survive reset")
	}
}

func TestResetForNewGame_ClearsStaleVictoryAcceptance(t *testing.T) {
	_, s := twoPlayerSession(t)
	s.SetFlag(GateVictory, "p1", true)

	s.ResetForNewGame()

	if s.Flag(GateVictory, "p1") {
		t.Fatal("victory acceptance survived reset")
	}
	s.SetFlag(GateVictory, "p2", true)
	if s.GateSatisfied(GateVictory) {
		t.Fatal("stale acceptance pre-satisfied the next game's victory gate")
	}
}
