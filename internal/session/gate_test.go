package session

import "testing"

func twoPlayerSession(t *testing.T) (*Registry, *Session) {
	t.Helper()
	r := NewRegistry()
	s := r.Create(&Player{ID: "p1", Name: "Alice"})
	if _, err := r.Join(s.Code(), &Player{ID: "p2", Name: "Bob"}); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	return r, s
}

func TestGateSatisfied_RequiresEveryCurrentMember(t *testing.T) {
	_, s := twoPlayerSession(t)

	if s.GateSatisfied(GateReady) {
		t.Fatal("empty gate reported satisfied")
	}
	s.SetFlag(GateReady, "p1", true)
	if s.GateSatisfied(GateReady) {
		t.Fatal("half-voted gate reported satisfied")
	}
	s.SetFlag(GateReady, "p2", true)
	if !s.GateSatisfied(GateReady) {
		t.Fatal("fully-voted gate reported pending")
	}
}

func TestGateSatisfied_DepartureCanSatisfyWithoutFlagChange(t *testing.T) {
	r, s := twoPlayerSession(t)

	s.SetFlag(GateVictory, "p1", true)
	s.SetFlag(GateVictory, "p2", false)
	if s.GateSatisfied(GateVictory) {
		t.Fatal("gate satisfied with a dissenting member")
	}

	// The dissenter leaves; only current members count, but the full
	// party requirement now fails for non-legacy gates.
	r.Remove("p2")
	if s.GateSatisfied(GateVictory) {
		t.Fatal("two-party gate satisfied with one member")
	}

	// The legacy gate tolerates a single member, so the same departure
	// flips it to satisfied without any flag write.
	r2, s2 := twoPlayerSession(t)
	s2.SetFlag(GateLegacyReady, "p1", true)
	s2.SetFlag(GateLegacyReady, "p2", false)
	if s2.GateSatisfied(GateLegacyReady) {
		t.Fatal("legacy gate satisfied with a dissenting member")
	}
	r2.Remove("p2")
	if !s2.GateSatisfied(GateLegacyReady) {
		t.Fatal("legacy gate still pending after the dissenter left")
	}
}

func TestGateSatisfied_SoloMemberOnNormalGate(t *testing.T) {
	r := NewRegistry()
	s := r.Create(&Player{ID: "p1"})
	s.SetFlag(GateReady, "p1", true)

	if s.GateSatisfied(GateReady) {
		t.Fatal("ready gate satisfied without a full party")
	}
	if !s.GateSatisfied(GateLegacyReady) {
		t.Fatal("legacy gate rejected a solo member")
	}
}

func TestClearGate_ResetsFlags(t *testing.T) {
	_, s := twoPlayerSession(t)
	s.SetFlag(GateNewGame, "p1", true)
	s.SetFlag(GateNewGame, "p2", true)

	s.ClearGate(GateNewGame)
	if s.Flag(GateNewGame, "p1") || s.Flag(GateNewGame, "p2") {
		t.Fatal("cleared gate still holds flags")
	}
	if s.GateSatisfied(GateNewGame) {
		t.Fatal("cleared gate reported satisfied")
	}
}

func TestDepartedPlayerFlagIsIgnored(t *testing.T) {
	r, s := twoPlayerSession(t)
	s.SetFlag(GateSetupReady, "p1", true)
	s.SetFlag(GateSetupReady, "p2", true)
	r.Remove("p1")

	// p1's stale flag neither blocks nor is required; the survivor's
	// own vote decides, subject to the party requirement.
	if s.GateSatisfied(GateSetupReady) {
		t.Fatal("two-party gate satisfied after losing a member")
	}
	if _, err := r.Join(s.Code(), &Player{ID: "p3", Name: "Carol"}); err != nil {
		t.Fatalf("rejoin failed: %v", err)
	}
	if s.GateSatisfied(GateSetupReady) {
		t.Fatal("gate satisfied before the new member voted")
	}
	s.SetFlag(GateSetupReady, "p3", true)
	if !s.GateSatisfied(GateSetupReady) {
		t.Fatal("gate pending with every current member agreed")
	}
}
