package game

import "testing"

func TestBuildSnapshotLobbyOmitsRoundFields(t *testing.T) {
	s := NewState()
	s.Admit("First")
	snap := s.BuildSnapshot()

	if snap.GameState != "lobby" {
		t.Fatalf("expected lobby game_state, got %q", snap.GameState)
	}
	if snap.CanStart == nil || snap.CanSpectatorJoin == nil {
		t.Fatal("expected lobby snapshot to populate can_start/can_spectator_join")
	}
	if snap.Map != nil || snap.Bombs != nil || snap.WinnerID != nil {
		t.Fatal("expected lobby snapshot to omit round-only fields")
	}
}

func TestBuildSnapshotPlayingIncludesMap(t *testing.T) {
	s := NewState()
	first, _ := s.Admit("First")
	s.Admit("Second")
	s.StartGame(first.PlayerID)

	snap := s.BuildSnapshot()
	if snap.GameState != "playing" {
		t.Fatalf("expected playing game_state, got %q", snap.GameState)
	}
	if snap.Map == nil {
		t.Fatal("expected playing snapshot to include the map")
	}
	if snap.CanStart != nil {
		t.Fatal("expected playing snapshot to omit can_start")
	}
}

func TestBuildSnapshotVictoryIncludesWinner(t *testing.T) {
	s := NewState()
	s.Phase = PhasePlaying
	s.Players[0] = &Player{PID: 0, Name: "A", Alive: true, Lives: 1}
	s.Players[1] = &Player{PID: 1, Name: "B", Alive: false}
	s.CheckVictory()

	snap := s.BuildSnapshot()
	if snap.GameState != "victory" {
		t.Fatalf("expected victory game_state, got %q", snap.GameState)
	}
	if snap.WinnerID == nil || *snap.WinnerID != 0 {
		t.Fatal("expected winner_id to be populated with pid 0")
	}
}

func TestBuildSnapshotPlayerKeyedByPID(t *testing.T) {
	s := NewState()
	s.Admit("First")
	snap := s.BuildSnapshot()

	view, ok := snap.Players["0"]
	if !ok {
		t.Fatal("expected players map keyed by string pid")
	}
	if view.Name != "First" {
		t.Fatalf("expected name First, got %q", view.Name)
	}
}
