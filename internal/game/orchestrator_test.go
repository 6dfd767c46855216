package game

import (
	"testing"

	"github.com/gridlock-games/bomberman-server/internal/config"
)

func TestAdmitFillsPlayerSlotsBeforeSpectating(t *testing.T) {
	s := NewState()
	for i := 0; i < config.MaxPlayers; i++ {
		res, err := s.Admit("Player" + string(rune('A'+i)))
		if err != nil {
			t.Fatalf("unexpected admission error: %v", err)
		}
		if res.IsSpectator {
			t.Fatalf("expected slot %d to admit as a player", i)
		}
	}

	res, err := s.Admit("Overflow")
	if err != nil {
		t.Fatalf("unexpected admission error: %v", err)
	}
	if !res.IsSpectator {
		t.Fatal("expected the fifth admission to become a spectator")
	}
}

func TestAdmitRejectsShortName(t *testing.T) {
	s := NewState()
	_, err := s.Admit("a")
	if err == nil || err.Kind != ErrNameTooShort {
		t.Fatalf("expected ErrNameTooShort, got %v", err)
	}
}

func TestAdmitRejectsDuplicateNameCaseInsensitive(t *testing.T) {
	s := NewState()
	if _, err := s.Admit("Bomber"); err != nil {
		t.Fatalf("unexpected error on first admission: %v", err)
	}
	_, err := s.Admit("bomber")
	if err == nil || err.Kind != ErrNameTaken {
		t.Fatalf("expected ErrNameTaken, got %v", err)
	}
}

func TestElectHostPicksLowestConnectedPID(t *testing.T) {
	s := NewState()
	s.Admit("First")
	if s.CurrentHostID != 0 {
		t.Fatalf("expected pid 0 to become host, got %d", s.CurrentHostID)
	}
	s.HandlePlayerDisconnect(0)
	if s.CurrentHostID != -1 {
		t.Fatalf("expected no host once the only player leaves, got %d", s.CurrentHostID)
	}
}

func TestStartGameRequiresHostAndTwoPlayers(t *testing.T) {
	s := NewState()
	res, _ := s.Admit("First")
	if s.StartGame(res.PlayerID) {
		t.Fatal("expected start to fail with only one player")
	}

	s.Admit("Second")
	if !s.StartGame(res.PlayerID) {
		t.Fatal("expected host to start the game with two players present")
	}
	if s.Phase != PhasePlaying {
		t.Fatalf("expected PLAYING phase, got %v", s.Phase)
	}
	if s.Map == nil {
		t.Fatal("expected StartGame to generate a map")
	}
}

func TestStartGameRejectsNonHostRequester(t *testing.T) {
	s := NewState()
	s.Admit("First")
	second, _ := s.Admit("Second")
	if s.StartGame(second.PlayerID) {
		t.Fatal("expected a non-host start request to be rejected")
	}
}

func TestConvertSpectatorToPlayerRequiresFreePID(t *testing.T) {
	s := NewState()
	for i := 0; i < config.MaxPlayers; i++ {
		s.Admit("P" + string(rune('A'+i)))
	}
	spec, _ := s.Admit("Watcher")
	if !spec.IsSpectator {
		t.Fatal("expected a fifth admission to be a spectator")
	}

	if _, ok := s.ConvertSpectatorToPlayer(spec.PlayerID); ok {
		t.Fatal("expected conversion to fail while no pid is free")
	}

	s.HandlePlayerDisconnect(0)
	pid, ok := s.ConvertSpectatorToPlayer(spec.PlayerID)
	if !ok || pid != 0 {
		t.Fatalf("expected conversion into the freed pid 0, got %d, %v", pid, ok)
	}
}

func TestCheckVictoryLastPlayerStanding(t *testing.T) {
	s := NewState()
	s.Phase = PhasePlaying
	s.Players[0] = &Player{PID: 0, Name: "A", Alive: true, Lives: 1}
	s.Players[1] = &Player{PID: 1, Name: "B", Alive: false, Lives: 0}

	s.CheckVictory()

	if s.Phase != PhaseVictory {
		t.Fatalf("expected VICTORY phase, got %v", s.Phase)
	}
	if !s.HasWinner || s.WinnerID != 0 {
		t.Fatalf("expected pid 0 to win, got winner=%d hasWinner=%v", s.WinnerID, s.HasWinner)
	}
}

func TestCheckVictoryDrawWhenAllEliminated(t *testing.T) {
	s := NewState()
	s.Phase = PhasePlaying
	s.Players[0] = &Player{PID: 0, Name: "A", Alive: false, Lives: 0}
	s.Players[1] = &Player{PID: 1, Name: "B", Alive: false, Lives: 0}

	s.CheckVictory()

	if s.Phase != PhaseVictory || s.WinnerID != DrawWinnerID {
		t.Fatalf("expected draw victory, got phase=%v winner=%d", s.Phase, s.WinnerID)
	}
}

func TestTickVictoryReturnsToLobbyAtZero(t *testing.T) {
	s := NewState()
	s.Phase = PhasePlaying
	s.Players[0] = &Player{PID: 0, Name: "A", Alive: true, Lives: 1}
	s.CheckVictory()
	s.VictoryTimer = 1

	s.TickVictory()

	if s.Phase != PhaseLobby {
		t.Fatalf("expected LOBBY after victory timer expires, got %v", s.Phase)
	}
}

func TestReturnToLobbyPurgesDisconnectedPlayers(t *testing.T) {
	s := NewState()
	s.Phase = PhasePlaying
	s.Players[0] = &Player{PID: 0, Name: "A", Alive: true, Lives: 1}
	s.Players[1] = &Player{PID: 1, Name: "B", Disconnected: true}

	s.ReturnToLobby()

	if s.Players[1] != nil {
		t.Fatal("expected a disconnected player to be purged on return to lobby")
	}
	if s.Players[0] == nil || !s.Players[0].Alive {
		t.Fatal("expected a connected player to be reset alive")
	}
}

func TestHandlePlayerDisconnectIdempotent(t *testing.T) {
	s := NewState()
	s.Admit("First")
	s.HandlePlayerDisconnect(0)
	s.HandlePlayerDisconnect(0)
}
