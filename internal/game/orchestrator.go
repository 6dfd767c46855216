package game

import (
	"fmt"

	"github.com/gridlock-games/bomberman-server/internal/config"
)

// AdmitError is returned when a proposed identity cannot be admitted.
type AdmitError struct {
	Kind    string
	Details string
}

func (e *AdmitError) Error() string { return e.Details }

// Admission error kinds (spec §6).
const (
	ErrNameTooShort    = "name_too_short"
	ErrNameTaken       = "name_taken"
	ErrInvalidRequest  = "invalid_request"
)

// AdmissionResult is the outcome of a successful Admit call.
type AdmissionResult struct {
	PlayerID    int
	IsSpectator bool
	Name        string
}

// Admit validates name and assigns a pid (LOBBY, slot free) or a spectator
// id (slots full, or phase is PLAYING/VICTORY) per spec §4.5. It never
// rejects for "room full" — spectator admission always succeeds once the
// name itself is valid.
func (s *State) Admit(name string) (*AdmissionResult, *AdmitError) {
	if len(name) < config.MinNameLength {
		return nil, &AdmitError{Kind: ErrNameTooShort, Details: fmt.Sprintf("Name '%s' is too short", name)}
	}
	if s.NameTaken(name) {
		return nil, &AdmitError{Kind: ErrNameTaken, Details: fmt.Sprintf("Name '%s' is already in use", name)}
	}

	if s.Phase == PhaseLobby {
		if pid, ok := s.FreePID(); ok {
			x, y := SpawnFor(pid)
			s.Players[pid] = &Player{PID: pid, Name: name, X: x, Y: y, Alive: true, Lives: config.StartingLives}
			s.electHost()
			s.Chat.AppendSystem(fmt.Sprintf("%s joined the lobby", name))
			return &AdmissionResult{PlayerID: pid, IsSpectator: false, Name: name}, nil
		}
	}

	sid := s.allocSID()
	s.Spectators[sid] = &Spectator{SID: sid, Name: name, Connected: true}
	s.Chat.AppendSystem(fmt.Sprintf("%s joined as spectator", name))
	return &AdmissionResult{PlayerID: sid, IsSpectator: true, Name: name}, nil
}

// ConvertSpectatorToPlayer converts a spectator to a player while in
// LOBBY, if a pid is free (spec §4.6).
func (s *State) ConvertSpectatorToPlayer(sid int) (newPID int, ok bool) {
	if s.Phase != PhaseLobby {
		return 0, false
	}
	sp, exists := s.Spectators[sid]
	if !exists {
		return 0, false
	}
	pid, free := s.FreePID()
	if !free {
		return 0, false
	}

	delete(s.Spectators, sid)
	x, y := SpawnFor(pid)
	s.Players[pid] = &Player{PID: pid, Name: sp.Name, X: x, Y: y, Alive: true, Lives: config.StartingLives}
	s.electHost()
	return pid, true
}

// RemoveSpectator deletes a spectator's entry (disconnect).
func (s *State) RemoveSpectator(sid int) {
	delete(s.Spectators, sid)
}

// HandlePlayerDisconnect applies the disconnect semantics of spec §4.8.
func (s *State) HandlePlayerDisconnect(pid int) {
	p := s.Players[pid]
	if p == nil {
		return
	}

	wasHost := p.Host
	if s.Phase == PhaseLobby {
		s.Chat.AppendSystem(fmt.Sprintf("%s left the lobby", p.Name))
		s.Players[pid] = nil
		if wasHost {
			s.electHost()
		}
		return
	}

	p.Disconnected = true
	p.Alive = false
	p.Lives = 0
	s.Chat.AppendSystem(fmt.Sprintf("%s disconnected", p.Name))
}

// electHost sets CurrentHostID to the minimum connected pid, or -1 if none
// are connected. Emits a system chat message on change.
func (s *State) electHost() {
	newHost := -1
	for i := 0; i < config.MaxPlayers; i++ {
		if s.Players[i] != nil {
			newHost = i
			break
		}
	}
	if newHost == s.CurrentHostID {
		return
	}
	for i := range s.Players {
		if s.Players[i] != nil {
			s.Players[i].Host = i == newHost
		}
	}
	s.CurrentHostID = newHost
	if newHost >= 0 {
		s.Chat.AppendSystem(fmt.Sprintf("%s is now the host", s.Players[newHost].Name))
	}
}

// StartGame transitions LOBBY -> PLAYING if requesterID is the host and at
// least two players are connected (spec §4.4).
func (s *State) StartGame(requesterID int) bool {
	if s.Phase != PhaseLobby || requesterID != s.CurrentHostID || requesterID < 0 {
		return false
	}
	if len(s.ConnectedPlayers()) < 2 {
		return false
	}

	s.Map = GenerateMap()
	s.Bombs = nil
	s.Explosions = nil
	s.BlockRegenTimer = config.BlockRegenMin
	for _, p := range s.Players {
		if p == nil {
			continue
		}
		x, y := SpawnFor(p.PID)
		p.X, p.Y = x, y
		p.Alive = true
		p.Lives = config.StartingLives
		p.Disconnected = false
	}
	s.Phase = PhasePlaying
	return true
}

// CheckVictory evaluates the PLAYING -> VICTORY transition of spec §4.4.
// Must be called after damage/disconnect resolution each tick.
func (s *State) CheckVictory() {
	if s.Phase != PhasePlaying {
		return
	}

	alive := s.AlivePlayers()
	switch len(alive) {
	case 1:
		s.enterVictory(alive[0].PID)
	case 0:
		if len(s.ConnectedPlayers()) > 0 {
			s.enterVictory(DrawWinnerID)
		}
	}
}

func (s *State) enterVictory(winnerID int) {
	s.Phase = PhaseVictory
	s.WinnerID = winnerID
	s.HasWinner = true
	s.VictoryTimer = config.VictoryTimerTicks
}

// TickVictory decrements the victory timer and returns to LOBBY at zero
// (spec §4.4/§4.12 step 1).
func (s *State) TickVictory() {
	if s.Phase != PhaseVictory {
		return
	}
	s.VictoryTimer--
	if s.VictoryTimer <= 0 {
		s.ReturnToLobby()
	}
}

// ReturnToLobby clears round state, purges disconnected players, and
// resets remaining players to a fresh lobby-ready state (spec §4.4).
func (s *State) ReturnToLobby() {
	s.Map = nil
	s.Bombs = nil
	s.Explosions = nil
	s.WinnerID = 0
	s.HasWinner = false
	s.VictoryTimer = 0
	s.BlockRegenTimer = config.BlockRegenMin

	for i, p := range s.Players {
		if p == nil {
			continue
		}
		if p.Disconnected {
			s.Players[i] = nil
			continue
		}
		p.Alive = true
		p.Lives = config.StartingLives
	}

	s.Phase = PhaseLobby
	s.electHost()
}

// Tick advances the simulation by one step, per spec §4.12:
//  1. In VICTORY, decrement the victory timer and fall through.
//  2. Outside PLAYING, steps 3-5 are skipped.
//  3. Bomb timers advance (detonating at zero).
//  4. Explosion timers advance (expiring at zero).
//  5. Victory is (re-)evaluated.
//  6. The block-regen timer advances.
func (s *State) Tick() {
	if s.Phase == PhaseVictory {
		s.TickVictory()
	}
	if s.Phase != PhasePlaying {
		return
	}

	s.TickBombsAndExplosions()
	s.CheckVictory()
	if s.Phase != PhasePlaying {
		return
	}
	s.TickBlockRegen()
}

// CanStart reports whether the lobby has enough connected players to
// start (spec §4.11).
func (s *State) CanStart() bool {
	return len(s.ConnectedPlayers()) >= 2
}

// CanSpectatorJoin reports whether a free pid exists for JOIN_GAME
// (spec §4.11).
func (s *State) CanSpectatorJoin() bool {
	_, ok := s.FreePID()
	return ok
}
