package game

import (
	"strings"

	"github.com/gridlock-games/bomberman-server/internal/config"
)

// Phase is the lobby/playing/victory FSM state.
type Phase int

const (
	PhaseLobby Phase = iota
	PhasePlaying
	PhaseVictory
)

func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhasePlaying:
		return "playing"
	case PhaseVictory:
		return "victory"
	}
	return "unknown"
}

// State is the single authoritative aggregate. It is owned exclusively by
// the tick driver (see internal/server) — nothing in this package takes a
// lock, by design: single-writer discipline lives one layer up.
type State struct {
	Phase Phase

	Map          [][]Tile
	Bombs        []*Bomb
	Explosions   []*Explosion
	Players      [config.MaxPlayers]*Player
	Spectators   map[int]*Spectator
	nextSID      int

	CurrentHostID int // -1 when no players are connected
	Chat          *ChatRing

	WinnerID      int // nil-equivalent is represented by HasWinner
	HasWinner     bool
	VictoryTimer  int
	BlockRegenTimer int
}

// NewState builds a fresh LOBBY-phase aggregate (empty map, no entities).
func NewState() *State {
	return &State{
		Phase:           PhaseLobby,
		Map:             nil,
		Spectators:      make(map[int]*Spectator),
		nextSID:         config.SpectatorIDBase,
		CurrentHostID:   -1,
		Chat:            NewChatRing(),
		BlockRegenTimer: config.BlockRegenMin,
	}
}

// ConnectedPlayers returns the players currently occupying a slot
// (non-nil), in pid order.
func (s *State) ConnectedPlayers() []*Player {
	var out []*Player
	for _, p := range s.Players {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// AlivePlayers returns connected, alive, non-disconnected players.
func (s *State) AlivePlayers() []*Player {
	var out []*Player
	for _, p := range s.Players {
		if p != nil && p.Alive && !p.Disconnected {
			out = append(out, p)
		}
	}
	return out
}

// FreePID returns the lowest-numbered unoccupied pid, if any.
func (s *State) FreePID() (int, bool) {
	for i := 0; i < config.MaxPlayers; i++ {
		if s.Players[i] == nil {
			return i, true
		}
	}
	return 0, false
}

// allocSID returns the next monotonically increasing spectator id.
func (s *State) allocSID() int {
	sid := s.nextSID
	s.nextSID++
	return sid
}

// PlayerAt returns the alive, connected player occupying (x,y), if any.
func (s *State) PlayerAt(x, y int) *Player {
	for _, p := range s.Players {
		if p != nil && p.Alive && !p.Disconnected && p.X == x && p.Y == y {
			return p
		}
	}
	return nil
}

// BombAt returns the bomb at (x,y), if any.
func (s *State) BombAt(x, y int) *Bomb {
	for _, b := range s.Bombs {
		if b.X == x && b.Y == y {
			return b
		}
	}
	return nil
}

// NameTaken reports whether name (case-insensitively) belongs to any
// currently-connected player or spectator.
func (s *State) NameTaken(name string) bool {
	lower := strings.ToLower(name)
	for _, p := range s.Players {
		if p != nil && strings.ToLower(p.Name) == lower {
			return true
		}
	}
	for _, sp := range s.Spectators {
		if sp.Connected && strings.ToLower(sp.Name) == lower {
			return true
		}
	}
	return false
}
