package game

import (
	"strconv"

	"github.com/gridlock-games/bomberman-server/internal/config"
)

// PlayerView is the public (wire) projection of a Player.
type PlayerView struct {
	PlayerID     int    `json:"player_id"`
	Name         string `json:"name"`
	X            int    `json:"x"`
	Y            int    `json:"y"`
	Alive        bool   `json:"alive"`
	Lives        int    `json:"lives"`
	Disconnected bool   `json:"disconnected"`
	Host         bool   `json:"host"`
}

// SpectatorView is the public projection of a Spectator.
type SpectatorView struct {
	SpectatorID int    `json:"spectator_id"`
	Name        string `json:"name"`
}

// ChatMessageView is the public projection of a ChatMessage.
type ChatMessageView struct {
	SenderID    int   `json:"sender_id"`
	Text        string `json:"text"`
	Timestamp   int64  `json:"timestamp"`
	IsSystem    bool   `json:"is_system"`
	IsSpectator bool   `json:"is_spectator"`
}

// BombView is the public projection of a Bomb.
type BombView struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Timer int `json:"timer"`
	Owner int `json:"owner"`
}

// ExplosionView is the public projection of an Explosion.
type ExplosionView struct {
	Positions [][2]int `json:"positions"`
	Timer     int      `json:"timer"`
}

// Snapshot is the per-tick document emitted to every connection (spec
// §4.11). Fields are populated according to the current Phase; fields
// that don't apply to the phase are left zero and omitted on the wire.
type Snapshot struct {
	GameState     string                    `json:"game_state"`
	Players       map[string]PlayerView     `json:"players"`
	Spectators    map[string]SpectatorView  `json:"spectators"`
	ChatMessages  []ChatMessageView         `json:"chat_messages"`
	CurrentHostID int                       `json:"current_host_id"`

	CanStart          *bool `json:"can_start,omitempty"`
	CanSpectatorJoin  *bool `json:"can_spectator_join,omitempty"`

	Map        [][]int         `json:"map,omitempty"`
	Bombs      *[]BombView      `json:"bombs,omitempty"`
	Explosions *[]ExplosionView `json:"explosions,omitempty"`

	WinnerID     *int `json:"winner_id,omitempty"`
	VictoryTimer *int `json:"victory_timer,omitempty"`
}

// BuildSnapshot serializes State into the phase-tailored Snapshot
// document defined by spec §4.11.
func (s *State) BuildSnapshot() *Snapshot {
	snap := &Snapshot{
		GameState:     s.Phase.String(),
		Players:       make(map[string]PlayerView, config.MaxPlayers),
		Spectators:    make(map[string]SpectatorView, len(s.Spectators)),
		ChatMessages:  make([]ChatMessageView, 0, len(s.Chat.Messages())),
		CurrentHostID: s.CurrentHostID,
	}

	for i, p := range s.Players {
		if p == nil {
			continue
		}
		snap.Players[strconv.Itoa(i)] = PlayerView{
			PlayerID:     p.PID,
			Name:         p.Name,
			X:            p.X,
			Y:            p.Y,
			Alive:        p.Alive,
			Lives:        p.Lives,
			Disconnected: p.Disconnected,
			Host:         p.Host,
		}
	}

	for sid, sp := range s.Spectators {
		if !sp.Connected {
			continue
		}
		snap.Spectators[strconv.Itoa(sid)] = SpectatorView{SpectatorID: sid, Name: sp.Name}
	}

	for _, m := range s.Chat.Messages() {
		snap.ChatMessages = append(snap.ChatMessages, ChatMessageView{
			SenderID:    m.SenderID,
			Text:        m.Text,
			Timestamp:   m.Timestamp.Unix(),
			IsSystem:    m.IsSystem,
			IsSpectator: m.IsSpectator,
		})
	}

	switch s.Phase {
	case PhaseLobby:
		canStart := s.CanStart()
		canJoin := s.CanSpectatorJoin()
		snap.CanStart = &canStart
		snap.CanSpectatorJoin = &canJoin

	case PhasePlaying:
		snap.Map = tileGridToInts(s.Map)
		bombs := make([]BombView, 0, len(s.Bombs))
		for _, b := range s.Bombs {
			bombs = append(bombs, BombView{X: b.X, Y: b.Y, Timer: b.Timer, Owner: b.Owner})
		}
		snap.Bombs = &bombs
		explosions := make([]ExplosionView, 0, len(s.Explosions))
		for _, e := range s.Explosions {
			explosions = append(explosions, ExplosionView{Positions: e.Positions, Timer: e.Timer})
		}
		snap.Explosions = &explosions

	case PhaseVictory:
		winner := s.WinnerID
		timer := s.VictoryTimer
		snap.WinnerID = &winner
		snap.VictoryTimer = &timer
	}

	return snap
}

func tileGridToInts(grid [][]Tile) [][]int {
	out := make([][]int, len(grid))
	for y, row := range grid {
		out[y] = make([]int, len(row))
		for x, t := range row {
			out[y][x] = int(t)
		}
	}
	return out
}
