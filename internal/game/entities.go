package game

import "time"

// Player is one of the ≤4 authoritative combatants.
type Player struct {
	PID          int
	Name         string
	X, Y         int
	Alive        bool
	Lives        int
	Disconnected bool
	Host         bool
}

// Bomb is a ticking, owned device sitting on an EMPTY map cell.
type Bomb struct {
	X, Y  int
	Timer int
	Owner int
}

// Explosion is the advisory (post-damage) visual record of a detonation.
type Explosion struct {
	Positions [][2]int
	Timer     int
}

// Spectator is a connected party that cannot move, bomb, or start games.
type Spectator struct {
	SID       int
	Name      string
	Connected bool
}

// ChatMessage is one entry in the bounded chat ring.
type ChatMessage struct {
	SenderID    int
	Text        string
	Timestamp   time.Time
	IsSystem    bool
	IsSpectator bool
}

// SystemSenderID is the sentinel sender id used for system chat messages.
const SystemSenderID = -1

// DrawWinnerID is the sentinel winner id used on a draw victory.
const DrawWinnerID = -1
