package game

import (
	"math/rand"

	"github.com/gridlock-games/bomberman-server/internal/config"
)

// Move attempts to step pid one cell in dir. No-op unless PLAYING and the
// player is alive. The target cell must be EMPTY, in bounds, unoccupied by
// another alive connected player, and — per this implementation's resolved
// Open Question (DESIGN.md) — unoccupied by an active bomb.
func (s *State) Move(pid int, dir Direction) {
	if s.Phase != PhasePlaying {
		return
	}
	p := s.Players[pid]
	if p == nil || !p.Alive || p.Disconnected {
		return
	}

	delta := directionDelta[dir]
	nx, ny := p.X+delta[0], p.Y+delta[1]

	if !IsWalkable(s.Map, nx, ny) {
		return
	}
	if other := s.PlayerAt(nx, ny); other != nil && other.PID != pid {
		return
	}
	if s.BombAt(nx, ny) != nil {
		return
	}

	p.X, p.Y = nx, ny
}

// PlaceBomb drops a bomb at pid's current cell. No-op unless PLAYING, the
// player is alive, and no bomb already occupies that cell.
func (s *State) PlaceBomb(pid int) {
	if s.Phase != PhasePlaying {
		return
	}
	p := s.Players[pid]
	if p == nil || !p.Alive || p.Disconnected {
		return
	}
	if s.BombAt(p.X, p.Y) != nil {
		return
	}
	s.Bombs = append(s.Bombs, &Bomb{X: p.X, Y: p.Y, Timer: config.BombTimerTicks, Owner: pid})
}

// TickBombsAndExplosions advances bomb timers (detonating at zero) and
// explosion timers (removing at zero). Must only be called in PLAYING.
func (s *State) TickBombsAndExplosions() {
	var remaining []*Bomb
	for _, b := range s.Bombs {
		b.Timer--
		if b.Timer <= 0 {
			s.ExplodeBomb(b)
			continue
		}
		remaining = append(remaining, b)
	}
	s.Bombs = remaining

	var liveExplosions []*Explosion
	for _, e := range s.Explosions {
		e.Timer--
		if e.Timer > 0 {
			liveExplosions = append(liveExplosions, e)
		}
	}
	s.Explosions = liveExplosions
}

// ExplodeBomb resolves one detonation: computes the affected cell set,
// converts BLOCK cells to EMPTY and stops the blast there, damages every
// alive player caught in the blast, and records an advisory Explosion.
// Chain reactions are not triggered (spec §4.3 base contract).
func (s *State) ExplodeBomb(b *Bomb) {
	affected := [][2]int{{b.X, b.Y}}

	for _, dir := range []Direction{DirUp, DirDown, DirLeft, DirRight} {
		delta := directionDelta[dir]
		x, y := b.X, b.Y
		for step := 0; step < config.ExplosionRange; step++ {
			x, y = x+delta[0], y+delta[1]
			if !InBounds(x, y) {
				break
			}
			if s.Map[y][x] == TileWall {
				break
			}
			affected = append(affected, [2]int{x, y})
			if s.Map[y][x] == TileBlock {
				s.Map[y][x] = TileEmpty
				break
			}
		}
	}

	for _, cell := range affected {
		if p := s.PlayerAt(cell[0], cell[1]); p != nil {
			p.Lives--
			if p.Lives <= 0 {
				p.Lives = 0
				p.Alive = false
			}
		}
	}

	s.Explosions = append(s.Explosions, &Explosion{Positions: affected, Timer: config.ExplosionTTLTicks})
}

// TickBlockRegen decrements the regen timer and, on reaching zero,
// attempts to place one BLOCK on a random eligible interior cell, then
// resets the timer to a uniform random value in
// [BlockRegenMin, BlockRegenMax].
func (s *State) TickBlockRegen() {
	s.BlockRegenTimer--
	if s.BlockRegenTimer > 0 {
		return
	}

	if s.countBlocks() < config.MaxBlocks {
		safe := SafeZones()
		for attempt := 0; attempt < config.BlockRegenAttempts; attempt++ {
			x := 1 + rand.Intn(config.MapWidth-2)
			y := 1 + rand.Intn(config.MapHeight-2)
			if s.Map[y][x] != TileEmpty {
				continue
			}
			if safe[[2]int{x, y}] {
				continue
			}
			if s.nearAlivePlayer(x, y) {
				continue
			}
			s.Map[y][x] = TileBlock
			break
		}
	}

	s.BlockRegenTimer = config.BlockRegenMin + rand.Intn(config.BlockRegenMax-config.BlockRegenMin+1)
}

func (s *State) countBlocks() int {
	count := 0
	for _, row := range s.Map {
		for _, t := range row {
			if t == TileBlock {
				count++
			}
		}
	}
	return count
}

// nearAlivePlayer reports whether (x,y) is within the 3x3 neighborhood of
// any alive player.
func (s *State) nearAlivePlayer(x, y int) bool {
	for _, p := range s.AlivePlayers() {
		if abs(x-p.X) <= 1 && abs(y-p.Y) <= 1 {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
