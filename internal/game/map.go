package game

import (
	"math/rand"
	"strings"

	"github.com/gridlock-games/bomberman-server/internal/config"
)

// Tile is one cell of the stored map grid. Bombs and fire are not tiles —
// they live in the State's Bombs/Explosions collections.
type Tile int

const (
	TileEmpty Tile = iota
	TileWall
	TileBlock
)

// Direction is one of the four cardinal movement directions.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

var directionDelta = map[Direction][2]int{
	DirUp:    {0, -1},
	DirDown:  {0, 1},
	DirLeft:  {-1, 0},
	DirRight: {1, 0},
}

// ParseDirection maps the case-insensitive command tokens of spec §4.10
// to a Direction.
func ParseDirection(token string) (Direction, bool) {
	switch strings.ToUpper(token) {
	case "UP":
		return DirUp, true
	case "DOWN":
		return DirDown, true
	case "LEFT":
		return DirLeft, true
	case "RIGHT":
		return DirRight, true
	}
	return 0, false
}

// spawnPoints are the four fixed player spawns (spec §4.1).
func spawnPoints() [4][2]int {
	return [4][2]int{
		{1, 1},
		{1, config.MapHeight - 2},
		{config.MapWidth - 2, 1},
		{config.MapWidth - 2, config.MapHeight - 2},
	}
}

// SpawnFor returns the spawn cell for a pid in 0..3.
func SpawnFor(pid int) (int, int) {
	sp := spawnPoints()
	return sp[pid][0], sp[pid][1]
}

// SafeZones returns the twelve cells around the four spawns that map
// generation and block regeneration must never cover with a BLOCK: each
// spawn plus its two in-bounds escape cells toward the map's interior
// (mirroring the original's get_safe_zones()). Reaching toward the
// perimeter instead would land on a WALL cell, which would violate the
// invariant that every safe-zone cell is EMPTY.
func SafeZones() map[[2]int]bool {
	zones := make(map[[2]int]bool, 12)
	for _, sp := range spawnPoints() {
		for _, n := range escapeCells(sp[0], sp[1]) {
			zones[n] = true
		}
	}
	return zones
}

func escapeCells(x, y int) [][2]int {
	dx := 1
	if x > config.MapWidth/2 {
		dx = -1
	}
	dy := 1
	if y > config.MapHeight/2 {
		dy = -1
	}
	return [][2]int{
		{x, y},
		{x + dx, y},
		{x, y + dy},
	}
}

// InBounds reports whether (x,y) is a valid grid cell.
func InBounds(x, y int) bool {
	return x >= 0 && x < config.MapWidth && y >= 0 && y < config.MapHeight
}

// CardinalNeighbors returns the up to four in-bounds neighbors of (x,y).
func CardinalNeighbors(x, y int) [][2]int {
	var out [][2]int
	for _, d := range []Direction{DirUp, DirDown, DirLeft, DirRight} {
		delta := directionDelta[d]
		nx, ny := x+delta[0], y+delta[1]
		if InBounds(nx, ny) {
			out = append(out, [2]int{nx, ny})
		}
	}
	return out
}

// GenerateMap fills a fresh MapWidth x MapHeight grid per spec §4.1:
// perimeter walls, even/even interior pillars, 20% random blocks outside
// safe zones, empty elsewhere.
func GenerateMap() [][]Tile {
	grid := make([][]Tile, config.MapHeight)
	for y := range grid {
		grid[y] = make([]Tile, config.MapWidth)
	}

	safe := SafeZones()

	for y := 0; y < config.MapHeight; y++ {
		for x := 0; x < config.MapWidth; x++ {
			switch {
			case x == 0 || y == 0 || x == config.MapWidth-1 || y == config.MapHeight-1:
				grid[y][x] = TileWall
			case x%2 == 0 && y%2 == 0:
				grid[y][x] = TileWall
			case !safe[[2]int{x, y}] && rand.Float64() < config.BlockSpawnChance:
				grid[y][x] = TileBlock
			default:
				grid[y][x] = TileEmpty
			}
		}
	}

	return grid
}

// IsWalkable reports whether (x,y) is in bounds and its map tile is EMPTY.
// Occupancy by players/bombs is checked separately by the kernel.
func IsWalkable(grid [][]Tile, x, y int) bool {
	if !InBounds(x, y) || y >= len(grid) || x >= len(grid[y]) {
		return false
	}
	return grid[y][x] == TileEmpty
}
