package server

import (
	"strings"

	"github.com/gridlock-games/bomberman-server/internal/game"
	"github.com/gridlock-games/bomberman-server/internal/metrics"
)

// dispatchCommand parses one line of client input and posts the
// corresponding action to the tick driver's inbox (spec §6). PING is
// answered directly, without touching game state, since it carries no
// gameplay meaning.
func dispatchCommand(c *Connection, line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	verb := line
	var arg string
	if idx := strings.IndexByte(line, ':'); idx >= 0 {
		verb = line[:idx]
		arg = line[idx+1:]
	}
	verb = strings.ToUpper(verb)

	// Only the known command vocabulary (spec §4.10) is recorded: an
	// unrecognized verb must not mint a new Prometheus label value, or a
	// client could drive unbounded time-series cardinality.
	if !knownVerbs[verb] {
		return
	}
	metrics.CommandsTotal.WithLabelValues(verb).Inc()

	switch verb {
	case "PING":
		c.enqueue([]byte("PONG\n"))
		return

	case "UP", "DOWN", "LEFT", "RIGHT":
		dir, ok := game.ParseDirection(verb)
		if !ok {
			return
		}
		pid := c.UserID()
		if c.IsSpectator() {
			return
		}
		c.server.post(func(s *game.State) {
			s.Move(pid, dir)
		})

	case "BOMB":
		pid := c.UserID()
		if c.IsSpectator() {
			return
		}
		c.server.post(func(s *game.State) {
			s.PlaceBomb(pid)
		})

	case "START_GAME":
		pid := c.UserID()
		if c.IsSpectator() {
			return
		}
		c.server.post(func(s *game.State) {
			s.StartGame(pid)
		})

	case "PLAY_AGAIN":
		if c.IsSpectator() {
			return
		}
		c.server.post(func(s *game.State) {
			if s.Phase == game.PhaseVictory {
				s.ReturnToLobby()
			}
		})

	case "JOIN_GAME":
		if !c.IsSpectator() {
			return
		}
		sid := c.UserID()
		c.server.post(func(s *game.State) {
			pid, ok := s.ConvertSpectatorToPlayer(sid)
			if ok {
				c.becomePlayer(pid)
			}
			c.sendJSON(conversionReply{ConversionSuccess: ok, NewPlayerID: pid})
		})

	case "LEAVE_TEMPORARILY":
		// Scoped to LOBBY only (spec §4.10): the connection is closed
		// afterward, which is what actually leaves the lobby on the wire.
		if c.IsSpectator() {
			return
		}
		pid := c.UserID()
		c.server.post(func(s *game.State) {
			if s.Phase != game.PhaseLobby {
				return
			}
			s.HandlePlayerDisconnect(pid)
			c.conn.Close()
		})

	case "CHAT":
		text := arg
		senderID := c.UserID()
		isSpectator := c.IsSpectator()
		c.server.post(func(s *game.State) {
			s.Chat.Append(senderID, text, false, isSpectator)
		})
	}
}

// knownVerbs is the full command vocabulary of spec §4.10 — the only
// labels CommandsTotal may ever take.
var knownVerbs = map[string]bool{
	"PING": true, "UP": true, "DOWN": true, "LEFT": true, "RIGHT": true,
	"BOMB": true, "START_GAME": true, "PLAY_AGAIN": true, "JOIN_GAME": true,
	"LEAVE_TEMPORARILY": true, "CHAT": true,
}
