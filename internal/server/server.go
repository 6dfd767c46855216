package server

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gridlock-games/bomberman-server/internal/config"
	"github.com/gridlock-games/bomberman-server/internal/game"
	"github.com/gridlock-games/bomberman-server/internal/metrics"
)

// inboxSize bounds how many pending closures the tick driver will
// buffer between ticks before a poster blocks. Admission and command
// posts are expected to drain well within one tick interval.
const inboxSize = 256

// Server owns the single *game.State and the inbox that is the only
// path through which anything may mutate it (spec §5).
type Server struct {
	listener net.Listener
	state    *game.State
	inbox    chan func(*game.State)

	mu      sync.Mutex
	conns   map[uint64]*Connection
	nextID  uint64

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer binds the game's TCP listener and prepares the tick
// driver. Call Run to start serving.
func NewServer(addr string) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		listener: ln,
		state:    game.NewState(),
		inbox:    make(chan func(*game.State), inboxSize),
		conns:    make(map[uint64]*Connection),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// post queues a closure for the tick driver. It never runs on the
// caller's goroutine; this is the only sanctioned way to touch state.
func (srv *Server) post(fn func(*game.State)) {
	select {
	case srv.inbox <- fn:
	case <-srv.ctx.Done():
	}
}

func (srv *Server) nextConnID() uint64 {
	return atomic.AddUint64(&srv.nextID, 1)
}

func (srv *Server) registerConnection(c *Connection) {
	srv.mu.Lock()
	srv.conns[c.id] = c
	srv.mu.Unlock()
}

// handleDisconnect is invoked by a connection's readPump once its
// socket is gone. It posts the state cleanup to the inbox so the
// tick driver, not the reader goroutine, applies the disconnect.
func (srv *Server) handleDisconnect(c *Connection) {
	srv.mu.Lock()
	delete(srv.conns, c.id)
	srv.mu.Unlock()
	c.closeSend()

	isSpectator := c.IsSpectator()
	id := c.UserID()
	srv.post(func(s *game.State) {
		if isSpectator {
			s.RemoveSpectator(id)
			metrics.ConnectedSpectators.Dec()
		} else {
			s.HandlePlayerDisconnect(id)
			metrics.ConnectedPlayers.Dec()
		}
	})
}

// Run starts the accept loop and the tick driver, blocking until ctx
// is cancelled.
func (srv *Server) Run(ctx context.Context) error {
	go srv.acceptLoop()

	ticker := time.NewTicker(config.TickInterval)
	defer ticker.Stop()

	tickCount := 0
	for {
		select {
		case <-ctx.Done():
			srv.cancel()
			srv.listener.Close()
			srv.mu.Lock()
			for _, c := range srv.conns {
				c.conn.Close()
			}
			srv.mu.Unlock()
			return nil
		case <-ticker.C:
			srv.drainInbox()
			start := time.Now()
			srv.state.Tick()
			metrics.TickDuration.Observe(time.Since(start).Seconds())

			tickCount++
			if tickCount%50 == 0 {
				srv.reapStaleConnections()
			}

			srv.broadcastSnapshot()
		}
	}
}

// drainInbox applies every closure queued since the previous tick,
// in order, before the simulation advances (spec §5).
func (srv *Server) drainInbox() {
	for {
		select {
		case fn := <-srv.inbox:
			fn(srv.state)
		default:
			return
		}
	}
}

// reapStaleConnections purges any connection whose userID no longer
// resolves to a live player or spectator entry (spec §4.12 periodic
// housekeeping). In steady operation this is a no-op: handleDisconnect
// already removes entries eagerly.
func (srv *Server) reapStaleConnections() {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	for id, c := range srv.conns {
		if c.IsSpectator() {
			if _, ok := srv.state.Spectators[c.UserID()]; !ok {
				delete(srv.conns, id)
				c.closeSend()
				c.conn.Close()
			}
			continue
		}
		if srv.state.Players[c.UserID()] == nil {
			delete(srv.conns, id)
			c.closeSend()
			c.conn.Close()
		}
	}
}

func (srv *Server) broadcastSnapshot() {
	snap := srv.state.BuildSnapshot()
	data, err := json.Marshal(snap)
	if err != nil {
		log.Printf("broadcast: failed to encode snapshot: %v", err)
		return
	}
	data = append(data, '\n')

	srv.mu.Lock()
	defer srv.mu.Unlock()
	for _, c := range srv.conns {
		c.enqueue(data)
	}
}

// Snapshot returns the current authoritative snapshot for the admin
// debug surface (SPEC_FULL.md §4.15). It is safe to call from any
// goroutine: the read happens inside a posted closure, preserving the
// single-writer rule.
func (srv *Server) Snapshot() *game.Snapshot {
	reply := make(chan *game.Snapshot, 1)
	srv.post(func(s *game.State) {
		reply <- s.BuildSnapshot()
	})
	select {
	case snap := <-reply:
		return snap
	case <-srv.ctx.Done():
		return nil
	}
}
