package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gridlock-games/bomberman-server/internal/game"
)

// observerUpgrader upgrades /debug/snapshot into a read-only feed of
// the broadcast snapshot, for operators watching a match without
// going through the raw game protocol (SPEC_FULL.md §4.15).
var observerUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// AdminRouter builds the operator-facing HTTP surface: health check,
// Prometheus metrics, and a debug snapshot feed. It never exercises
// the game's command vocabulary or its TCP listener.
func (srv *Server) AdminRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET"},
	}))

	r.Get("/healthz", srv.handleHealthz)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/debug/snapshot", srv.handleDebugSnapshot)

	return r
}

func (srv *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	reply := make(chan string, 1)
	srv.post(func(s *game.State) {
		reply <- s.Phase.String()
	})

	var phase string
	select {
	case phase = <-reply:
	case <-srv.ctx.Done():
		phase = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"phase":  phase,
	})
}

// handleDebugSnapshot pushes the current snapshot over a websocket
// once per tick interval until the client disconnects. It is a
// one-way observer: no command accepted over this connection ever
// reaches the game state.
func (srv *Server) handleDebugSnapshot(w http.ResponseWriter, r *http.Request) {
	conn, err := observerUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("debug snapshot: upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		snap := srv.Snapshot()
		if err := conn.WriteJSON(snap); err != nil {
			return
		}
	}
}
