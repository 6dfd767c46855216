package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gridlock-games/bomberman-server/internal/config"
	"github.com/gridlock-games/bomberman-server/internal/server"
)

func main() {
	cfg := config.DefaultServerConfig()

	// Positional [host] [port], per spec §6 — not flags.
	host, port := cfg.Host, cfg.Port
	args := os.Args[1:]
	if len(args) >= 1 {
		host = args[0]
	}
	if len(args) >= 2 {
		port = args[1]
	}

	adminAddr := cfg.AdminAddr
	if v := os.Getenv("BOMBERMAN_ADMIN_ADDR"); v != "" {
		adminAddr = v
	}

	gameAddr := host + ":" + port

	srv, err := server.NewServer(gameAddr)
	if err != nil {
		log.Fatalf("failed to bind game listener on %s: %v", gameAddr, err)
	}
	log.Printf("game listener bound at %s", gameAddr)

	admin := &http.Server{
		Addr:         adminAddr,
		Handler:      srv.AdminRouter(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("admin surface listening at %s", adminAddr)
		if err := admin.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("admin surface stopped: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := srv.Run(ctx); err != nil {
			log.Printf("game server stopped: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Printf("shutting down (signal: %v)...", sig)

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := admin.Shutdown(shutdownCtx); err != nil {
		log.Printf("admin surface shutdown error: %v", err)
	}

	log.Println("server stopped")
}
