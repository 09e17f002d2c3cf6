// Command minefield-server runs the authoritative coordination server:
// it owns the Engine behind a single-writer Hub, serves the line-oriented
// WebSocket protocol at /minefield, and serves the document root for
// everything else.
package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"minefield/internal/server"
	"minefield/internal/store"
)

func main() {
	cfg := loadConfig()
	log.Printf("minefield-server: config width=%d height=%d mineProb=%.3f seed=%d port=%s docRoot=%s",
		cfg.Width, cfg.Height, cfg.MineProb, cfg.Seed, cfg.Port, cfg.DocRoot)

	ledger, err := store.Open(cfg.LedgerDB)
	if err != nil {
		log.Fatalf("minefield-server: failed to open session ledger: %v", err)
	}
	defer ledger.Close()

	hub := server.NewHub(cfg.Width, cfg.Height, cfg.MineProb, cfg.Seed, ledger)
	go hub.Run()

	mux := server.Mux(hub, cfg.DocRoot)

	// SIGHUP asks the hub to reset the board without restarting the
	// process.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGHUP)
	go func() {
		for range sigChan {
			log.Println("minefield-server: SIGHUP received, resetting board")
			hub.RequestReset()
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("minefield-server: listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("minefield-server: ListenAndServe: %v", err)
	}
}
