// Command minefield-solver dials a running minefield-server over the
// same line-oriented WebSocket protocol a human client speaks and runs
// a pool of deductive (or random-benchmark) solver agents against it,
// each a fully-authenticated external player.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	log.Println("=== minefield-solver starting ===")

	config := loadConfig()
	log.Printf("config: server=%s poolSize=%d agentKind=%s", config.ServerURL, config.PoolSize, config.AgentKind)

	pool := NewPool(config)
	if err := pool.Start(); err != nil {
		log.Fatalf("failed to start solver pool: %v", err)
	}

	statsTicker := time.NewTicker(30 * time.Second)
	defer statsTicker.Stop()
	go func() {
		for range statsTicker.C {
			stats := pool.Stats()
			log.Printf("pool stats: total=%d connecting=%d running=%d disconnected=%d",
				stats["total"], stats["connecting"], stats["running"], stats["disconnected"])
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("=== shutdown signal received ===")
	pool.Stop()
	log.Println("=== minefield-solver stopped ===")
}
