// Command minefield-ledger-dump prints every recorded session from a
// minefield-server's SQLite session ledger, for operator inspection
// only. It never feeds back into board state.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"minefield/internal/store"
)

func main() {
	dbPath := flag.String("db", "./data/sessions.db", "path to the session ledger SQLite database")
	flag.Parse()

	if _, err := os.Stat(*dbPath); os.IsNotExist(err) {
		log.Fatalf("ledger database not found at %s", *dbPath)
	}

	ledger, err := store.Open(*dbPath)
	if err != nil {
		log.Fatalf("failed to open ledger: %v", err)
	}
	defer ledger.Close()

	sessions, err := ledger.Sessions()
	if err != nil {
		log.Fatalf("failed to query sessions: %v", err)
	}

	for _, s := range sessions {
		fmt.Printf("User: %s (id %d)\n", s.Name, s.UserID)
		fmt.Printf("  Connected:    %s\n", s.ConnectedAt.Format(time.RFC822))
		fmt.Printf("  Disconnected: %s\n", s.DisconnectedAt.Format(time.RFC822))
		fmt.Printf("  Board:        %dx%d (seed %d)\n", s.BoardW, s.BoardH, s.Seed)
		fmt.Printf("  Final score:  %d\n", s.FinalScore)
		fmt.Println("--------------------------------------------------")
	}
	fmt.Printf("Total sessions: %d\n", len(sessions))
}
