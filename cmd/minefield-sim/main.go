// Command minefield-sim runs the engine and a pool of in-process solver
// agents in a single-threaded frame loop, with no server or network in
// between. It exists for benchmarking the agents (deductive k-d-tree
// selection vs. the random baseline) and for soak-testing the engine's
// invariants at scale.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"minefield/internal/engine"
	"minefield/internal/sim"
	"minefield/internal/solver"
)

func main() {
	cfg := loadConfig()
	log.Printf("minefield-sim: %dx%d p=%.3f seed=%d agents=%d kind=%s frame=%s",
		cfg.Width, cfg.Height, cfg.MineProb, cfg.Seed, cfg.Agents, cfg.AgentKind, cfg.Frame)

	e := engine.New(cfg.Width, cfg.Height, cfg.MineProb, cfg.Seed)
	agents := make([]solver.Agent, 0, cfg.Agents)
	for i := 0; i < cfg.Agents; i++ {
		userID := i + 1
		if cfg.AgentKind == "random" {
			agents = append(agents, solver.NewRandomAgent(userID, cfg.Width, cfg.Height))
		} else {
			agents = append(agents, solver.NewDeductiveAgent(userID, cfg.Width, cfg.Height))
		}
	}

	s := sim.New(e, agents...)
	s.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("minefield-sim: interrupt, stopping after current frame")
		s.RequestStop()
	}()

	started := time.Now()
	s.Run(cfg.Frame, cfg.MaxFrames)
	elapsed := time.Since(started)

	st := s.Stats()
	log.Printf("minefield-sim: done in %s: frames=%d actions=%d opened=%d marked=%d hidden=%d bombs=%d",
		elapsed.Round(time.Millisecond), st.Frames, st.Actions, st.Opened, st.Marked, st.Hidden, st.Bombs)
	if errs := e.Validate(); len(errs) > 0 {
		log.Fatalf("minefield-sim: board failed validation: %v (and %d more)", errs[0], len(errs)-1)
	}
}
