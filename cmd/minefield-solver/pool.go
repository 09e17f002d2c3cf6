package main

import (
	"fmt"
	"log"
	"sync"
)

// Pool manages a fleet of SolverClients dialing the same server.
type Pool struct {
	config  *Config
	clients []*SolverClient
	mu      sync.RWMutex
}

func NewPool(config *Config) *Pool {
	return &Pool{
		config:  config,
		clients: make([]*SolverClient, 0, config.PoolSize),
	}
}

// Start connects and runs every client in the pool, continuing past
// individual connection failures.
func (p *Pool) Start() error {
	log.Printf("solver-pool: starting pool of size %d (%s agents) against %s",
		p.config.PoolSize, p.config.AgentKind, p.config.ServerURL)

	for i := 0; i < p.config.PoolSize; i++ {
		name := solverName(i)
		client := NewSolverClient(i, p.config.ServerURL, name, p.config.AgentKind)

		if err := client.Connect(); err != nil {
			log.Printf("solver-pool: client %d failed to connect: %v (continuing)", i, err)
			continue
		}

		p.mu.Lock()
		p.clients = append(p.clients, client)
		p.mu.Unlock()

		go client.Run()
		log.Printf("solver-pool: client %d/%d started as %s", i+1, p.config.PoolSize, name)
	}

	p.mu.RLock()
	connected := len(p.clients)
	p.mu.RUnlock()

	if connected == 0 {
		return fmt.Errorf("solver-pool: no clients connected successfully")
	}
	log.Printf("solver-pool: ready, %d/%d clients connected", connected, p.config.PoolSize)
	return nil
}

// Stop disconnects every client in the pool.
func (p *Pool) Stop() {
	log.Println("solver-pool: stopping")
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.clients {
		c.Disconnect()
	}
	log.Printf("solver-pool: stopped %d clients", len(p.clients))
}

// Stats reports per-state client counts.
func (p *Pool) Stats() map[string]int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	stats := map[string]int{"total": len(p.clients), "connecting": 0, "running": 0, "disconnected": 0}
	for _, c := range p.clients {
		switch c.State() {
		case StateConnecting:
			stats["connecting"]++
		case StateRunning:
			stats["running"]++
		case StateDisconnected:
			stats["disconnected"]++
		}
	}
	return stats
}
