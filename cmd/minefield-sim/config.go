package main

import (
	"os"
	"strconv"
	"time"
)

// Config configures the standalone simulation runner, read from
// environment variables like the other commands.
type Config struct {
	Width     int
	Height    int
	MineProb  float64
	Seed      uint64
	Agents    int
	AgentKind string        // "deductive" or "random"
	Frame     time.Duration // 0 runs flat out
	MaxFrames int
}

func loadConfig() *Config {
	width, _ := strconv.Atoi(getEnv("MINEFIELD_WIDTH", "200"))
	height, _ := strconv.Atoi(getEnv("MINEFIELD_HEIGHT", "200"))
	mineProb, _ := strconv.ParseFloat(getEnv("MINEFIELD_MINE_PROB", "0.1"), 64)
	seed, _ := strconv.ParseUint(getEnv("MINEFIELD_SEED", "0"), 10, 64)
	agents, _ := strconv.Atoi(getEnv("SIM_AGENTS", "4"))
	frameMs, _ := strconv.Atoi(getEnv("SIM_FRAME_MS", "0"))
	maxFrames, _ := strconv.Atoi(getEnv("SIM_MAX_FRAMES", "0"))

	return &Config{
		Width:     width,
		Height:    height,
		MineProb:  mineProb,
		Seed:      seed,
		Agents:    agents,
		AgentKind: getEnv("SIM_AGENT_KIND", "deductive"),
		Frame:     time.Duration(frameMs) * time.Millisecond,
		MaxFrames: maxFrames,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
