package main

import (
	"os"
	"strconv"
)

// Config holds everything the server needs at startup, read from
// environment variables exactly as cmd/bot-hoster's LoadConfig does.
type Config struct {
	Width    int
	Height   int
	MineProb float64
	Seed     uint64
	Port     string
	DocRoot  string
	LedgerDB string
}

func loadConfig() *Config {
	width, _ := strconv.Atoi(getEnv("MINEFIELD_WIDTH", "200"))
	height, _ := strconv.Atoi(getEnv("MINEFIELD_HEIGHT", "200"))
	mineProb, _ := strconv.ParseFloat(getEnv("MINEFIELD_MINE_PROB", "0.1"), 64)
	seed, _ := strconv.ParseUint(getEnv("MINEFIELD_SEED", "0"), 10, 64)

	return &Config{
		Width:    width,
		Height:   height,
		MineProb: mineProb,
		Seed:     seed,
		Port:     getEnv("MINEFIELD_PORT", "8080"),
		DocRoot:  getEnv("MINEFIELD_DOC_ROOT", "./static"),
		LedgerDB: getEnv("MINEFIELD_LEDGER_DB", "./data/sessions.db"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
