package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ottersport/ottersport/internal/config"
	"github.com/ottersport/ottersport/internal/constants"
	"github.com/ottersport/ottersport/internal/engine"
	"github.com/ottersport/ottersport/internal/logging"
	"github.com/ottersport/ottersport/internal/mcptools"
	"github.com/ottersport/ottersport/internal/service"
	"github.com/ottersport/ottersport/internal/session"
	"github.com/ottersport/ottersport/internal/storage"
	"github.com/ottersport/ottersport/internal/version"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	// stdout carries the protocol; keep log output off it.
	logging.SetLogger(nil)

	cfg, err := config.LoadConfig(envOr(constants.EnvConfigPath, constants.DefaultConfigPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	var seed *config.DeckFile
	if df, err := config.LoadDeckFile(cfg.SeedFile); err == nil {
		seed = df
	}
	db, err := storage.OpenAndMigrate(envOr(constants.EnvDBPath, constants.DefaultDBPath), seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	repo := storage.NewSQLiteRepository(db)

	r := engine.NewRand(time.Now().UnixNano())
	gen := engine.NewGenerator(r)
	gen.SpecialChance = cfg.Battle.SpecialChance
	gen.PowerCardRatio = cfg.Battle.PowerCardRatio

	decks := service.NewDeckProvider(repo)
	store := session.NewStore(cfg.Battle.SessionTTL, 0)
	// Tool calls are turn-based; the AI answers within the same call.
	battles := service.NewBattleService(decks, store, engine.New(r), gen, service.NewPacer(0, 0), cfg.Battle.HandSize)
	defer store.Close()
	defer battles.Close()

	s := server.NewMCPServer("ottersport", version.Version)
	mcptools.New(decks, battles).Register(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
