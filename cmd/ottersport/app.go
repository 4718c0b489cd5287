package main

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/ottersport/ottersport/internal/config"
	"github.com/ottersport/ottersport/internal/constants"
	"github.com/ottersport/ottersport/internal/engine"
	"github.com/ottersport/ottersport/internal/logging"
	"github.com/ottersport/ottersport/internal/scoreclient"
	"github.com/ottersport/ottersport/internal/service"
	"github.com/ottersport/ottersport/internal/session"
	"github.com/ottersport/ottersport/internal/storage"
)

// sessionSweep is how often expired battles are dropped.
const sessionSweep = time.Minute

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func loadConfigOrExit(path string) *config.LoadedConfig {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logging.Fatal("Missing or invalid ottersport configuration", err, logging.Fields{"config_path": path})
	}
	return cfg
}

// loadSeed reads the deck seed file. A missing file only disables seeding.
func loadSeed(path string) *config.DeckFile {
	df, err := config.LoadDeckFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logging.Warn("deck seed file not found; starting without seed data", nil, logging.Fields{constants.LogFieldPath: path})
		return nil
	}
	if err != nil {
		logging.Fatal("Invalid deck seed file", err, logging.Fields{constants.LogFieldPath: path})
	}
	return df
}

func createRepositoryOrExit(dbPath string, seed *config.DeckFile) storage.Repository {
	db, err := storage.OpenAndMigrate(dbPath, seed)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, logging.Fields{constants.LogFieldPath: dbPath})
	}
	return storage.NewSQLiteRepository(db)
}

// newEngine wires the warmup scorer: remote when scoring_url is set,
// otherwise in-process.
func newEngine(cfg *config.LoadedConfig, r engine.Rand) *engine.Engine {
	eng := engine.New(r)
	if cfg.ScoringURL != "" {
		eng.Scorer = service.NewRemoteScorer(scoreclient.New(cfg.ScoringURL, scoreclient.DefaultTimeout))
		logging.Info("remote warmup scoring enabled", logging.Fields{constants.LogFieldURL: cfg.ScoringURL})
	}
	return eng
}

func newGenerator(cfg *config.LoadedConfig, r engine.Rand) *engine.Generator {
	gen := engine.NewGenerator(r)
	gen.SpecialChance = cfg.Battle.SpecialChance
	gen.PowerCardRatio = cfg.Battle.PowerCardRatio
	return gen
}

func newBattleService(cfg *config.LoadedConfig, decks *service.DeckProvider) (*service.BattleService, *session.Store) {
	r := engine.NewRand(time.Now().UnixNano())
	store := session.NewStore(cfg.Battle.SessionTTL, sessionSweep)
	pacer := service.NewPacer(cfg.Battle.AIDelay, cfg.Battle.ComboAIDelay)
	return service.NewBattleService(decks, store, newEngine(cfg, r), newGenerator(cfg, r), pacer, cfg.Battle.HandSize), store
}
