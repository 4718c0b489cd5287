package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/ottersport/ottersport/internal/api"
	"github.com/ottersport/ottersport/internal/constants"
	"github.com/ottersport/ottersport/internal/logging"
	"github.com/ottersport/ottersport/internal/service"
	"github.com/ottersport/ottersport/internal/version"
)

func main() {
	defer logging.Sync()

	// Configuration is optional: without a file the defaults apply.
	configPath := envOr(constants.EnvConfigPath, constants.DefaultConfigPath)
	cfg := loadConfigOrExit(configPath)

	dbPath := envOr(constants.EnvDBPath, constants.DefaultDBPath)
	repo := createRepositoryOrExit(dbPath, loadSeed(cfg.SeedFile))

	decks := service.NewDeckProvider(repo)
	battles, store := newBattleService(cfg, decks)
	defer store.Close()
	defer battles.Close()

	router := gin.Default()
	api.RegisterRoutes(router, api.NewHandler(decks, battles, repo))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info("OtterSport backend starting", logging.Fields{"version": version.String(), constants.LogFieldPath: dbPath})
	if err := runServer(ctx, cfg.ServerAddress, router); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}
