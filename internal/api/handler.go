package api

import (
	"github.com/ottersport/ottersport/internal/service"
	"github.com/ottersport/ottersport/internal/storage"
)

// Handler groups the deck, battle and health HTTP handlers.
type Handler struct {
	decks   *service.DeckProvider
	battles *service.BattleService
	repo    storage.Repository
}

// NewHandler creates a Handler. repo is only used for health probes.
func NewHandler(decks *service.DeckProvider, battles *service.BattleService, repo storage.Repository) *Handler {
	return &Handler{decks: decks, battles: battles, repo: repo}
}
