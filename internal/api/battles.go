package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ottersport/ottersport/internal/constants"
	"github.com/ottersport/ottersport/internal/logging"
	"github.com/ottersport/ottersport/internal/service"
	"github.com/ottersport/ottersport/internal/session"
)

type startBattleRequest struct {
	DeckID uint `json:"deck_id"`
}

type playCardRequest struct {
	CardID string `json:"card_id"`
}

// StartBattle creates a battle from a deck.
func (h *Handler) StartBattle(c *gin.Context) {
	var req startBattleRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DeckID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidDeckID})
		return
	}
	b, err := h.battles.Start(req.DeckID)
	if err != nil {
		writeBattleError(c, err, "", constants.ErrFailedStartBattle)
		return
	}
	c.JSON(http.StatusCreated, newBattleView(b))
}

// GetBattle returns the current battle snapshot.
func (h *Handler) GetBattle(c *gin.Context) {
	id := c.Param("battleID")
	b, err := h.battles.Get(id)
	if err != nil {
		writeBattleError(c, err, id, constants.ErrFailedUpdateBattle)
		return
	}
	c.JSON(http.StatusOK, newBattleView(b))
}

// DeleteBattle ends a battle and closes its streams.
func (h *Handler) DeleteBattle(c *gin.Context) {
	id := c.Param("battleID")
	if err := h.battles.Delete(id); err != nil {
		writeBattleError(c, err, id, constants.ErrFailedUpdateBattle)
		return
	}
	c.Status(http.StatusNoContent)
}

// Draw fills both hands.
func (h *Handler) Draw(c *gin.Context) {
	h.act(c, h.battles.Draw)
}

// PlayCard plays a card from the player's hand.
func (h *Handler) PlayCard(c *gin.Context) {
	var req playCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	cardID := strings.TrimSpace(req.CardID)
	if cardID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrCardIDRequired})
		return
	}
	h.act(c, func(id string) (session.Battle, error) {
		return h.battles.Play(id, cardID)
	})
}

// OpponentTurn makes the AI move without waiting for the pacing delay.
func (h *Handler) OpponentTurn(c *gin.Context) {
	h.act(c, h.battles.OpponentTurn)
}

// Restart deals a new play deck into the battle.
func (h *Handler) Restart(c *gin.Context) {
	h.act(c, h.battles.Restart)
}

// Timeout is sent by the client when its turn countdown runs out. It only
// changes the battle while the AI is due to move.
func (h *Handler) Timeout(c *gin.Context) {
	h.act(c, h.battles.Timeout)
}

func (h *Handler) act(c *gin.Context, fn func(id string) (session.Battle, error)) {
	id := c.Param("battleID")
	b, err := fn(id)
	if err != nil {
		writeBattleError(c, err, id, constants.ErrFailedUpdateBattle)
		return
	}
	c.JSON(http.StatusOK, newBattleView(b))
}

// writeBattleError maps service errors to HTTP statuses.
func writeBattleError(c *gin.Context, err error, battleID, fallback string) {
	switch {
	case errors.Is(err, service.ErrBattleNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
	case errors.Is(err, service.ErrDeckNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrDeckNotFound})
	case errors.Is(err, service.ErrDeckEmpty):
		c.JSON(http.StatusUnprocessableEntity, gin.H{constants.JSONKeyError: constants.ErrDeckEmpty})
	case errors.Is(err, service.ErrInvalidMove):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: err.Error()})
	default:
		logging.Error("battle request failed", err, logging.Fields{constants.LogFieldBattleID: battleID})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: fallback})
	}
}
