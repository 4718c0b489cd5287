package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ottersport/ottersport/internal/constants"
	"github.com/ottersport/ottersport/internal/logging"
	"github.com/ottersport/ottersport/internal/service"
)

type createDeckRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ExerciseIDs []uint `json:"exercise_ids"`
}

// ListExercises returns the exercise library.
func (h *Handler) ListExercises(c *gin.Context) {
	exercises, err := h.decks.ListExercises()
	if err != nil {
		logging.Error("failed to list exercises", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchExers})
		return
	}
	writeModels(c, http.StatusOK, exercises)
}

// ListDecks returns every deck without its exercises.
func (h *Handler) ListDecks(c *gin.Context) {
	decks, err := h.decks.ListDecks()
	if err != nil {
		logging.Error("failed to list decks", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchDecks})
		return
	}
	writeModels(c, http.StatusOK, decks)
}

// GetDeck returns a deck with its ordered exercises.
func (h *Handler) GetDeck(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidDeckID})
		return
	}
	d, err := h.decks.Deck(id)
	if err != nil {
		if errors.Is(err, service.ErrDeckNotFound) {
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrDeckNotFound})
			return
		}
		logging.Error("failed to load deck", err, logging.Fields{constants.LogFieldDeckID: id})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchDeck})
		return
	}
	writeModels(c, http.StatusOK, d)
}

// CreateDeck stores a deck built from library exercises.
func (h *Handler) CreateDeck(c *gin.Context) {
	var req createDeckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	d, err := h.decks.CreateDeck(req.Name, req.Description, req.ExerciseIDs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDeck), errors.Is(err, service.ErrUnknownExercise):
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: err.Error()})
		default:
			logging.Error("failed to create deck", err, nil)
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateDeck})
		}
		return
	}
	writeModels(c, http.StatusCreated, d)
}

func writeModels(c *gin.Context, status int, v interface{}) {
	out, err := MarshalIntoSnakeKeys(v)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	c.JSON(status, out)
}
