package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ottersport/ottersport/internal/constants"
	"github.com/ottersport/ottersport/internal/engine"
	"github.com/ottersport/ottersport/internal/scoreclient"
)

// Score runs the warmup calculation for one play.
func Score(c *gin.Context) {
	var in engine.WarmupInput
	if err := c.ShouldBindJSON(&in); err != nil || in.Points < 0 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	c.JSON(http.StatusOK, engine.ScoreWarmup(in))
}

// UpdateState advances a warmup state by one play.
func UpdateState(c *gin.Context) {
	var req scoreclient.UpdateStateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.State.CardsPlayed < 0 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	state := req.State
	if state.Phase == "" {
		state.Phase = engine.PhaseFor(state.CardsPlayed)
	}
	c.JSON(http.StatusOK, engine.AdvanceWarmup(state, req.Combo))
}
