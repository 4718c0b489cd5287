package api

import (
	"github.com/gin-gonic/gin"

	"github.com/ottersport/ottersport/internal/constants"
)

// RegisterRoutes mounts every endpoint under /api.
func RegisterRoutes(router *gin.Engine, h *Handler) {
	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		apiRoutes.GET(constants.RouteHealth, h.Health)
		apiRoutes.GET(constants.RouteVersion, Version)

		apiRoutes.GET(constants.RouteExercises, h.ListExercises)
		apiRoutes.GET(constants.RouteDecks, h.ListDecks)
		apiRoutes.POST(constants.RouteDecks, h.CreateDeck)
		apiRoutes.GET(constants.RouteDeckByID, h.GetDeck)

		apiRoutes.POST(constants.RouteBattles, h.StartBattle)
		apiRoutes.GET(constants.RouteBattleByID, h.GetBattle)
		apiRoutes.DELETE(constants.RouteBattleByID, h.DeleteBattle)
		apiRoutes.POST(constants.RouteBattleDraw, h.Draw)
		apiRoutes.POST(constants.RouteBattlePlay, h.PlayCard)
		apiRoutes.POST(constants.RouteBattleOpponentTurn, h.OpponentTurn)
		apiRoutes.POST(constants.RouteBattleRestart, h.Restart)
		apiRoutes.POST(constants.RouteBattleTimeout, h.Timeout)
		apiRoutes.GET(constants.RouteBattleStream, h.StreamBattle)

		apiRoutes.POST(constants.RouteScore, Score)
		apiRoutes.POST(constants.RouteUpdateState, UpdateState)
	}
}
