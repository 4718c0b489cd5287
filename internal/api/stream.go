package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"

	"github.com/ottersport/ottersport/internal/constants"
	"github.com/ottersport/ottersport/internal/logging"
	"github.com/ottersport/ottersport/internal/session"
)

// StreamBattle upgrades to a websocket and pushes a JSON snapshot of the
// battle after every change, starting with the current state. The stream
// ends when the client goes away or the battle is removed.
func (h *Handler) StreamBattle(c *gin.Context) {
	id := c.Param("battleID")
	snapshots, cancel, err := h.battles.Store().Subscribe(id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedStream})
		return
	}
	defer cancel()

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		logging.Error("websocket accept failed", err, logging.Fields{constants.LogFieldBattleID: id})
		return
	}
	defer conn.CloseNow()

	// Clients never send; CloseRead handles control frames and cancels ctx
	// once the peer disconnects.
	ctx := conn.CloseRead(c.Request.Context())
	for {
		select {
		case <-ctx.Done():
			return
		case b, ok := <-snapshots:
			if !ok {
				conn.Close(websocket.StatusNormalClosure, "battle closed")
				return
			}
			msg, err := json.Marshal(newBattleView(b))
			if err != nil {
				logging.Error("failed to encode battle snapshot", err, logging.Fields{constants.LogFieldBattleID: id})
				continue
			}
			if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}
}
