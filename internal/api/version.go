package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ottersport/ottersport/internal/constants"
	"github.com/ottersport/ottersport/internal/logging"
	"github.com/ottersport/ottersport/internal/version"
)

// Version returns build and VCS metadata injected at build time.
func Version(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version": version.Version,
		"commit":  version.Commit,
		"date":    version.Date,
		"dirty":   version.Dirty,
	})
}

// Health reports whether the database answers.
func (h *Handler) Health(c *gin.Context) {
	c.Header(constants.CacheControlHeader, constants.CacheControlNoCache)
	if h.repo != nil {
		if err := h.repo.Ping(); err != nil {
			logging.Error("health check failed", err, nil)
			c.JSON(http.StatusServiceUnavailable, gin.H{constants.JSONKeyStatus: "unavailable", constants.JSONKeyError: constants.ErrDatabaseUnavailable})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyStatus: "ok"})
}
