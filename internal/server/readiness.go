package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	propertydomain "github.com/roomledger/roomledger/internal/property/domain"
)

// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /healthz [get]
func (s *Server) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary      Readiness probe
// @Description  Verifies database connectivity and billing setup
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /readiness [get]
func (s *Server) GetReadiness(c *gin.Context) {
	ctx := c.Request.Context()

	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"error":  "database unreachable",
		})
		return
	}

	// Setup state is reported, not gated on: an empty install is still a
	// live install.
	active := true
	properties, err := s.propertySvc.List(ctx, propertydomain.ListRequest{Active: &active})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	accounts, err := s.ledgerSvc.ListAccounts(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, gin.H{
		"status":            "ready",
		"active_properties": len(properties.Properties),
		"ledger_seeded":     len(accounts) > 0,
	})
}
