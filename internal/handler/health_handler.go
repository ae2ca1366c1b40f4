package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sanjeev23oct/moodle-augment-2/internal/config"
	"github.com/sanjeev23oct/moodle-augment-2/internal/domain"
	"github.com/sanjeev23oct/moodle-augment-2/internal/version"
)

// HealthHandler reports liveness and per-provider readiness.
type HealthHandler struct {
	cfg       *config.Configuration
	providers []domain.ProviderType
}

// NewHealthHandler creates a HealthHandler scoped to one service's provider
// set.
func NewHealthHandler(cfg *config.Configuration, providers []domain.ProviderType) *HealthHandler {
	return &HealthHandler{cfg: cfg, providers: providers}
}

// HandleHealth handles GET /health. Readiness is derived from credential
// presence; no upstream call is made.
func (h *HealthHandler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"version":   version.BuildVersion,
		"providers": h.cfg.Providers.Availability(h.providers),
	})
}
