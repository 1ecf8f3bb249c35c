package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/portfolio/models"
	"github.com/use-agent/portfolio/registry"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Health returns a handler for GET /api/v1/health.
//
// Status is "degraded" while the site falls back to the built-in registry,
// which means the capture pipeline has not produced a usable manifest.
func Health(loader *registry.Loader, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := loader.Snapshot()

		status := "healthy"
		if snap.Source == registry.SourceDefault {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status: status,
			Uptime: time.Since(startTime).Round(time.Second).String(),
			Registry: models.RegistryInfo{
				Source:   string(snap.Source),
				Projects: len(snap.Projects),
				Version:  snap.Version,
			},
			Version: Version,
		})
	}
}
