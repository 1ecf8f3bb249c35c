package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/portfolio/models"
	"github.com/use-agent/portfolio/registry"
)

// Projects returns a handler for GET /api/v1/projects.
func Projects(loader *registry.Loader) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := loader.Snapshot()
		c.JSON(http.StatusOK, models.ProjectsResponse{
			Source:   string(snap.Source),
			Projects: snap.Projects,
		})
	}
}
