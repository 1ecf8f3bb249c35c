package api

import (
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/portfolio/api/handler"
	"github.com/use-agent/portfolio/api/middleware"
	"github.com/use-agent/portfolio/config"
	"github.com/use-agent/portfolio/registry"
	"github.com/use-agent/portfolio/site"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	Contact: RateLimit
func NewRouter(cfg *config.Config, loader *registry.Loader, rend *site.Renderer, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	// Pages
	r.GET("/", handler.Index(rend))
	r.GET("/projects.md", handler.ProjectsMarkdown(rend))

	// Static assets
	r.Static("/screenshots", filepath.Join(cfg.Site.StaticDir, "screenshots"))
	r.GET(site.PlaceholderPath, handler.Placeholder(cfg.Site.StaticDir))

	v1 := r.Group("/api/v1")
	v1.GET("/health", handler.Health(loader, startTime))
	v1.GET("/projects", handler.Projects(loader))
	v1.POST("/contact", middleware.RateLimit(cfg.RateLimit), handler.Contact())

	return r
}
