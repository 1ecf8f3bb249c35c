package handler

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/portfolio/site"
)

// Index returns a handler for GET /.
func Index(rend *site.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := rend.Page(site.PageOptions{ContactSent: c.Query("sent") == "1"})
		if err != nil {
			slog.Error("page render failed", "error", err)
			c.String(http.StatusInternalServerError, "internal error")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", body)
	}
}

// ProjectsMarkdown returns a handler for GET /projects.md.
func ProjectsMarkdown(rend *site.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		md, err := rend.ProjectsMarkdown()
		if err != nil {
			slog.Error("markdown export failed", "error", err)
			c.String(http.StatusInternalServerError, "internal error")
			return
		}
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
	}
}

// Placeholder returns a handler for GET /placeholder.svg. A placeholder.svg
// in the static directory wins over the built-in one.
func Placeholder(staticDir string) gin.HandlerFunc {
	local := filepath.Join(staticDir, "placeholder.svg")
	return func(c *gin.Context) {
		if info, err := os.Stat(local); err == nil && !info.IsDir() {
			c.File(local)
			return
		}
		c.Header("Cache-Control", "public, max-age=86400")
		c.Data(http.StatusOK, "image/svg+xml", site.PlaceholderSVG())
	}
}
