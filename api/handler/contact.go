package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/use-agent/portfolio/models"
)

// Contact returns a handler for POST /api/v1/contact.
//
// Submissions are logged and acknowledged; nothing is stored or sent on.
// A plain HTML form post is redirected back to the page, which then shows
// the acknowledgement.
func Contact() gin.HandlerFunc {
	return func(c *gin.Context) {
		isForm := strings.HasPrefix(c.ContentType(), "application/x-www-form-urlencoded") ||
			strings.HasPrefix(c.ContentType(), "multipart/form-data")

		// ── 1. Parse request ────────────────────────────────────────
		var req models.ContactRequest
		if err := c.ShouldBind(&req); err != nil {
			respondInvalid(c, err.Error())
			return
		}
		req.Normalize()
		if req.Name == "" || req.Email == "" || req.Message == "" {
			respondInvalid(c, "name, email and message are required")
			return
		}

		// ── 2. Log ──────────────────────────────────────────────────
		id := uuid.NewString()
		slog.Info("contact form submission",
			"id", id,
			"name", req.Name,
			"email", req.Email,
			"messageLength", len(req.Message),
		)

		// ── 3. Acknowledge ──────────────────────────────────────────
		if isForm {
			c.Redirect(http.StatusSeeOther, "/?sent=1#contact")
			return
		}
		c.JSON(http.StatusOK, models.ContactResponse{
			Success: true,
			ID:      id,
			Message: models.ContactThanks,
		})
	}
}

func respondInvalid(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, models.ContactResponse{
		Success: false,
		Error: &models.ErrorDetail{
			Code:    models.ErrCodeInvalidInput,
			Message: msg,
		},
	})
}
