package models

import "strings"

// ContactRequest is the payload for POST /api/v1/contact. It binds from
// both JSON bodies and HTML form posts.
type ContactRequest struct {
	// Name of the sender. Required.
	Name string `json:"name" form:"name" binding:"required"`

	// Email of the sender. Required; only checked for presence, like the
	// browser's required attribute.
	Email string `json:"email" form:"email" binding:"required"`

	// Message body. Required.
	Message string `json:"message" form:"message" binding:"required"`
}

// Normalize trims surrounding whitespace from every field.
func (r *ContactRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Message = strings.TrimSpace(r.Message)
}
