package models

// ContactThanks is the acknowledgement shown after a contact submission.
const ContactThanks = "Thanks for your message! I'll get back to you soon."

// ContactResponse is the response for POST /api/v1/contact.
type ContactResponse struct {
	// Success indicates whether the submission was accepted.
	Success bool `json:"success"`

	// ID identifies the submission in the server log.
	ID string `json:"id,omitempty"`

	// Message is the user-facing acknowledgement.
	Message string `json:"message,omitempty"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// ProjectsResponse is the response for GET /api/v1/projects.
type ProjectsResponse struct {
	Source   string    `json:"source"` // "manifest" or "default"
	Projects []Project `json:"projects"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status   string       `json:"status"`
	Uptime   string       `json:"uptime"`
	Registry RegistryInfo `json:"registry"`
	Version  string       `json:"version"`
}

// RegistryInfo describes the registry the site is currently rendering.
type RegistryInfo struct {
	Source   string `json:"source"`
	Projects int    `json:"projects"`
	Version  string `json:"version"`
}
