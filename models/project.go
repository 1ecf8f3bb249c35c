package models

// Project is one entry of the project registry. Its JSON form is the
// manifest schema read by the page renderer.
type Project struct {
	// Title is the display name and the registry key.
	Title string `json:"title" yaml:"title"`

	Description string `json:"description" yaml:"description"`

	// Image is the site-relative reference to the screenshot,
	// e.g. "/screenshots/artverse.png".
	Image string `json:"image" yaml:"image"`

	// Link is the project homepage; it is also the page that gets captured.
	Link string `json:"link" yaml:"link"`

	// GithubLink is the optional source repository URL.
	GithubLink string `json:"githubLink,omitempty" yaml:"githubLink,omitempty"`

	// Tags are display labels in display order.
	Tags []string `json:"tags" yaml:"tags"`
}

// Target is a capture pipeline input: a project plus the local file the
// screenshot is written to. ImagePath never reaches the manifest.
type Target struct {
	Project   `yaml:",inline"`
	ImagePath string `json:"-" yaml:"imagePath,omitempty"`
}

// Projects strips the capture-only fields from targets, preserving order.
func Projects(targets []Target) []Project {
	out := make([]Project, len(targets))
	for i, t := range targets {
		out[i] = t.Project
		if out[i].Tags == nil {
			out[i].Tags = []string{}
		}
	}
	return out
}
