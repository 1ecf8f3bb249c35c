package site

// Link is a labelled outbound link.
type Link struct {
	Label string
	URL   string
}

// Category groups skills in the tech stack section.
type Category struct {
	Name   string
	Skills []string
}

// Profile is the static content around the project gallery.
type Profile struct {
	Name      string
	Greeting  string
	Tagline   string
	ResumeURL string
	Social    []Link
	TechStack []Category
	Copyright string
}

// DefaultProfile returns the site owner's profile.
func DefaultProfile() Profile {
	return Profile{
		Name:     "Igor Kan",
		Greeting: "Hi, I'm Igor! 👋",
		Tagline: "Leveraging modern tools and a strong foundation in problem solving, " +
			"I strive to find the simplest solutions to real-world problems, " +
			"making life a little more livable.",
		ResumeURL: "https://igorkan.com/About-Me/Resume",
		Social: []Link{
			{Label: "GitHub", URL: "https://github.com/igor-kan"},
			{Label: "LinkedIn", URL: "https://www.linkedin.com/in/igor-zakhidov/"},
			{Label: "Twitter", URL: "https://x.com"},
			{Label: "Website", URL: "https://igorkan.com"},
			{Label: "Email", URL: "mailto:igor.kan.zakhidoff@gmail.com"},
		},
		TechStack: []Category{
			{Name: "Frontend", Skills: []string{"TypeScript", "JavaScript", "HTML", "CSS", "TailwindCSS(Cursor)", "React(Cursor)"}},
			{Name: "Backend", Skills: []string{"Python", "Java", "MySQL", "Node.js"}},
			{Name: "DevOps", Skills: []string{"Git"}},
			{Name: "Tools", Skills: []string{"Cursor", "Generative AI", "GitHub", "VSCode", "Vim", "Bash"}},
		},
		Copyright: "© 2025 Igor Kan. All rights reserved.",
	}
}
