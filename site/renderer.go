// Package site renders the portfolio page from the project registry.
package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/use-agent/portfolio/cache"
	"github.com/use-agent/portfolio/models"
	"github.com/use-agent/portfolio/registry"
)

// PlaceholderPath is shown for projects without a usable screenshot.
const PlaceholderPath = "/placeholder.svg"

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed assets/placeholder.svg
var placeholderSVG []byte

// PlaceholderSVG returns the built-in placeholder image.
func PlaceholderSVG() []byte { return placeholderSVG }

// Card is a project as shown in the gallery.
type Card struct {
	models.Project

	// ImageSrc is the image actually rendered: the project image when its
	// file exists, otherwise the placeholder.
	ImageSrc string
}

// PageData is the template input.
type PageData struct {
	Profile Profile
	Cards   []Card
	Notice  string
}

// PageOptions select a page variant.
type PageOptions struct {
	// ContactSent shows the contact acknowledgement under the form.
	ContactSent bool
}

func (o PageOptions) variant() string {
	if o.ContactSent {
		return "page:sent"
	}
	return "page"
}

// Renderer renders the page and its Markdown export. It is safe for
// concurrent use.
type Renderer struct {
	tmpl      *template.Template
	loader    *registry.Loader
	staticDir string
	baseURL   string
	profile   Profile
	cache     *cache.Cache
	conv      *converter.Converter
}

// NewRenderer parses the embedded templates. cc may be nil to render on
// every request.
func NewRenderer(loader *registry.Loader, staticDir, baseURL string, profile Profile, cc *cache.Cache) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("site: parse templates: %w", err)
	}
	return &Renderer{
		tmpl:      tmpl,
		loader:    loader,
		staticDir: staticDir,
		baseURL:   strings.TrimRight(baseURL, "/"),
		profile:   profile,
		cache:     cc,
		conv:      newMarkdownConverter(),
	}, nil
}

// Page returns the rendered HTML page.
func (r *Renderer) Page(opts PageOptions) ([]byte, error) {
	snap := r.loader.Snapshot()
	key := cache.Key(snap.Version, opts.variant())
	if r.cache != nil {
		if body, hit := r.cache.Get(key); hit {
			return body, nil
		}
	}

	data := PageData{
		Profile: r.profile,
		Cards:   r.Cards(snap.Projects),
	}
	if opts.ContactSent {
		data.Notice = models.ContactThanks
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "page.html.tmpl", data); err != nil {
		return nil, fmt.Errorf("site: render page: %w", err)
	}
	body := buf.Bytes()

	if r.cache != nil {
		r.cache.Set(key, body)
	}
	slog.Debug("page rendered", "source", snap.Source, "version", snap.Version, "projects", len(snap.Projects))
	return body, nil
}

// Cards resolves the image of every project.
func (r *Renderer) Cards(projects []models.Project) []Card {
	cards := make([]Card, len(projects))
	for i, p := range projects {
		cards[i] = Card{Project: p, ImageSrc: r.imageSrc(p.Image)}
	}
	return cards
}

// imageSrc keeps absolute image URLs as they are and substitutes the
// placeholder for site paths whose file is missing, which is what a failed
// capture leaves behind.
func (r *Renderer) imageSrc(image string) string {
	if image == "" {
		return PlaceholderPath
	}
	if strings.HasPrefix(image, "https://") || strings.HasPrefix(image, "http://") {
		return image
	}
	if strings.HasPrefix(image, PlaceholderPath) {
		return image
	}
	path := registry.ImagePath(r.staticDir, image)
	if path == "" {
		return PlaceholderPath
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return PlaceholderPath
	}
	return image
}
