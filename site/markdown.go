package site

import (
	"bytes"
	"fmt"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// projectsSelector picks the gallery out of the rendered page.
var projectsSelector = cascadia.MustCompile("section#projects")

// newMarkdownConverter creates a goroutine-safe converter: the base plugin
// drops scripts and styles, commonmark renders the rest.
func newMarkdownConverter() *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)
}

// ProjectsMarkdown renders the project gallery as Markdown, suitable for a
// README. Relative links are resolved against the configured base URL.
func (r *Renderer) ProjectsMarkdown() (string, error) {
	page, err := r.Page(PageOptions{})
	if err != nil {
		return "", err
	}

	section, err := selectSection(page)
	if err != nil {
		return "", err
	}

	var opts []converter.ConvertOptionFunc
	if r.baseURL != "" {
		opts = append(opts, converter.WithDomain(r.baseURL))
	}
	md, err := r.conv.ConvertString(section, opts...)
	if err != nil {
		return "", fmt.Errorf("site: convert to markdown: %w", err)
	}
	return md, nil
}

// selectSection returns the outer HTML of the gallery section.
func selectSection(page []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("site: parse page: %w", err)
	}
	node := cascadia.Query(doc, projectsSelector)
	if node == nil {
		return "", fmt.Errorf("site: page has no projects section")
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, node); err != nil {
		return "", fmt.Errorf("site: render section: %w", err)
	}
	return buf.String(), nil
}
