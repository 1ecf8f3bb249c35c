package site

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/portfolio/cache"
	"github.com/use-agent/portfolio/models"
	"github.com/use-agent/portfolio/registry"
)

// fixture writes a manifest with two projects where only A's screenshot
// exists on disk, the state a run with one failed capture leaves behind.
func fixture(t *testing.T) (manifest, static string) {
	t.Helper()
	dir := t.TempDir()
	static = filepath.Join(dir, "public")
	manifest = filepath.Join(dir, "lib", "projects-data.json")

	require.NoError(t, registry.WriteManifest(manifest, []models.Project{
		{
			Title: "A", Description: "alpha", Image: "/screenshots/a.png",
			Link: "https://good.example", GithubLink: "https://github.com/example/a",
			Tags: []string{"Go", "CLI"},
		},
		{
			Title: "B", Description: "beta", Image: "/screenshots/b.png",
			Link: "https://bad.example", Tags: []string{},
		},
	}))
	require.NoError(t, os.MkdirAll(filepath.Join(static, "screenshots"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(static, "screenshots", "a.png"), []byte("png"), 0o644))
	return manifest, static
}

func newTestRenderer(t *testing.T, manifest, static, baseURL string) *Renderer {
	t.Helper()
	r, err := NewRenderer(registry.NewLoader(manifest), static, baseURL, DefaultProfile(), nil)
	require.NoError(t, err)
	return r
}

func parse(t *testing.T, body []byte) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	require.NoError(t, err)
	return doc
}

func TestPage_RendersProjectsInManifestOrder(t *testing.T) {
	manifest, static := fixture(t)
	r := newTestRenderer(t, manifest, static, "")

	body, err := r.Page(PageOptions{})
	require.NoError(t, err)
	doc := parse(t, body)

	cards := doc.Find("#projects article.card")
	require.Equal(t, 2, cards.Length())

	a := cards.Eq(0)
	assert.Equal(t, "A", a.Find("h3").Text())
	assert.Equal(t, "alpha", a.Find("p").Text())
	src, _ := a.Find("img").Attr("src")
	assert.Equal(t, "/screenshots/a.png", src)
	assert.Equal(t, 2, a.Find(".tag").Length())
	gh, ok := a.Find(`.links a:contains("GitHub")`).Attr("href")
	assert.True(t, ok)
	assert.Equal(t, "https://github.com/example/a", gh)

	b := cards.Eq(1)
	src, _ = b.Find("img").Attr("src")
	assert.Equal(t, PlaceholderPath, src, "missing screenshot falls back to the placeholder")
	assert.Equal(t, 0, b.Find(`.links a:contains("GitHub")`).Length())
}

func TestPage_DefaultRegistryWithoutManifest(t *testing.T) {
	dir := t.TempDir()
	r := newTestRenderer(t, filepath.Join(dir, "missing.json"), dir, "")

	body, err := r.Page(PageOptions{})
	require.NoError(t, err)
	doc := parse(t, body)

	cards := doc.Find("#projects article.card")
	assert.Equal(t, 6, cards.Length())
	assert.Equal(t, "Nuvva Art", cards.First().Find("h3").Text())
}

func TestPage_StaticSections(t *testing.T) {
	manifest, static := fixture(t)
	r := newTestRenderer(t, manifest, static, "")

	body, err := r.Page(PageOptions{})
	require.NoError(t, err)
	doc := parse(t, body)

	assert.Equal(t, 4, doc.Find("#stack h3").Length())
	assert.Equal(t, 5, doc.Find("#about .social a").Length())
	href, _ := doc.Find("header a.resume").Attr("href")
	assert.Equal(t, "https://igorkan.com/About-Me/Resume", href)
	assert.Contains(t, doc.Find("footer").Text(), "© 2025 Igor Kan")
	assert.Equal(t, 0, doc.Find("#contact .notice").Length())
}

func TestPage_ContactNotice(t *testing.T) {
	manifest, static := fixture(t)
	r := newTestRenderer(t, manifest, static, "")

	body, err := r.Page(PageOptions{ContactSent: true})
	require.NoError(t, err)

	doc := parse(t, body)
	assert.Equal(t, models.ContactThanks, doc.Find("#contact .notice").Text())
}

func TestPage_EscapesProjectContent(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "projects-data.json")
	require.NoError(t, registry.WriteManifest(manifest, []models.Project{{
		Title: "<script>alert(1)</script>", Image: "/x.png", Link: "javascript:alert(1)", Tags: []string{},
	}}))
	r := newTestRenderer(t, manifest, dir, "")

	body, err := r.Page(PageOptions{})
	require.NoError(t, err)
	assert.NotContains(t, string(body), "<script>alert(1)</script>")
	assert.NotContains(t, string(body), `href="javascript:alert(1)"`)
}

func TestPage_CachedUntilManifestChanges(t *testing.T) {
	manifest, static := fixture(t)
	loader := registry.NewLoader(manifest)
	cc := cache.New(4, time.Hour)
	r, err := NewRenderer(loader, static, "", DefaultProfile(), cc)
	require.NoError(t, err)

	first, err := r.Page(PageOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, cc.Len())

	second, err := r.Page(PageOptions{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cc.Len())

	require.NoError(t, registry.WriteManifest(manifest, []models.Project{{
		Title: "C", Image: "/c.png", Link: "https://c.example", Tags: []string{},
	}}))
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(manifest, future, future))

	third, err := r.Page(PageOptions{})
	require.NoError(t, err)
	doc := parse(t, third)
	assert.Equal(t, "C", doc.Find("#projects h3").Text())
}

func TestImageSrc(t *testing.T) {
	_, static := fixture(t)
	r := &Renderer{staticDir: static}

	tests := []struct {
		image string
		want  string
	}{
		{"/screenshots/a.png", "/screenshots/a.png"},
		{"/screenshots/b.png", PlaceholderPath},
		{"/screenshots", PlaceholderPath},
		{"https://cdn.example/a.png", "https://cdn.example/a.png"},
		{"/placeholder.svg?height=400&width=600", "/placeholder.svg?height=400&width=600"},
		{"", PlaceholderPath},
		{"relative.png", PlaceholderPath},
	}
	for _, tt := range tests {
		t.Run(tt.image, func(t *testing.T) {
			assert.Equal(t, tt.want, r.imageSrc(tt.image))
		})
	}
}

func TestProjectsMarkdown(t *testing.T) {
	manifest, static := fixture(t)
	r := newTestRenderer(t, manifest, static, "https://igorkan.dev/")

	md, err := r.ProjectsMarkdown()
	require.NoError(t, err)

	assert.Contains(t, md, "Projects")
	assert.Contains(t, md, "https://igorkan.dev/screenshots/a.png")
	assert.Contains(t, md, "https://igorkan.dev/placeholder.svg")
	assert.Contains(t, md, "(https://good.example)")
	assert.NotContains(t, md, "Tech Stack")
	assert.NotContains(t, md, "Get in Touch")
}

func TestPlaceholderSVG(t *testing.T) {
	assert.True(t, bytes.HasPrefix(PlaceholderSVG(), []byte("<svg")))
}
