package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/portfolio/models"
)

func TestLoadTargets_EmbeddedDefaults(t *testing.T) {
	targets, err := LoadTargets("", "public")
	require.NoError(t, err)
	require.Len(t, targets, 9)

	first := targets[0]
	assert.Equal(t, "ArtVerse", first.Title)
	assert.Equal(t, "/screenshots/artverse.png", first.Image)
	assert.Equal(t, "https://igor-kan.github.io/artverse", first.Link)
	assert.Equal(t, "https://github.com/igor-kan/artverse", first.GithubLink)
	assert.Equal(t, []string{"Art", "Creative", "Digital Art"}, first.Tags)
	assert.Equal(t, filepath.Join("public", "screenshots", "artverse.png"), first.ImagePath)

	assert.Equal(t, "AetherHealth", targets[8].Title)
}

func TestLoadTargets_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "targets.yaml")
	content := `
- title: A
  image: /shots/a.png
  link: https://good.example
- title: B
  image: https://cdn.example/b.png
  imagePath: out/b.png
  link: https://bad.example
  tags: [x, x]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	targets, err := LoadTargets(path, "static")
	require.NoError(t, err)
	require.Len(t, targets, 2)

	assert.Equal(t, filepath.Join("static", "shots", "a.png"), targets[0].ImagePath)
	assert.Equal(t, []string{}, targets[0].Tags)
	assert.Equal(t, "out/b.png", targets[1].ImagePath)
	assert.Equal(t, []string{"x", "x"}, targets[1].Tags)
}

func TestParseTargets_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not a list", "title: A"},
		{"empty", ""},
		{"missing link", "- title: A\n  image: /a.png\n"},
		{"duplicate title", "- {title: A, image: /a.png, link: \"https://a\"}\n- {title: A, image: /b.png, link: \"https://b\"}\n"},
		{"no derivable path", "- {title: A, image: \"https://cdn/a.png\", link: \"https://a\"}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTargets([]byte(tt.content), "public")
			require.Error(t, err)
			assert.Equal(t, models.ErrCodeInvalidInput, models.ErrorCode(err))
		})
	}
}

func TestLoadTargets_MissingFile(t *testing.T) {
	_, err := LoadTargets(filepath.Join(t.TempDir(), "missing.yaml"), "public")
	assert.Error(t, err)
}

func TestProjects_StripsImagePath(t *testing.T) {
	targets, err := LoadTargets("", "public")
	require.NoError(t, err)

	projects := models.Projects(targets)
	require.Len(t, projects, len(targets))
	for i := range targets {
		assert.Equal(t, targets[i].Project, projects[i])
	}
}
