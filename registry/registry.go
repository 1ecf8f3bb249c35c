package registry

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/use-agent/portfolio/models"
)

// Source records where a registry came from.
type Source string

const (
	SourceManifest Source = "manifest"
	SourceDefault  Source = "default"
)

//go:embed default_projects.json
var defaultProjectsJSON []byte

// Default returns the embedded registry shown when no usable manifest exists.
// Each call returns a fresh copy.
func Default() []models.Project {
	var projects []models.Project
	if err := json.Unmarshal(defaultProjectsJSON, &projects); err != nil {
		panic("registry: embedded default_projects.json is invalid: " + err.Error())
	}
	return projects
}

// Validate checks the fields every manifest entry must carry.
func Validate(p models.Project) error {
	var missing []string
	if strings.TrimSpace(p.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(p.Link) == "" {
		missing = append(missing, "link")
	}
	if strings.TrimSpace(p.Image) == "" {
		missing = append(missing, "image")
	}
	if len(missing) > 0 {
		return models.NewCaptureError(
			models.ErrCodeInvalidInput,
			fmt.Sprintf("project %q is missing %s", p.Title, strings.Join(missing, ", ")),
			nil,
		)
	}
	return nil
}

// Load reads the manifest at path. A missing, unreadable or structurally
// invalid manifest yields the embedded default registry. Individual entries
// that fail validation are dropped and logged; later entries reusing an
// earlier title are dropped too. If nothing valid remains, the default
// registry is returned.
func Load(path string) ([]models.Project, Source) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("registry: manifest unreadable, using default registry",
				"path", path, "error", err)
		} else {
			slog.Debug("registry: no manifest, using default registry", "path", path)
		}
		return Default(), SourceDefault
	}

	projects, err := Parse(data)
	if err != nil {
		slog.Warn("registry: manifest unparsable, using default registry",
			"path", path, "error", err)
		return Default(), SourceDefault
	}
	if len(projects) == 0 {
		slog.Warn("registry: manifest has no valid entries, using default registry",
			"path", path)
		return Default(), SourceDefault
	}
	return projects, SourceManifest
}

// Parse decodes a manifest document. It fails only when the document is not
// a JSON array; bad entries are skipped.
func Parse(data []byte) ([]models.Project, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("registry: manifest is not a JSON array: %w", err)
	}

	projects := make([]models.Project, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for i, entry := range raw {
		var p models.Project
		if err := json.Unmarshal(entry, &p); err != nil {
			slog.Warn("registry: dropping malformed entry", "index", i, "error", err)
			continue
		}
		if err := Validate(p); err != nil {
			slog.Warn("registry: dropping invalid entry", "index", i, "error", err)
			continue
		}
		if _, dup := seen[p.Title]; dup {
			slog.Warn("registry: dropping duplicate title", "index", i, "title", p.Title)
			continue
		}
		seen[p.Title] = struct{}{}
		if p.Tags == nil {
			p.Tags = []string{}
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// WriteManifest serialises projects in order to path as indented JSON,
// creating the parent directory. The file is replaced atomically.
func WriteManifest(path string, projects []models.Project) error {
	for _, p := range projects {
		if err := Validate(p); err != nil {
			return err
		}
	}
	if projects == nil {
		projects = []models.Project{}
	}

	data, err := json.MarshalIndent(projects, "", "  ")
	if err != nil {
		return fmt.Errorf("registry: encode manifest: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("registry: create manifest directory: %w", err)
	}
	return WriteFileAtomic(path, data)
}

// ImagePath maps a site-relative image reference such as
// "/screenshots/a.png" to its file under staticDir. References that are not
// site-relative (absolute URLs, data URIs) return "".
func ImagePath(staticDir, image string) string {
	if image == "" || !strings.HasPrefix(image, "/") || strings.HasPrefix(image, "//") {
		return ""
	}
	rel := strings.TrimPrefix(image, "/")
	if i := strings.IndexAny(rel, "?#"); i >= 0 {
		rel = rel[:i]
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == "." || strings.HasPrefix(clean, "..") {
		return ""
	}
	return filepath.Join(staticDir, clean)
}
