package registry

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/use-agent/portfolio/models"
	"gopkg.in/yaml.v3"
)

//go:embed targets.yaml
var defaultTargetsYAML []byte

// LoadTargets reads the capture target list from a YAML file, or the
// embedded list when path is empty. Targets without an explicit imagePath
// get one derived from their image reference under staticDir.
//
// Unlike manifest loading this is strict: the list is hand-authored, so a
// bad entry is reported before any browser is launched.
func LoadTargets(path, staticDir string) ([]models.Target, error) {
	data := defaultTargetsYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("registry: read targets file: %w", err)
		}
		data = b
	}
	return ParseTargets(data, staticDir)
}

// ParseTargets decodes and validates a YAML target list.
func ParseTargets(data []byte, staticDir string) ([]models.Target, error) {
	var targets []models.Target
	if err := yaml.Unmarshal(data, &targets); err != nil {
		return nil, models.NewCaptureError(models.ErrCodeInvalidInput, "targets file is not a YAML list", err)
	}
	if len(targets) == 0 {
		return nil, models.NewCaptureError(models.ErrCodeInvalidInput, "targets file lists no projects", nil)
	}

	seen := make(map[string]int, len(targets))
	for i := range targets {
		t := &targets[i]
		if err := Validate(t.Project); err != nil {
			return nil, fmt.Errorf("target %d: %w", i, err)
		}
		if prev, dup := seen[t.Title]; dup {
			return nil, models.NewCaptureError(
				models.ErrCodeInvalidInput,
				fmt.Sprintf("target %d reuses title %q of target %d", i, t.Title, prev),
				nil,
			)
		}
		seen[t.Title] = i

		if t.ImagePath == "" {
			t.ImagePath = ImagePath(staticDir, t.Image)
		}
		if t.ImagePath == "" {
			return nil, models.NewCaptureError(
				models.ErrCodeInvalidInput,
				fmt.Sprintf("target %q needs an imagePath: image %q is not a site path", t.Title, t.Image),
				nil,
			)
		}
		if t.Tags == nil {
			t.Tags = []string{}
		}
	}
	return targets, nil
}
