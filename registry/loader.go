package registry

import (
	"fmt"
	"os"
	"sync"

	"github.com/use-agent/portfolio/models"
)

// Snapshot is an immutable view of the registry at one manifest version.
type Snapshot struct {
	Projects []models.Project
	Source   Source

	// Version changes whenever the manifest file changes on disk.
	Version string
}

// Loader serves the registry to the page renderer, re-reading the manifest
// only when its modification time or size changes. It is safe for
// concurrent use.
type Loader struct {
	path string

	mu      sync.Mutex
	current *Snapshot
}

// NewLoader creates a Loader for the manifest at path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Path returns the manifest path.
func (l *Loader) Path() string { return l.path }

// Snapshot returns the registry for the manifest currently on disk.
// Callers must not modify the returned projects.
func (l *Loader) Snapshot() *Snapshot {
	version := l.version()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current != nil && l.current.Version == version {
		return l.current
	}

	projects, source := Load(l.path)
	l.current = &Snapshot{
		Projects: projects,
		Source:   source,
		Version:  version,
	}
	return l.current
}

func (l *Loader) version() string {
	info, err := os.Stat(l.path)
	if err != nil {
		return "default"
	}
	return fmt.Sprintf("%d-%d", info.ModTime().UnixNano(), info.Size())
}
