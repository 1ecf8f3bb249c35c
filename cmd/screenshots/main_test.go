package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/portfolio/capture"
	"github.com/use-agent/portfolio/config"
	"github.com/use-agent/portfolio/models"
	"github.com/use-agent/portfolio/webhook"
)

// stubLauncher fails navigation for every URL in down.
type stubLauncher struct {
	down map[string]bool
}

func (l stubLauncher) Launch(context.Context) (capture.Session, error) {
	return &stubSession{down: l.down}, nil
}

type stubSession struct {
	down map[string]bool
}

func (s *stubSession) Navigate(_ context.Context, url string) error {
	if s.down[url] {
		return errors.New("net::ERR_NAME_NOT_RESOLVED")
	}
	return nil
}

func (s *stubSession) Screenshot(context.Context) ([]byte, error) { return []byte("png"), nil }
func (s *stubSession) Close() error                                { return nil }

const targetsYAML = `
- title: A
  description: first
  image: /screenshots/a.png
  link: "https://good.example"
  tags: [Go]
- title: B
  description: second
  image: /screenshots/b.png
  link: "https://bad.example"
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	targets := filepath.Join(dir, "targets.yaml")
	require.NoError(t, os.WriteFile(targets, []byte(targetsYAML), 0o644))

	cfg := config.Load()
	cfg.Capture.TargetsFile = targets
	cfg.Capture.SettleDelay = 0
	cfg.Capture.BackoffUnit = 0
	cfg.Capture.RecordPause = 0
	cfg.Site.StaticDir = filepath.Join(dir, "public")
	cfg.Site.ManifestPath = filepath.Join(dir, "lib", "projects-data.json")
	cfg.Webhook.URL = ""
	return cfg
}

func TestRun_PartialFailureSucceeds(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	err := run(context.Background(), cfg, stubLauncher{down: map[string]bool{"https://bad.example": true}}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Successful: 1")
	assert.Contains(t, out.String(), "Failed: 1")
	assert.Contains(t, out.String(), "  - B")

	assert.FileExists(t, filepath.Join(cfg.Site.StaticDir, "screenshots", "a.png"))
	assert.NoFileExists(t, filepath.Join(cfg.Site.StaticDir, "screenshots", "b.png"))

	data, err := os.ReadFile(cfg.Site.ManifestPath)
	require.NoError(t, err)
	var manifest []models.Project
	require.NoError(t, json.Unmarshal(data, &manifest))
	assert.Len(t, manifest, 2)
}

func TestRun_InvalidTargetsFile(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.Capture.TargetsFile, []byte("- title: A\n"), 0o644))

	err := run(context.Background(), cfg, stubLauncher{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, models.ErrCodeInvalidInput, models.ErrorCode(err))
	assert.NoFileExists(t, cfg.Site.ManifestPath)
}

func TestRun_UnwritableManifest(t *testing.T) {
	cfg := testConfig(t)
	blocker := filepath.Dir(cfg.Site.ManifestPath)
	require.NoError(t, os.WriteFile(blocker, []byte("file in the way"), 0o644))

	var out bytes.Buffer
	err := run(context.Background(), cfg, stubLauncher{}, &out)
	require.Error(t, err)
	assert.Contains(t, out.String(), "Successful: 2", "summary is still printed")
}

func TestRun_SendsWebhook(t *testing.T) {
	received := make(chan webhook.Event, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var e webhook.Event
		_ = json.NewDecoder(r.Body).Decode(&e)
		received <- e
	}))
	defer srv.Close()

	cfg := testConfig(t)
	cfg.Webhook.URL = srv.URL

	require.NoError(t, run(context.Background(), cfg, stubLauncher{}, &bytes.Buffer{}))

	select {
	case e := <-received:
		assert.Equal(t, webhook.EventCaptureCompleted, e.Type)
		assert.NotEmpty(t, e.RunID)
	case <-time.After(time.Second):
		t.Fatal("webhook not delivered")
	}
}

func TestRootCmd_FlagsOverrideConfig(t *testing.T) {
	cfg := config.Load()
	cmd := newRootCmd(cfg)

	require.NoError(t, cmd.ParseFlags([]string{
		"--targets", "custom.yaml",
		"--manifest", "out/projects.json",
		"--max-attempts", "5",
		"--timeout", "10s",
		"--preflight",
		"--log-level", "debug",
	}))

	assert.Equal(t, "custom.yaml", cfg.Capture.TargetsFile)
	assert.Equal(t, "out/projects.json", cfg.Site.ManifestPath)
	assert.Equal(t, 5, cfg.Capture.MaxAttempts)
	assert.Equal(t, 10*time.Second, cfg.Capture.NavigationTimeout)
	assert.True(t, cfg.Capture.Preflight)
	assert.Equal(t, "debug", cfg.Log.Level)
}
