package capture

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/use-agent/portfolio/config"
	"github.com/use-agent/portfolio/models"
	"github.com/use-agent/portfolio/probe"
	"github.com/use-agent/portfolio/registry"
)

// Options tune the retry loop and the pacing of a run.
type Options struct {
	// MaxAttempts per project; values below 1 mean 1.
	MaxAttempts int

	// NavigationTimeout bounds navigation and the idle wait of one attempt.
	NavigationTimeout time.Duration

	// SettleDelay is waited between navigation and capture so animations
	// and late layout finish.
	SettleDelay time.Duration

	// BackoffUnit times the failed attempt number is waited before a retry.
	BackoffUnit time.Duration

	// RecordPause is waited between two projects.
	RecordPause time.Duration

	// ManifestPath receives the project registry after the run.
	ManifestPath string
}

// OptionsFromConfig builds Options from the loaded configuration.
func OptionsFromConfig(capture config.CaptureConfig, site config.SiteConfig) Options {
	return Options{
		MaxAttempts:       capture.MaxAttempts,
		NavigationTimeout: capture.NavigationTimeout,
		SettleDelay:       capture.SettleDelay,
		BackoffUnit:       capture.BackoffUnit,
		RecordPause:       capture.RecordPause,
		ManifestPath:      site.ManifestPath,
	}
}

// Prober checks a link before a browser is launched for it.
type Prober interface {
	Probe(ctx context.Context, rawURL string) (*probe.Result, error)
}

// Pipeline captures targets one after another. It is not safe for
// concurrent use: at most one browser session is alive at any time.
type Pipeline struct {
	launcher Launcher
	opts     Options
	prober   Prober
	notify   func(ctx context.Context, s *Summary)

	// sleep is replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPipeline creates a Pipeline that opens sessions through l.
func NewPipeline(l Launcher, opts Options) *Pipeline {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	return &Pipeline{
		launcher: l,
		opts:     opts,
		sleep:    sleepContext,
	}
}

// SetProber enables a preflight probe before every attempt.
func (p *Pipeline) SetProber(pr Prober) {
	p.prober = pr
}

// SetNotifier registers fn to receive the summary once the manifest is
// written.
func (p *Pipeline) SetNotifier(fn func(ctx context.Context, s *Summary)) {
	p.notify = fn
}

// CaptureOne captures a single target, retrying with a linear backoff. It
// never returns an error: the outcome, including the last failure, is in
// the Result.
func (p *Pipeline) CaptureOne(ctx context.Context, t models.Target) Result {
	var lastErr error
	attempt := 0

	for attempt < p.opts.MaxAttempts {
		attempt++
		slog.Info("capturing screenshot",
			"project", t.Title, "link", t.Link,
			"attempt", attempt, "maxAttempts", p.opts.MaxAttempts,
		)

		err := p.attempt(ctx, t)
		if err == nil {
			slog.Info("screenshot saved", "project", t.Title, "path", t.ImagePath, "attempt", attempt)
			return Result{ProjectTitle: t.Title, Succeeded: true, Attempt: attempt}
		}
		lastErr = err
		slog.Warn("screenshot attempt failed",
			"project", t.Title, "attempt", attempt,
			"code", models.ErrorCode(err), "error", err,
		)

		if attempt == p.opts.MaxAttempts || ctx.Err() != nil {
			break
		}
		backoff := time.Duration(attempt) * p.opts.BackoffUnit
		slog.Debug("waiting before retry", "project", t.Title, "backoff", backoff)
		if err := p.sleep(ctx, backoff); err != nil {
			break
		}
	}

	return Result{
		ProjectTitle: t.Title,
		Succeeded:    false,
		Attempt:      attempt,
		Err: models.NewCaptureError(
			models.ErrCodeExhaustedRetries,
			fmt.Sprintf("gave up on %q after %d attempt(s)", t.Title, attempt),
			lastErr,
		),
	}
}

// attempt runs one launch → navigate → settle → capture → write cycle. The
// session is closed on every return path, including a panic raised inside
// the browser driver.
func (p *Pipeline) attempt(ctx context.Context, t models.Target) (err error) {
	// ── 1. Preflight ──────────────────────────────────────────────────
	if p.prober != nil {
		probeCtx, cancel := context.WithTimeout(ctx, p.opts.NavigationTimeout)
		res, perr := p.prober.Probe(probeCtx, t.Link)
		cancel()
		if perr != nil {
			return models.Categorize(perr, models.ErrCodeNavigation, "preflight failed")
		}
		slog.Debug("preflight ok",
			"project", t.Title, "status", res.StatusCode,
			"finalURL", res.FinalURL, "title", res.Title, "description", res.Description,
		)
	}

	// ── 2. Fresh session ──────────────────────────────────────────────
	session, err := p.launcher.Launch(ctx)
	if err != nil {
		return models.Categorize(err, models.ErrCodeBrowserCrash, "failed to start browser")
	}

	// ── 3. DEFER: release, whatever happens below ─────────────────────
	defer func() {
		if r := recover(); r != nil {
			err = models.NewCaptureError(models.ErrCodeBrowserCrash,
				"browser session panicked", fmt.Errorf("%v", r))
		}
		if cerr := session.Close(); cerr != nil {
			slog.Warn("failed to release browser session", "project", t.Title, "error", cerr)
		}
	}()

	// ── 4. Navigate with a hard deadline ──────────────────────────────
	navCtx, cancel := context.WithTimeout(ctx, p.opts.NavigationTimeout)
	err = session.Navigate(navCtx, t.Link)
	cancel()
	if err != nil {
		return models.Categorize(err, models.ErrCodeNavigation, "navigation to target URL failed")
	}

	// ── 5. Settle ─────────────────────────────────────────────────────
	if err := p.sleep(ctx, p.opts.SettleDelay); err != nil {
		return models.Categorize(err, models.ErrCodeCapture, "interrupted while settling")
	}

	// ── 6. Capture ────────────────────────────────────────────────────
	shotCtx, cancel := context.WithTimeout(ctx, p.opts.NavigationTimeout)
	data, err := session.Screenshot(shotCtx)
	cancel()
	if err != nil {
		return models.Categorize(err, models.ErrCodeCapture, "screenshot failed")
	}
	if len(data) == 0 {
		return models.NewCaptureError(models.ErrCodeCapture, "browser returned an empty screenshot", nil)
	}

	// ── 7. Persist ────────────────────────────────────────────────────
	return writeImage(t.ImagePath, data)
}

// writeImage stores data at path atomically, creating parent directories.
func writeImage(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return models.NewCaptureError(models.ErrCodeCapture, "failed to create image directory", err)
	}
	if err := registry.WriteFileAtomic(path, data); err != nil {
		return models.NewCaptureError(models.ErrCodeCapture, "failed to write image", err)
	}
	return nil
}

// RunAll captures every target in order, then writes the manifest listing
// all of them, failed ones included. Per-project failures only show up in the
// Summary; the returned error is reserved for a manifest that could not be
// written.
func (p *Pipeline) RunAll(ctx context.Context, targets []models.Target) (*Summary, error) {
	start := time.Now()
	summary := &Summary{
		RunID: uuid.NewString(),
		Total: len(targets),
	}

	slog.Info("starting screenshot run", "runId", summary.RunID, "projects", len(targets))
	for i, t := range targets {
		slog.Info("queued", "index", i+1, "project", t.Title, "link", t.Link)
	}

	for i, t := range targets {
		if i > 0 {
			_ = p.sleep(ctx, p.opts.RecordPause)
		}
		summary.Add(p.CaptureOne(ctx, t))
	}
	summary.Duration = time.Since(start)
	summary.DurationMS = summary.Duration.Milliseconds()

	if err := registry.WriteManifest(p.opts.ManifestPath, models.Projects(targets)); err != nil {
		return summary, fmt.Errorf("capture: write manifest: %w", err)
	}
	slog.Info("manifest written",
		"path", p.opts.ManifestPath, "projects", len(targets),
		"succeeded", summary.Succeeded, "failed", summary.Failed,
	)

	if p.notify != nil {
		p.notify(ctx, summary)
	}
	return summary, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
