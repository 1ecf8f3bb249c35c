// Command screenshots captures a screenshot of every portfolio project and
// writes the project manifest read by the site.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/use-agent/portfolio/capture"
	"github.com/use-agent/portfolio/config"
	"github.com/use-agent/portfolio/probe"
	"github.com/use-agent/portfolio/registry"
	"github.com/use-agent/portfolio/webhook"
)

func main() {
	if err := newRootCmd(config.Load()).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd layers command-line flags over the environment configuration.
func newRootCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "screenshots",
		Short: "Capture project screenshots and write the project manifest",
		Long: `Renders every project link in a headless browser, saves a viewport PNG
per project and writes the manifest the portfolio site is rendered from.

Projects that fail after all attempts are reported but do not fail the run.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			initLogger(cfg.Log, cmd.ErrOrStderr())
			if err := run(cmd.Context(), cfg, capture.NewRodLauncher(cfg.Browser, cfg.Capture), cmd.OutOrStdout()); err != nil {
				slog.Error("screenshot run failed", "error", err)
				return err
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.Capture.TargetsFile, "targets", cfg.Capture.TargetsFile, "YAML file listing the projects to capture (default: built-in list)")
	f.StringVar(&cfg.Site.ManifestPath, "manifest", cfg.Site.ManifestPath, "where to write the project manifest")
	f.StringVar(&cfg.Site.StaticDir, "static-dir", cfg.Site.StaticDir, "public asset root that image paths resolve against")
	f.IntVar(&cfg.Capture.MaxAttempts, "max-attempts", cfg.Capture.MaxAttempts, "attempts per project")
	f.DurationVar(&cfg.Capture.NavigationTimeout, "timeout", cfg.Capture.NavigationTimeout, "navigation timeout per attempt")
	f.BoolVar(&cfg.Capture.Preflight, "preflight", cfg.Capture.Preflight, "probe each link over plain HTTP before launching a browser")
	f.BoolVar(&cfg.Capture.RemoveOverlays, "remove-overlays", cfg.Capture.RemoveOverlays, "remove cookie banners and popups before capturing")
	f.BoolVar(&cfg.Browser.BlockAds, "block-ads", cfg.Browser.BlockAds, "block ad and tracking requests")
	f.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "debug, info, warn or error")
	f.StringVar(&cfg.Log.Format, "log-format", cfg.Log.Format, "text or json")

	return cmd
}

// run executes one capture run. Only an unusable targets file or an
// unwritable manifest is an error.
func run(ctx context.Context, cfg *config.Config, launcher capture.Launcher, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// ── 1. Targets ──────────────────────────────────────────────────
	targets, err := registry.LoadTargets(cfg.Capture.TargetsFile, cfg.Site.StaticDir)
	if err != nil {
		return err
	}

	// ── 2. Pipeline ─────────────────────────────────────────────────
	pipeline := capture.NewPipeline(launcher, capture.OptionsFromConfig(cfg.Capture, cfg.Site))
	if cfg.Capture.Preflight {
		pipeline.SetProber(probe.New(cfg.Capture.UserAgent, cfg.Browser.Proxy))
	}
	if cfg.Webhook.URL != "" {
		pipeline.SetNotifier(func(ctx context.Context, s *capture.Summary) {
			event := webhook.NewEvent(webhook.EventCaptureCompleted, s.RunID, s)
			_ = webhook.DeliverWithRetry(ctx, cfg.Webhook.URL, cfg.Webhook.Secret, event, webhook.DefaultDelays)
		})
	}

	// ── 3. Run ──────────────────────────────────────────────────────
	summary, err := pipeline.RunAll(ctx, targets)
	if summary != nil {
		summary.Print(out)
	}
	if err != nil {
		return fmt.Errorf("screenshots: %w", err)
	}
	return nil
}

// initLogger configures slog based on the LogConfig. Logs go to w so the
// summary on stdout stays readable.
func initLogger(cfg config.LogConfig, w io.Writer) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}
