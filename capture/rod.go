package capture

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/portfolio/config"
	"github.com/use-agent/portfolio/models"
	"github.com/ysmood/gson"
)

// RodLauncher launches a new Chromium process per session.
type RodLauncher struct {
	browserCfg config.BrowserConfig
	captureCfg config.CaptureConfig
	blocklist  *domainSet
}

// NewRodLauncher creates a RodLauncher. Nothing is started until Launch.
func NewRodLauncher(browserCfg config.BrowserConfig, captureCfg config.CaptureConfig) *RodLauncher {
	return &RodLauncher{
		browserCfg: browserCfg,
		captureCfg: captureCfg,
		blocklist:  newDomainSet(browserCfg.ExtraBlockedDomains),
	}
}

// Launch starts Chromium, connects to it and prepares a single page with the
// configured viewport, user agent and evasions.
func (r *RodLauncher) Launch(ctx context.Context) (Session, error) {
	l := launcher.New().
		Context(ctx).
		Headless(r.browserCfg.Headless).
		NoSandbox(r.browserCfg.NoSandbox)

	if r.browserCfg.BrowserBin != "" {
		l = l.Bin(r.browserCfg.BrowserBin)
	}
	if r.browserCfg.Proxy != "" {
		l = l.Proxy(r.browserCfg.Proxy)
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "AudioServiceOutOfProcess,TranslateUI")
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("hide-scrollbars"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewCaptureError(models.ErrCodeBrowserCrash, "failed to launch browser", err)
	}
	slog.Debug("browser launched", "controlURL", controlURL)

	s := &rodSession{launcher: l, cfg: r.captureCfg}

	s.browser = rod.New().ControlURL(controlURL)
	if err := s.browser.Connect(); err != nil {
		s.browser = nil
		_ = s.Close()
		return nil, models.NewCaptureError(models.ErrCodeBrowserCrash, "failed to connect to browser", err)
	}

	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = s.Close()
		return nil, models.NewCaptureError(models.ErrCodeBrowserCrash, "failed to open page", err)
	}
	s.page = page

	if err := s.prepare(r.browserCfg, r.blocklist); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// rodSession is a Session backed by a dedicated Chromium process.
type rodSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	router   *rod.HijackRouter
	cfg      config.CaptureConfig

	closeOnce sync.Once
	closeErr  error
}

// prepare configures the page. Everything here must happen before the first
// navigation: evasions and interception only apply to later documents.
func (s *rodSession) prepare(browserCfg config.BrowserConfig, blocklist *domainSet) error {
	// ── 1. Viewport ───────────────────────────────────────────────────
	if err := s.page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             s.cfg.ViewportWidth,
		Height:            s.cfg.ViewportHeight,
		DeviceScaleFactor: s.cfg.ScaleFactor,
		Mobile:            false,
	}); err != nil {
		return models.NewCaptureError(models.ErrCodeBrowserCrash, "failed to set viewport", err)
	}

	// ── 2. User agent + headers ───────────────────────────────────────
	if s.cfg.UserAgent != "" {
		if err := s.page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent: s.cfg.UserAgent,
		}); err != nil {
			return models.NewCaptureError(models.ErrCodeBrowserCrash, "failed to set user agent", err)
		}
	}
	_ = proto.NetworkSetExtraHTTPHeaders{
		Headers: toHeadersMap(map[string]string{"Accept-Language": "en-US,en;q=0.9"}),
	}.Call(s.page)

	// ── 3. Stealth injection ──────────────────────────────────────────
	if browserCfg.Stealth {
		if _, err := s.page.EvalOnNewDocument(stealth.JS); err != nil {
			slog.Warn("stealth injection failed, proceeding without stealth", "error", err)
		}
	}

	// ── 4. Ad / tracker blocking ──────────────────────────────────────
	if browserCfg.BlockAds {
		s.router = setupHijack(s.page, blocklist)
	}
	return nil
}

// Navigate loads url and waits for the network to go quiet.
//
// The idle waiter is registered before Navigate so requests started during
// the load are counted. WaitRequestIdle relies on the Fetch domain, which
// conflicts with an active hijack router, so with ad blocking on the session
// waits for a stable DOM instead.
func (s *rodSession) Navigate(ctx context.Context, url string) error {
	p := s.page.Context(ctx)

	var waitIdle func()
	if s.router == nil {
		waitIdle = p.WaitRequestIdle(s.cfg.IdleQuiet, nil, nil, nil)
	}

	if err := p.Navigate(url); err != nil {
		return models.Categorize(err, models.ErrCodeNavigation, "navigation to target URL failed")
	}

	if waitIdle != nil {
		waitIdle()
	} else if err := p.WaitDOMStable(s.cfg.IdleQuiet, 0.1); err != nil {
		return models.Categorize(err, models.ErrCodeNavigation, "page did not settle")
	}
	if err := ctx.Err(); err != nil {
		return models.Categorize(err, models.ErrCodeNavigation, "network did not go idle before the deadline")
	}

	if status := navigationStatus(p); status >= 400 {
		return models.NewCaptureError(models.ErrCodeNavigation,
			fmt.Sprintf("target answered HTTP %d", status), nil)
	}
	return nil
}

// Screenshot captures the viewport as PNG.
func (s *rodSession) Screenshot(ctx context.Context) ([]byte, error) {
	p := s.page.Context(ctx)
	if s.cfg.RemoveOverlays {
		removeOverlays(p)
	}
	data, err := p.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, models.Categorize(err, models.ErrCodeCapture, "screenshot failed")
	}
	return data, nil
}

// Close stops interception, closes the browser, kills the process and
// removes its temporary profile.
func (s *rodSession) Close() error {
	s.closeOnce.Do(func() {
		if s.router != nil {
			_ = s.router.Stop()
		}
		if s.browser != nil {
			if err := s.browser.Close(); err != nil {
				s.closeErr = fmt.Errorf("capture: close browser: %w", err)
			}
		}
		s.launcher.Kill()
		s.launcher.Cleanup()
	})
	return s.closeErr
}

// navigationStatus reads the main document's HTTP status from the Navigation
// Timing API. It returns 0 when the browser does not expose one.
func navigationStatus(p *rod.Page) int {
	res, err := p.Eval(`() => {
		try {
			const entries = performance.getEntriesByType("navigation");
			if (entries.length > 0) return entries[0].responseStatus || 0;
		} catch(e) {}
		return 0;
	}`)
	if err != nil {
		return 0
	}
	return res.Value.Int()
}

// toHeadersMap converts a plain string map to proto.NetworkHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

// removeOverlays deletes fixed or sticky elements with a high z-index and
// common consent-banner containers, which would otherwise cover the
// screenshot.
func removeOverlays(p *rod.Page) {
	const js = `() => {
		for (const el of document.querySelectorAll('*')) {
			const style = window.getComputedStyle(el);
			if (style.position === 'fixed' || style.position === 'sticky') {
				const z = parseInt(style.zIndex, 10);
				if (z >= 900) el.remove();
			}
		}
		const selectors = [
			'[class*="cookie"]', '[id*="cookie"]',
			'[class*="consent"]', '[id*="consent"]',
			'[class*="gdpr"]', '[id*="gdpr"]',
		];
		for (const sel of selectors) {
			document.querySelectorAll(sel).forEach(el => {
				const pos = window.getComputedStyle(el).position;
				if (pos === 'fixed' || pos === 'sticky' || pos === 'absolute') el.remove();
			});
		}
		document.documentElement.style.overflow = '';
		document.body.style.overflow = '';
	}`
	if _, err := p.Eval(js); err != nil {
		slog.Debug("overlay removal failed", "error", err)
	}
}
