package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Site      SiteConfig
	Browser   BrowserConfig
	Capture   CaptureConfig
	Webhook   WebhookConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// SiteConfig locates the files shared by the capture pipeline and the renderer.
type SiteConfig struct {
	// ManifestPath is the project registry written by the capture pipeline.
	ManifestPath string // default: "lib/projects-data.json"

	// StaticDir is the public asset root; image references resolve against it.
	StaticDir string // default: "public"

	// BaseURL is the public origin of the site. The Markdown export uses it
	// to absolutize image and link references; empty leaves them relative.
	BaseURL string
}

// BrowserConfig controls the Rod browser launched for every capture attempt.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: true

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Proxy is passed to Chromium's --proxy-server.
	Proxy string

	// Stealth injects anti-bot-detection evasions before navigation.
	Stealth bool // default: true

	// BlockAds aborts requests to well-known ad and tracking domains.
	BlockAds bool // default: false

	// ExtraBlockedDomains are added to the built-in ad domain list.
	ExtraBlockedDomains []string
}

// CaptureConfig controls the screenshot pipeline.
type CaptureConfig struct {
	// TargetsFile is an optional YAML list of capture targets.
	// Empty means the embedded default list.
	TargetsFile string

	// MaxAttempts is the number of attempts per project.
	MaxAttempts int // default: 3

	ViewportWidth  int     // default: 1200
	ViewportHeight int     // default: 800
	ScaleFactor    float64 // default: 1

	// UserAgent is sent by the browser instead of the headless default.
	UserAgent string

	// NavigationTimeout bounds navigation plus the idle wait.
	NavigationTimeout time.Duration // default: 30s

	// IdleQuiet is how long the network must stay idle.
	IdleQuiet time.Duration // default: 500ms

	// SettleDelay is the fixed wait between navigation and capture.
	SettleDelay time.Duration // default: 2s

	// BackoffUnit is multiplied by the attempt number between retries.
	BackoffUnit time.Duration // default: 1s

	// RecordPause is the fixed pause between two projects.
	RecordPause time.Duration // default: 1s

	// Preflight probes each link over plain HTTP before launching a browser.
	Preflight bool // default: false

	// RemoveOverlays strips cookie banners and popups before capture.
	RemoveOverlays bool // default: false
}

// WebhookConfig controls the optional run summary notification.
type WebhookConfig struct {
	URL    string
	Secret string
}

// RateLimitConfig controls per-client rate limiting of the contact form.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per client IP.
	RequestsPerSecond float64 // default: 0.2

	// Burst is the maximum burst size per client IP.
	Burst int // default: 3
}

// CacheConfig controls the rendered page cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached pages.
	MaxEntries int // default: 16

	// MaxAge bounds how long a page is served without re-rendering, so a
	// screenshot written without a manifest change still shows up.
	MaxAge time.Duration // default: 30s
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "text"
}

// DefaultUserAgent is a desktop Chrome user agent string.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("PORTFOLIO_HOST", "0.0.0.0"),
			Port: envIntOr("PORTFOLIO_PORT", 8080),
			Mode: envOr("PORTFOLIO_MODE", "release"),
		},
		Site: SiteConfig{
			ManifestPath: envOr("PORTFOLIO_MANIFEST", "lib/projects-data.json"),
			StaticDir:    envOr("PORTFOLIO_STATIC_DIR", "public"),
			BaseURL:      os.Getenv("PORTFOLIO_BASE_URL"),
		},
		Browser: BrowserConfig{
			Headless:   envBoolOr("PORTFOLIO_HEADLESS", true),
			NoSandbox:  envBoolOr("PORTFOLIO_NO_SANDBOX", true),
			BrowserBin: os.Getenv("PORTFOLIO_BROWSER_BIN"),
			Proxy:      os.Getenv("PORTFOLIO_PROXY"),
			Stealth:    envBoolOr("PORTFOLIO_STEALTH", true),
			BlockAds:   envBoolOr("PORTFOLIO_BLOCK_ADS", false),

			ExtraBlockedDomains: envSliceOr("PORTFOLIO_BLOCK_DOMAINS", nil),
		},
		Capture: CaptureConfig{
			TargetsFile:       os.Getenv("PORTFOLIO_TARGETS_FILE"),
			MaxAttempts:       envIntOr("PORTFOLIO_MAX_ATTEMPTS", 3),
			ViewportWidth:     envIntOr("PORTFOLIO_VIEWPORT_WIDTH", 1200),
			ViewportHeight:    envIntOr("PORTFOLIO_VIEWPORT_HEIGHT", 800),
			ScaleFactor:       envFloatOr("PORTFOLIO_SCALE_FACTOR", 1),
			UserAgent:         envOr("PORTFOLIO_USER_AGENT", DefaultUserAgent),
			NavigationTimeout: envDurationOr("PORTFOLIO_NAV_TIMEOUT", 30*time.Second),
			IdleQuiet:         envDurationOr("PORTFOLIO_IDLE_QUIET", 500*time.Millisecond),
			SettleDelay:       envDurationOr("PORTFOLIO_SETTLE_DELAY", 2*time.Second),
			BackoffUnit:       envDurationOr("PORTFOLIO_BACKOFF_UNIT", time.Second),
			RecordPause:       envDurationOr("PORTFOLIO_RECORD_PAUSE", time.Second),
			Preflight:         envBoolOr("PORTFOLIO_PREFLIGHT", false),
			RemoveOverlays:    envBoolOr("PORTFOLIO_REMOVE_OVERLAYS", false),
		},
		Webhook: WebhookConfig{
			URL:    os.Getenv("PORTFOLIO_WEBHOOK_URL"),
			Secret: os.Getenv("PORTFOLIO_WEBHOOK_SECRET"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("PORTFOLIO_CONTACT_RPS", 0.2),
			Burst:             envIntOr("PORTFOLIO_CONTACT_BURST", 3),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("PORTFOLIO_CACHE_MAX_ENTRIES", 16),
			MaxAge:     envDurationOr("PORTFOLIO_CACHE_MAX_AGE", 30*time.Second),
		},
		Log: LogConfig{
			Level:  envOr("PORTFOLIO_LOG_LEVEL", "info"),
			Format: envOr("PORTFOLIO_LOG_FORMAT", "text"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envSliceOr splits a comma-separated variable, dropping empty items.
func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
