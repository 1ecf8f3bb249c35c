// Package capture renders external project pages in a headless browser and
// stores one PNG screenshot per project, then records the project registry
// for the site.
package capture

import "context"

// Launcher starts a fresh browser session. Every capture attempt gets its own
// session so a crash or a wedged page cannot leak into the next attempt.
type Launcher interface {
	Launch(ctx context.Context) (Session, error)
}

// Session is one browser with one page.
type Session interface {
	// Navigate loads url and returns once the network has been idle for the
	// configured quiet period, or ctx expires.
	Navigate(ctx context.Context, url string) error

	// Screenshot captures the visible viewport as PNG.
	Screenshot(ctx context.Context) ([]byte, error)

	// Close releases the browser process. It is safe to call more than once.
	Close() error
}
