// Package browser launches the headless browser a crawl runs in. A Session
// owns one browser process with a single tab that is reused for every url.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/AlfredBerg/rod-profile-scraper/internal/fetch"
)

const (
	DriverRod      = "rod"
	DriverChromedp = "chromedp"

	DefaultNavigateTimeout = 30 * time.Second
)

type Options struct {
	// Driver selects the automation library, DriverRod or DriverChromedp.
	Driver   string
	Headless bool
	// Bin is the browser executable. Empty lets the driver find or download one.
	Bin             string
	NavigateTimeout time.Duration
}

// Session is a fetch.Session that must be closed exactly once.
type Session interface {
	fetch.Session
	Close() error
}

// Launch starts a browser with the flags needed to run inside containers:
// headless, no sandbox, no /dev/shm and no gpu.
func Launch(ctx context.Context, o Options) (Session, error) {
	if o.NavigateTimeout <= 0 {
		o.NavigateTimeout = DefaultNavigateTimeout
	}
	switch o.Driver {
	case "", DriverRod:
		return LaunchRod(ctx, o)
	case DriverChromedp:
		return LaunchChromedp(ctx, o)
	}
	return nil, fmt.Errorf("unknown browser driver %q", o.Driver)
}
