package fetch

import (
	"context"
	"time"
)

// Session is one browser tab. All calls on it happen sequentially.
type Session interface {
	// Navigate loads url in the tab.
	Navigate(ctx context.Context, url string) error
	// WaitLandmark blocks until an element matching selector is present or timeout expires.
	WaitLandmark(ctx context.Context, selector string, timeout time.Duration) error
	// Title returns the current document title.
	Title(ctx context.Context) (string, error)
	// HTML returns the rendered DOM of the current page.
	HTML(ctx context.Context) (string, error)
}

// Landmarks are the css selectors the fetcher depends on. They follow the
// markup twitter.com currently serves and break whenever it changes.
type Landmarks struct {
	// Title and Header must both be present before a page is read. Header
	// matches the count links, which the profile header renders last.
	Title  string
	Header string

	Bio       string
	Following string
	Followers string
	Location  string
	Website   string
}

var DefaultLandmarks = Landmarks{
	Title:     "head > title",
	Header:    "a[href$='/followers'], a[href$='/verified_followers']",
	Bio:       "div[data-testid='UserDescription']",
	Following: "a[href$='/following']",
	Followers: "a[href$='/followers'], a[href$='/verified_followers']",
	Location:  "span[data-testid='UserLocation']",
	Website:   "a[data-testid='UserUrl']",
}
