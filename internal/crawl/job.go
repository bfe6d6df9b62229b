package crawl

import (
	"context"
	"errors"

	"github.com/AlfredBerg/rod-profile-scraper/internal/fetch"
	"github.com/AlfredBerg/rod-profile-scraper/internal/profile"
)

var (
	// ErrSession is returned when the browser could not be started.
	ErrSession = errors.New("could not establish browser session")
	// ErrOutput is returned when the output could not be opened.
	ErrOutput = errors.New("could not open output")
)

// Session is the browser tab a Job drives. The Job closes it exactly once.
type Session interface {
	fetch.Session
	Close() error
}

// OutputHandler is where records end up: a keyed store that skips urls it
// already has, or a file written in full on Cleanup.
type OutputHandler interface {
	Init(ctx context.Context) error
	HandleProfile(ctx context.Context, url string, rec profile.Record) (profile.Outcome, error)
	Cleanup(ctx context.Context) error
}

type Job struct {
	// Targets are the raw candidate urls, validated and deduplicated by Run.
	Targets       []string
	NewSession    func(ctx context.Context) (Session, error)
	Fetcher       *fetch.Fetcher
	OutputHandler OutputHandler

	state State
}

// Summary counts what happened to the urls of one run.
type Summary struct {
	Rejected    int
	Attempted   int
	Stored      int
	Skipped     int
	Failed      int
	FetchFailed int
}
