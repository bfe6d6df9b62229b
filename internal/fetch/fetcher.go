package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"

	"github.com/AlfredBerg/rod-profile-scraper/internal/logger"
	"github.com/AlfredBerg/rod-profile-scraper/internal/profile"
)

const (
	DefaultMaxAttempts = 3
	DefaultWaitTimeout = 10 * time.Second
	DefaultBackoff     = 2 * time.Second
)

type Options struct {
	MaxAttempts int
	WaitTimeout time.Duration
	Backoff     time.Duration
	Fields      profile.FieldSet
	Landmarks   Landmarks
}

type Fetcher struct {
	maxAttempts int
	waitTimeout time.Duration
	backoff     time.Duration
	fields      profile.FieldSet
	landmarks   Landmarks
}

// New returns a Fetcher. Zero MaxAttempts, WaitTimeout, Fields and Landmarks
// fall back to the defaults; a zero Backoff retries without pausing.
func New(o Options) *Fetcher {
	f := &Fetcher{
		maxAttempts: o.MaxAttempts,
		waitTimeout: o.WaitTimeout,
		backoff:     o.Backoff,
		fields:      o.Fields,
		landmarks:   o.Landmarks,
	}
	if f.maxAttempts < 1 {
		f.maxAttempts = DefaultMaxAttempts
	}
	if f.waitTimeout <= 0 {
		f.waitTimeout = DefaultWaitTimeout
	}
	if f.backoff < 0 {
		f.backoff = 0
	}
	if len(f.fields) == 0 {
		f.fields = profile.AllFields
	}
	if f.landmarks == (Landmarks{}) {
		f.landmarks = DefaultLandmarks
	}
	return f
}

// Result is the outcome of one Fetch. Record is always complete: when every
// attempt failed it holds only sentinels and Err is the last failure.
type Result struct {
	Record   profile.Record
	Attempts int
	Err      error
}

func (r Result) OK() bool { return r.Err == nil }

// Fetch loads url in s and reads the configured fields, retrying transient
// failures. It never returns an error or panics; a failed fetch yields a
// sentinel record.
func (f *Fetcher) Fetch(ctx context.Context, s Session, url string) Result {
	var (
		res Result
		rec profile.Record
	)

	op := func() error {
		res.Attempts++
		var err error
		rec, err = f.attempt(ctx, s, url)
		return err
	}
	notify := func(err error, next time.Duration) {
		logger.Debug(ctx, "fetch attempt failed, retrying",
			zap.Int("attempt", res.Attempts), zap.Duration("backoff", next), zap.Error(err))
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(f.backoff), uint64(f.maxAttempts-1)), ctx)

	if err := backoff.RetryNotify(op, b, notify); err != nil {
		logger.Warn(ctx, "fetch failed, storing sentinel record",
			zap.Int("attempts", res.Attempts), zap.Error(err))
		res.Record = profile.Empty()
		res.Err = err
		return res
	}
	res.Record = rec
	return res
}

// attempt runs one navigation and read. A panic from the browser driver is
// turned into an ordinary failed attempt.
func (f *Fetcher) attempt(ctx context.Context, s Session, url string) (rec profile.Record, err error) {
	var pc panics.Catcher
	pc.Try(func() {
		rec, err = f.read(ctx, s, url)
	})
	if r := pc.Recovered(); r != nil {
		return profile.Empty(), fmt.Errorf("panic while fetching %s: %v", url, r.Value)
	}
	return rec, err
}

func (f *Fetcher) read(ctx context.Context, s Session, url string) (profile.Record, error) {
	if err := s.Navigate(ctx, url); err != nil {
		return profile.Record{}, fmt.Errorf("could not navigate: %w", err)
	}

	for _, sel := range []string{f.landmarks.Title, f.landmarks.Header} {
		if err := s.WaitLandmark(ctx, sel, f.waitTimeout); err != nil {
			logger.Warn(ctx, "landmark did not appear, page structure may have changed",
				zap.String("selector", sel), zap.Duration("timeout", f.waitTimeout))
			return profile.Record{}, fmt.Errorf("wait for %q: %w", sel, err)
		}
	}

	title := ""
	if f.fields.Has(profile.Title) {
		t, err := s.Title(ctx)
		if err != nil {
			return profile.Record{}, fmt.Errorf("could not read title: %w", err)
		}
		title = t
	}

	html, err := s.HTML(ctx)
	if err != nil {
		return profile.Record{}, fmt.Errorf("could not read page: %w", err)
	}

	rec, err := Extract(html, title, f.fields, f.landmarks)
	if err != nil {
		return profile.Record{}, err
	}
	for _, fl := range f.fields {
		if rec.Get(fl) == profile.Sentinel {
			logger.Debug(ctx, "field not found on page", zap.String("field", string(fl)))
		}
	}
	return rec, nil
}
