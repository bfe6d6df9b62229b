package crawl

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"

	"github.com/AlfredBerg/rod-profile-scraper/internal/logger"
	"github.com/AlfredBerg/rod-profile-scraper/internal/profile"
)

func (j *Job) State() State { return j.state }

func (j *Job) setState(ctx context.Context, s State) {
	logger.Debug(ctx, "crawl state changed", zap.Stringer("from", j.state), zap.Stringer("to", s))
	j.state = s
}

// Run fetches and stores every distinct valid target, one at a time. A
// failure on one url is logged and counted, never returned. Only a session
// or output that cannot be opened, or a failing Cleanup, makes Run return an
// error, and the session and output are released on every path.
func (j *Job) Run(ctx context.Context) (sum Summary, err error) {
	ctx = logger.WithFields(ctx, zap.String("run_id", uuid.NewString()))

	urls, rejected := profile.WorkingSet(j.Targets)
	sum.Rejected = len(rejected)
	for _, r := range rejected {
		logger.Debug(ctx, "skipping invalid profile url", zap.String("candidate", r))
	}
	if len(urls) == 0 {
		logger.Info(ctx, "no valid profile urls to crawl", zap.Int("rejected", sum.Rejected))
		j.state = Done
		return sum, nil
	}

	j.setState(ctx, Init)
	session, err := j.NewSession(ctx)
	if err != nil {
		j.setState(ctx, Draining)
		j.setState(ctx, Done)
		return sum, fmt.Errorf("%w: %w", ErrSession, err)
	}
	if err := j.OutputHandler.Init(ctx); err != nil {
		j.setState(ctx, Draining)
		closeErr := session.Close()
		j.setState(ctx, Done)
		return sum, errors.Join(fmt.Errorf("%w: %w", ErrOutput, err), closeErr)
	}

	defer func() {
		j.setState(ctx, Draining)
		if cerr := session.Close(); cerr != nil {
			logger.Warn(ctx, "could not close browser session", zap.Error(cerr))
		}
		if cerr := j.OutputHandler.Cleanup(ctx); cerr != nil {
			err = errors.Join(err, fmt.Errorf("could not finalize output: %w", cerr))
		}
		j.setState(ctx, Done)
		logger.Info(ctx, "crawl done",
			zap.Int("attempted", sum.Attempted),
			zap.Int("stored", sum.Stored),
			zap.Int("skipped", sum.Skipped),
			zap.Int("failed", sum.Failed),
			zap.Int("fetch_failed", sum.FetchFailed),
			zap.Int("rejected", sum.Rejected))
	}()

	j.setState(ctx, Running)
	for _, url := range urls {
		if ctx.Err() != nil {
			logger.Warn(ctx, "crawl interrupted", zap.Int("remaining", len(urls)-sum.Attempted))
			break
		}
		j.crawl(ctx, session, url, &sum)
	}
	return sum, nil
}

// crawl fetches and stores a single url. Nothing that goes wrong in here,
// panics included, escapes to the loop.
func (j *Job) crawl(ctx context.Context, session Session, url string, sum *Summary) {
	ctx = logger.WithFields(ctx, zap.String("url", url))
	sum.Attempted++
	logger.Info(ctx, "accessing profile")

	var pc panics.Catcher
	pc.Try(func() {
		res := j.Fetcher.Fetch(ctx, session, url)
		if !res.OK() {
			sum.FetchFailed++
		}

		outcome, err := j.OutputHandler.HandleProfile(ctx, url, res.Record)
		switch {
		case err != nil:
			sum.Failed++
			logger.Error(ctx, "could not store profile", zap.Any("record", res.Record), zap.Error(err))
		case outcome == profile.DuplicateSkipped:
			sum.Skipped++
			logger.Info(ctx, "profile already stored, skipping")
		default:
			sum.Stored++
			logger.Info(ctx, "profile stored", zap.Int("attempts", res.Attempts), zap.Bool("complete", res.OK()))
		}
	})
	if r := pc.Recovered(); r != nil {
		sum.Failed++
		logger.Error(ctx, "unexpected failure while crawling profile",
			zap.Any("panic", r.Value), zap.ByteString("stack", r.Stack))
	}
}
