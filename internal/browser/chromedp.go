package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/AlfredBerg/rod-profile-scraper/internal/js"
	"github.com/AlfredBerg/rod-profile-scraper/internal/logger"
)

type ChromedpSession struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	navTimeout  time.Duration

	closeOnce sync.Once
	closeErr  error
}

func LaunchChromedp(ctx context.Context, o Options) (*ChromedpSession, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", o.Headless),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if o.Bin != "" {
		opts = append(opts, chromedp.ExecPath(o.Bin))
	}

	// The browser outlives any single call, so it hangs off a background context.
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	bctx, cancel := chromedp.NewContext(allocCtx,
		chromedp.WithErrorf(func(format string, args ...any) {
			logger.Get(ctx).Sugar().Debugf(format, args...)
		}))

	// An empty Run starts the browser and opens the tab.
	if err := chromedp.Run(bctx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	return &ChromedpSession{ctx: bctx, cancel: cancel, allocCancel: allocCancel, navTimeout: o.NavigateTimeout}, nil
}

// run executes actions in the tab, bounded by timeout and by ctx.
func (s *ChromedpSession) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	rctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(rctx, actions...)
}

func (s *ChromedpSession) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, s.navTimeout, chromedp.Navigate(url))
}

func (s *ChromedpSession) WaitLandmark(ctx context.Context, selector string, timeout time.Duration) error {
	return s.run(ctx, timeout, chromedp.WaitReady(selector, chromedp.ByQuery))
}

func (s *ChromedpSession) Title(ctx context.Context) (string, error) {
	var title string
	err := s.run(ctx, s.navTimeout, chromedp.Title(&title))
	return title, err
}

func (s *ChromedpSession) HTML(ctx context.Context) (string, error) {
	var removed int
	if err := s.run(ctx, s.navTimeout, chromedp.Evaluate(js.Invoke(js.REMOVE_OVERLAYS), &removed)); err != nil {
		logger.Debug(ctx, "could not remove overlays", zap.Error(err))
	}

	var html string
	err := s.run(ctx, s.navTimeout, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

func (s *ChromedpSession) Close() error {
	s.closeOnce.Do(func() {
		err := chromedp.Cancel(s.ctx)
		s.cancel()
		s.allocCancel()
		if err != nil && !errors.Is(err, context.Canceled) {
			s.closeErr = fmt.Errorf("close browser: %w", err)
		}
	})
	return s.closeErr
}
