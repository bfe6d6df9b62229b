package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/AlfredBerg/rod-profile-scraper/internal/js"
	"github.com/AlfredBerg/rod-profile-scraper/internal/logger"
)

type RodSession struct {
	launcher   *launcher.Launcher
	browser    *rod.Browser
	page       *rod.Page
	navTimeout time.Duration

	closeOnce sync.Once
	closeErr  error
}

func LaunchRod(ctx context.Context, o Options) (*RodSession, error) {
	l := launcher.New().
		Headless(o.Headless).
		NoSandbox(true).
		Set("disable-dev-shm-usage").
		Set("disable-gpu")
	if o.Bin != "" {
		l = l.Bin(o.Bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("could not connect to browser: %w", err)
	}

	s := &RodSession{launcher: l, browser: browser, navTimeout: o.NavigateTimeout}

	//Don't download files in the browser, e.g. pdf files
	err = proto.BrowserSetDownloadBehavior{
		Behavior:         proto.BrowserSetDownloadBehaviorBehaviorDeny,
		BrowserContextID: browser.BrowserContextID,
	}.Call(browser)
	if err != nil {
		logger.Warn(ctx, "could not deny downloads", zap.Error(err))
	}

	// The page exists before any event handler can look at it.
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("could not open page: %w", err)
	}
	s.page = page

	//Avoid alerts and extra tabs, the session only ever uses one page
	go browser.EachEvent(func(e *proto.PageJavascriptDialogOpening) {
		_ = proto.PageHandleJavaScriptDialog{Accept: false, PromptText: ""}.Call(browser)
	},
		func(e *proto.PageWindowOpen) {
			logger.Debug(ctx, "new window opened, closing it", zap.String("window_url", e.URL))
			s.closeStrayPages(ctx)
		},
	)()

	return s, nil
}

func (s *RodSession) closeStrayPages(ctx context.Context) {
	time.Sleep(time.Millisecond * 500)
	pages, err := s.browser.Pages()
	if err != nil {
		logger.Warn(ctx, "failed getting pages in tab closer", zap.Error(err))
		return
	}
	for _, page := range pages {
		if page.TargetID == s.page.TargetID {
			continue
		}
		if err := page.Close(); err != nil {
			logger.Warn(ctx, "failed closing stray page", zap.Error(err))
		}
	}
}

func (s *RodSession) Navigate(ctx context.Context, url string) error {
	p := s.page.Context(ctx).Timeout(s.navTimeout)
	defer p.CancelTimeout()

	if err := p.Navigate(url); err != nil {
		return err
	}
	return p.WaitLoad()
}

func (s *RodSession) WaitLandmark(ctx context.Context, selector string, timeout time.Duration) error {
	p := s.page.Context(ctx).Timeout(timeout)
	defer p.CancelTimeout()

	_, err := p.Element(selector)
	return err
}

func (s *RodSession) Title(ctx context.Context) (string, error) {
	info, err := s.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.Title, nil
}

func (s *RodSession) HTML(ctx context.Context) (string, error) {
	p := s.page.Context(ctx)
	if _, err := p.Eval(js.REMOVE_OVERLAYS); err != nil {
		logger.Debug(ctx, "could not remove overlays", zap.Error(err))
	}
	return p.HTML()
}

// Close shuts the browser down and removes its profile directory. Only the
// first call does anything.
func (s *RodSession) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		if s.page != nil {
			if err := s.page.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close page: %w", err))
			}
		}
		if err := s.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close browser: %w", err))
			s.launcher.Kill()
		}
		s.launcher.Cleanup()
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}
