package browser

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

type RodOptions struct {
	Headless  bool
	UserAgent string
	// path to a chromium binary, when empty rod looks one up (and downloads
	// one if needed)
	Bin string
	// connect to an already running browser instead of launching one
	ControlURL string
}

// RodDriver renders pages in a headless chromium through the devtools
// protocol, so javascript driven markup is available.
type RodDriver struct {
	launcher  *launcher.Launcher
	browser   *rod.Browser
	userAgent string
}

func NewRodDriver(ctx context.Context, opts RodOptions) (*RodDriver, error) {
	var l *launcher.Launcher
	controlURL := opts.ControlURL
	if controlURL == "" {
		l = launcher.New().Headless(opts.Headless).Context(ctx)
		if opts.Bin != "" {
			l = l.Bin(opts.Bin)
		}
		var err error
		controlURL, err = l.Launch()
		if err != nil {
			return nil, err
		}
		slog.DebugContext(ctx, "launched browser", "control_url", controlURL)
	}

	b := rod.New().ControlURL(controlURL)
	err := b.Connect()
	if err != nil {
		if l != nil {
			l.Cleanup()
		}
		return nil, err
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &RodDriver{
		launcher:  l,
		browser:   b,
		userAgent: userAgent,
	}, nil
}

func (d *RodDriver) NewSession(ctx context.Context) (Session, error) {
	page, err := d.browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	err = page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: d.userAgent})
	if err != nil {
		page.Close()
		return nil, err
	}
	return &rodSession{page: page}, nil
}

func (d *RodDriver) Close() error {
	err := d.browser.Close()
	if d.launcher != nil {
		d.launcher.Cleanup()
	}
	return err
}

type rodSession struct {
	page   *rod.Page
	url    string
	loaded bool
}

func (s *rodSession) Load(ctx context.Context, url string) error {
	s.loaded = false
	page := s.page.Context(ctx)
	err := page.Navigate(url)
	if err != nil {
		return err
	}
	err = page.WaitLoad()
	if err != nil {
		return err
	}
	s.url = url
	s.loaded = true
	return nil
}

func (s *rodSession) WaitForElement(ctx context.Context, selector string, timeout time.Duration) error {
	if !s.loaded {
		return ErrNoPage
	}
	_, err := s.page.Context(ctx).Timeout(timeout).Element(selector)
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return renderTimeout(selector, s.url, timeout)
	}
	return err
}

func (s *rodSession) Markup(ctx context.Context) (string, error) {
	if !s.loaded {
		return "", ErrNoPage
	}
	return s.page.Context(ctx).HTML()
}

func (s *rodSession) Close() error {
	return s.page.Close()
}
