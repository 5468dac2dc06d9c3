package browser

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"squadscraper/lib/restyutil"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

type HttpOptions struct {
	UserAgent string
	// how long a single request may take, defaults to 30s
	RequestTimeout time.Duration
	// how often a page is re-fetched while waiting for an element, defaults
	// to 1s
	PollInterval time.Duration
	// when set, HTTP exchanges are dumped here at debug log level
	DumpOutput restyutil.InstrumentOutput
}

// HttpDriver fetches pages with plain HTTP requests. It executes no
// javascript, it only works for pages whose markup is rendered server side.
// Waiting for an element re-fetches the page until the element shows up.
type HttpDriver struct {
	client       *resty.Client
	pollInterval time.Duration
}

func NewHttpDriver(opts HttpOptions) (*HttpDriver, error) {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.RequestTimeout == 0 {
		opts.RequestTimeout = time.Second * 30
	}
	if opts.PollInterval == 0 {
		opts.PollInterval = time.Second
	}

	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", opts.UserAgent)
	client.SetTimeout(opts.RequestTimeout)

	restyutil.InstrumentClient(client, otel.Tracer("squadscraper.lib.browser.http"), opts.DumpOutput)

	return &HttpDriver{client: client, pollInterval: opts.PollInterval}, nil
}

func (d *HttpDriver) NewSession(ctx context.Context) (Session, error) {
	return &httpSession{driver: d}, nil
}

func (d *HttpDriver) Close() error {
	return nil
}

type httpSession struct {
	driver *HttpDriver
	url    string
	markup string
	loaded bool
}

func (s *httpSession) fetch(ctx context.Context) error {
	res, err := s.driver.client.R().
		SetContext(ctx).
		Get(s.url)
	if err != nil {
		return err
	}
	if res.IsError() {
		return fmt.Errorf("GET %s: %s", s.url, res.Status())
	}
	s.markup = res.String()
	return nil
}

func (s *httpSession) Load(ctx context.Context, url string) error {
	s.url = url
	s.loaded = false
	err := s.fetch(ctx)
	if err != nil {
		return err
	}
	s.loaded = true
	return nil
}

func (s *httpSession) WaitForElement(ctx context.Context, selector string, timeout time.Duration) error {
	if !s.loaded {
		return ErrNoPage
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(s.driver.pollInterval)
	defer ticker.Stop()

	for {
		found, err := HasElement(s.markup, selector)
		if err != nil {
			return err
		}
		if found {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return renderTimeout(selector, s.url, timeout)
		case <-ticker.C:
			err := s.fetch(ctx)
			if err != nil {
				return err
			}
		}
	}
}

func (s *httpSession) Markup(ctx context.Context) (string, error) {
	if !s.loaded {
		return "", ErrNoPage
	}
	return s.markup, nil
}

func (s *httpSession) Close() error {
	return nil
}
