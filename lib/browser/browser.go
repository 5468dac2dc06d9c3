// Package browser abstracts the component that turns a URL into final,
// rendered markup.
//
// A Driver hands out Sessions, a Session is the equivalent of one browser tab:
// it loads one page at a time and can be asked to wait until an element has
// been rendered. Sessions are not safe for concurrent use, open one per
// worker.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var (
	// ErrRenderTimeout is returned by WaitForElement when the element did not
	// appear within the timeout.
	ErrRenderTimeout = errors.New("page did not render in time")
	// ErrNoPage is returned when a session is used before Load.
	ErrNoPage = errors.New("no page has been loaded")
)

type Session interface {
	Load(ctx context.Context, url string) error
	WaitForElement(ctx context.Context, selector string, timeout time.Duration) error
	Markup(ctx context.Context) (string, error)
	Close() error
}

type Driver interface {
	NewSession(ctx context.Context) (Session, error)
	Close() error
}

// HasElement reports whether markup contains at least one element matching
// selector.
func HasElement(markup, selector string) (bool, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return false, err
	}
	return doc.Find(selector).Length() > 0, nil
}

func renderTimeout(selector, url string, timeout time.Duration) error {
	return fmt.Errorf("%w: %q not found on %s after %s", ErrRenderTimeout, selector, url, timeout)
}
