package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/titanous/json5"
)

var ErrPageNotFound = errors.New("no fixture for url")

// ManifestName is the file that maps URLs to fixture files inside a fixture
// directory.
const ManifestName = "fixtures.json5"

// StaticDriver serves pre-rendered markup from memory. Markup never changes
// after it is loaded, so waiting for an element either succeeds immediately
// or times out immediately.
type StaticDriver struct {
	pages map[string]string
}

func NewStaticDriver(pages map[string]string) *StaticDriver {
	copied := make(map[string]string, len(pages))
	for url, markup := range pages {
		copied[url] = markup
	}
	return &StaticDriver{pages: copied}
}

// LoadFixtureDir reads <dir>/fixtures.json5, a json5 object of
// "url": "relative/file.html" entries, and loads every referenced file.
func LoadFixtureDir(dir string) (*StaticDriver, error) {
	manifestPath := filepath.Join(dir, ManifestName)
	contents, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, err
	}

	var manifest map[string]string
	err = json5.Unmarshal(contents, &manifest)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", manifestPath, err)
	}

	pages := make(map[string]string, len(manifest))
	for url, file := range manifest {
		if !filepath.IsAbs(file) {
			file = filepath.Join(dir, file)
		}
		markup, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("fixture for %s: %w", url, err)
		}
		pages[url] = string(markup)
	}
	return &StaticDriver{pages: pages}, nil
}

func (d *StaticDriver) NewSession(ctx context.Context) (Session, error) {
	return &staticSession{pages: d.pages}, nil
}

func (d *StaticDriver) Close() error {
	return nil
}

type staticSession struct {
	pages  map[string]string
	url    string
	markup string
	loaded bool
}

func (s *staticSession) Load(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	markup, ok := s.pages[url]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPageNotFound, url)
	}
	s.url = url
	s.markup = markup
	s.loaded = true
	return nil
}

func (s *staticSession) WaitForElement(ctx context.Context, selector string, timeout time.Duration) error {
	if !s.loaded {
		return ErrNoPage
	}
	found, err := HasElement(s.markup, selector)
	if err != nil {
		return err
	}
	if !found {
		return renderTimeout(selector, s.url, timeout)
	}
	return nil
}

func (s *staticSession) Markup(ctx context.Context) (string, error) {
	if !s.loaded {
		return "", ErrNoPage
	}
	return s.markup, nil
}

func (s *staticSession) Close() error {
	return nil
}
