// Package squadscraper discovers the clubs of the league site, renders each
// club's squad page and turns its player cards into roster tables.
package squadscraper

import (
	"context"
	"fmt"
	"log/slog"
	"squadscraper/lib/browser"
	"squadscraper/lib/clubs"
	"squadscraper/lib/htmlutil"
	"squadscraper/lib/rosterstore"
	"squadscraper/lib/squad"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type Scraper struct {
	driver browser.Driver
	config Config
}

func New(driver browser.Driver, config Config) *Scraper {
	return &Scraper{driver: driver, config: config}
}

// ClubResult is the parsed squad page of one club.
type ClubResult struct {
	Team     string
	Url      string
	Players  []squad.Player
	Warnings []squad.Warning
}

// Discover loads the clubs index and returns the squad page url of every
// club, in page order without duplicates.
func (s *Scraper) Discover(ctx context.Context) ([]string, error) {
	ctx, span := tracer.Start(ctx, "Discover")
	defer span.End()

	session, err := s.driver.NewSession(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	indexUrl := strings.TrimRight(s.config.Origin, "/") + s.config.Selectors.ClubsPath
	span.SetAttributes(attribute.String("url", indexUrl))

	doc, err := s.render(ctx, session, indexUrl, s.config.Selectors.ClubBadge)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to render clubs index")
		return nil, fmt.Errorf("discover clubs: %w", err)
	}

	anchors := htmlutil.GetAnchors(ctx, doc.Find(s.config.Selectors.ClubLink))
	seen := map[string]bool{}
	var urls []string
	for _, a := range anchors {
		squadUrl := clubs.SquadUrl(s.config.Origin, a.Href)
		if clubs.SlugFromUrl(squadUrl) == "" || seen[squadUrl] {
			continue
		}
		seen[squadUrl] = true
		urls = append(urls, squadUrl)
	}
	if len(urls) == 0 {
		err = fmt.Errorf("discover clubs: no club links matching %q on %s", s.config.Selectors.ClubLink, indexUrl)
		span.RecordError(err)
		span.SetStatus(codes.Error, "empty clubs index")
		return nil, err
	}

	slog.DebugContext(ctx, "discovered clubs", "count", len(urls))
	return urls, nil
}

// ScrapeClub renders the squad page at url in session and parses its player
// cards.
func (s *Scraper) ScrapeClub(ctx context.Context, session browser.Session, url string) (ClubResult, error) {
	team := clubs.SlugFromUrl(url)
	ctx, span := tracer.Start(ctx, "ScrapeClub", trace.WithAttributes(
		attribute.String("team", team),
		attribute.String("url", url),
	))
	defer span.End()

	doc, err := s.render(ctx, session, url, s.config.Selectors.PlayerInfo)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to render squad page")
		return ClubResult{}, err
	}

	infoTexts := htmlutil.Texts(doc, s.config.Selectors.PlayerInfo)
	statTexts := htmlutil.Texts(doc, s.config.Selectors.PlayerStats)

	var expected []string
	if s.config.Selectors.PlayerName != "" {
		doc.Find(s.config.Selectors.PlayerName).Each(func(_ int, sel *goquery.Selection) {
			name, ok := sel.Attr("alt")
			if !ok {
				name = htmlutil.TextOf(sel)
			}
			expected = append(expected, name)
		})
	}

	roster, err := squad.ParsePage(team, infoTexts, statTexts, squad.PageOptions{
		Sentinel:      s.config.StatSentinel,
		ExpectedNames: expected,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse squad page")
		return ClubResult{}, fmt.Errorf("%s: %w", team, err)
	}

	for _, w := range roster.Warnings {
		slog.WarnContext(ctx, "player card warning", "team", team, "card", w.Index, "err", w.Err)
		faultCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", faultKind(w.Err))))
	}
	span.SetAttributes(attribute.Int("players", len(roster.Players)))

	return ClubResult{
		Team:     team,
		Url:      url,
		Players:  roster.Players,
		Warnings: roster.Warnings,
	}, nil
}

func (s *Scraper) render(ctx context.Context, session browser.Session, url, selector string) (*goquery.Document, error) {
	err := session.Load(ctx, url)
	if err != nil {
		return nil, err
	}
	err = session.WaitForElement(ctx, selector, s.config.WaitTimeout())
	if err != nil {
		return nil, err
	}
	markup, err := session.Markup(ctx)
	if err != nil {
		return nil, err
	}
	return htmlutil.Parse(markup)
}

// ClubListing is a discovered club, or an archived one that is no longer
// listed on the site (empty Url).
type ClubListing struct {
	Slug     string
	Url      string
	Archived bool
}

// ListClubs discovers the clubs and, when store is set, marks those that
// have an archived roster.
func (s *Scraper) ListClubs(ctx context.Context, store *rosterstore.Store) ([]ClubListing, error) {
	urls, err := s.Discover(ctx)
	if err != nil {
		return nil, err
	}

	archived := map[string]bool{}
	if store != nil {
		names, err := store.Clubs(ctx)
		if err != nil {
			return nil, fmt.Errorf("list archived clubs: %w", err)
		}
		for _, n := range names {
			archived[n] = true
		}
	}

	listings := make([]ClubListing, 0, len(urls))
	for _, u := range urls {
		slug := clubs.SlugFromUrl(u)
		listings = append(listings, ClubListing{Slug: slug, Url: u, Archived: archived[slug]})
		delete(archived, slug)
	}

	var stale []string
	for slug := range archived {
		stale = append(stale, slug)
	}
	sort.Strings(stale)
	for _, slug := range stale {
		listings = append(listings, ClubListing{Slug: slug, Archived: true})
	}
	return listings, nil
}
