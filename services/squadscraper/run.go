package squadscraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"squadscraper/lib/browser"
	"squadscraper/lib/clubs"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
)

// Sink receives every successfully parsed club and returns where the roster
// ended up.
type Sink interface {
	Accept(ctx context.Context, result ClubResult) (string, error)
}

type RunOptions struct {
	// restricts the run to one club, matched against the discovered urls
	Team string
	Sink Sink
	// first delay between retries, defaults to one second
	RetryInterval time.Duration
}

type ClubOutcome struct {
	Team     string
	Url      string
	Output   string
	Players  int
	Warnings int
	Err      error
}

type Report struct {
	Clubs []ClubOutcome
}

func (r Report) Failures() []ClubOutcome {
	var failed []ClubOutcome
	for _, c := range r.Clubs {
		if c.Err != nil {
			failed = append(failed, c)
		}
	}
	return failed
}

// Err joins the errors of every failed club, nil when all clubs succeeded.
func (r Report) Err() error {
	var errs []error
	for _, c := range r.Failures() {
		errs = append(errs, c.Err)
	}
	return errors.Join(errs...)
}

// Targets discovers the clubs and narrows them down to team when it is set.
func (s *Scraper) Targets(ctx context.Context, team string) ([]string, error) {
	urls, err := s.Discover(ctx)
	if err != nil {
		return nil, err
	}
	if team == "" {
		return urls, nil
	}
	target, err := clubs.FindSquadUrl(team, urls)
	if err != nil {
		faultCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", faultKind(err))))
		return nil, err
	}
	return []string{target}, nil
}

// Run scrapes every target club with a pool of workers, each owning one
// browser session. A club that fails is recorded in the report and does not
// stop the others. The returned error is only set when the run could not
// start (discovery, unknown club, no session) or was cancelled.
func (s *Scraper) Run(ctx context.Context, opts RunOptions) (Report, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	targets, err := s.Targets(ctx, opts.Team)
	if err != nil {
		span.RecordError(err)
		return Report{}, err
	}

	workers := min(max(s.config.Workers, 1), len(targets))
	outcomes := make([]ClubOutcome, len(targets))
	jobs := make(chan int)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		defer close(jobs)
		for i := range targets {
			select {
			case jobs <- i:
			case <-groupCtx.Done():
				return groupCtx.Err()
			}
		}
		return nil
	})
	for w := 0; w < workers; w++ {
		group.Go(func() error {
			session, err := s.driver.NewSession(groupCtx)
			if err != nil {
				return fmt.Errorf("open browser session: %w", err)
			}
			defer session.Close()

			for i := range jobs {
				outcomes[i] = s.processClub(groupCtx, session, targets[i], opts)
			}
			return nil
		})
	}
	err = group.Wait()

	for i, outcome := range outcomes {
		if outcome.Url != "" {
			continue
		}
		outcomes[i] = ClubOutcome{
			Team: clubs.SlugFromUrl(targets[i]),
			Url:  targets[i],
			Err:  fmt.Errorf("not scraped: %w", context.Cause(groupCtx)),
		}
	}

	report := Report{Clubs: outcomes}
	span.SetAttributes(
		attribute.Int("clubs", len(outcomes)),
		attribute.Int("failures", len(report.Failures())),
	)
	if err != nil {
		span.RecordError(err)
	}
	return report, err
}

func (s *Scraper) processClub(ctx context.Context, session browser.Session, url string, opts RunOptions) ClubOutcome {
	outcome := ClubOutcome{
		Team: clubs.SlugFromUrl(url),
		Url:  url,
	}

	result, err := s.scrapeWithRetry(ctx, session, url, opts.RetryInterval)
	if err == nil && opts.Sink != nil {
		outcome.Output, err = opts.Sink.Accept(ctx, result)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to scrape club", "team", outcome.Team, "url", url, "err", err)
		faultCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", faultKind(err))))
		clubCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "failed")))
		outcome.Err = err
		return outcome
	}

	outcome.Players = len(result.Players)
	outcome.Warnings = len(result.Warnings)
	playerCounter.Add(ctx, int64(outcome.Players))
	clubCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "ok")))
	slog.InfoContext(ctx, "scraped club", "team", outcome.Team, "players", outcome.Players, "output", outcome.Output)
	return outcome
}

// scrapeWithRetry retries pages that did not render in time, every other
// failure is final.
func (s *Scraper) scrapeWithRetry(ctx context.Context, session browser.Session, url string, interval time.Duration) (ClubResult, error) {
	if interval <= 0 {
		interval = time.Second
	}
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = interval
	policy.MaxElapsedTime = 0

	var result ClubResult
	err := backoff.RetryNotify(
		func() error {
			r, err := s.ScrapeClub(ctx, session, url)
			if errors.Is(err, browser.ErrRenderTimeout) {
				return err
			}
			if err != nil {
				return backoff.Permanent(err)
			}
			result = r
			return nil
		},
		backoff.WithContext(backoff.WithMaxRetries(policy, uint64(s.config.Retries)), ctx),
		func(err error, wait time.Duration) {
			slog.WarnContext(ctx, "retrying club", "url", url, "in", wait, "err", err)
		},
	)
	return result, err
}
