package squadscraper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"squadscraper/lib/browser"
	"squadscraper/lib/clubs"
	"squadscraper/lib/squad"
	"squadscraper/lib/tablewriter"
	"squadscraper/lib/testutil"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const fixtureDir = "testdata/premierleague"

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Driver = DriverStatic
	cfg.Fixtures = fixtureDir
	cfg.Timeout = 1
	return cfg
}

func newFixtureScraper(t *testing.T, cfg Config) *Scraper {
	driver, err := browser.LoadFixtureDir(fixtureDir)
	require.NoError(t, err)
	return New(driver, cfg)
}

const expectedArsenal = `Club,Name,Number,Position,Nationality,Appearances,Clean Sheets,Goals,Assists
Arsenal,Aaron Ramsdale,1,Goalkeeper,England,30,11,,
Arsenal,Bukayo Saka,7,Midfielder,England,38,,14,11
Arsenal,Ben White,4,Defender,England,37,16,4,
Arsenal,Oleksandr Zinchenko,35,Defender,Ukraine,0,,,
`

func TestDiscover(t *testing.T) {
	_, cleanup := testutil.SetupService(t, testutil.ServiceParams{Name: "squadscraper"})
	defer cleanup()

	scraper := newFixtureScraper(t, testConfig())

	urls, err := scraper.Discover(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{
		"https://www.premierleague.com/clubs/1/Arsenal/squad",
		"https://www.premierleague.com/clubs/131/Brighton-and-Hove-Albion/squad",
		"https://www.premierleague.com/clubs/4/Chelsea/squad",
		"https://www.premierleague.com/clubs/12/Manchester-United/squad",
	}, urls)
}

func TestDiscoverFailure(t *testing.T) {
	scraper := New(browser.NewStaticDriver(map[string]string{
		"https://www.premierleague.com/clubs": "<html><body><p>maintenance</p></body></html>",
	}), testConfig())
	_, err := scraper.Discover(context.Background())
	require.ErrorIs(t, err, browser.ErrRenderTimeout)

	scraper = New(browser.NewStaticDriver(map[string]string{
		"https://www.premierleague.com/clubs": `<span class="indexBadge"></span>`,
	}), testConfig())
	_, err = scraper.Discover(context.Background())
	require.ErrorContains(t, err, "no club links")
}

func TestDiscoverSkipsLinksWithoutClub(t *testing.T) {
	scraper := New(browser.NewStaticDriver(map[string]string{
		"https://www.premierleague.com/clubs": `<html><body>
			<span class="indexBadge"></span>
			<a class="indexItem" href="">Clubs</a>
			<a class="indexItem" href="/">Home</a>
			<a class="indexItem" href="https://www.premierleague.com">Home</a>
			<a class="indexItem" href="/clubs/9/Fulham/overview">Fulham</a>
		</body></html>`,
	}), testConfig())

	urls, err := scraper.Discover(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"https://www.premierleague.com/clubs/9/Fulham/squad"}, urls)
}

func TestScrapeClub(t *testing.T) {
	cfg := testConfig()
	cfg.Selectors.PlayerName = ".statCardImg"
	scraper := newFixtureScraper(t, cfg)

	session, err := scraper.driver.NewSession(context.Background())
	require.NoError(t, err)
	defer session.Close()

	result, err := scraper.ScrapeClub(
		context.Background(), session,
		"https://www.premierleague.com/clubs/1/Arsenal/squad",
	)
	require.NoError(t, err)
	require.Equal(t, "Arsenal", result.Team)
	require.Len(t, result.Players, 4)

	expected := squad.Player{
		Team:        "Arsenal",
		Name:        "Ben White",
		Number:      "4",
		Position:    "Defender",
		Nationality: "England",
		Appearances: "37",
		CleanSheets: "16",
		Goals:       "4",
	}
	if diff := cmp.Diff(expected, result.Players[2]); diff != "" {
		t.Fatal(diff)
	}

	// the zero appearance player has no recognizable statistics, names line up
	require.Len(t, result.Warnings, 1)
	require.Equal(t, 3, result.Warnings[0].Index)
	require.ErrorIs(t, result.Warnings[0], squad.ErrUnrecognizedStatLayout)
}

func TestScrapeClubNameDrift(t *testing.T) {
	url := "https://www.premierleague.com/clubs/9/Fulham/squad"
	cfg := testConfig()
	cfg.Selectors.PlayerName = "img.statCardImg"
	scraper := New(browser.NewStaticDriver(map[string]string{
		url: `<html><body>
			<img class="statCardImg" alt="Bernd Leno">
			<div class="playerCardInfo">17 Bernd Leno Goalkeeper</div>
			<div class="squadPlayerStats">Nationality Germany Appearances 38 Clean sheets 10</div>
			<img class="statCardImg" alt="Tim Ream">
			<div class="playerCardInfo">13 Antonee Robinson Defender</div>
			<div class="squadPlayerStats">Nationality United States Appearances 30 Goals 0 Assists 6</div>
		</body></html>`,
	}), cfg)

	session, err := scraper.driver.NewSession(context.Background())
	require.NoError(t, err)
	result, err := scraper.ScrapeClub(context.Background(), session, url)
	require.NoError(t, err)

	require.Len(t, result.Players, 2)
	require.Equal(t, "United States", result.Players[1].Nationality)
	require.Len(t, result.Warnings, 1)
	require.Equal(t, 1, result.Warnings[0].Index)
	require.ErrorIs(t, result.Warnings[0], squad.ErrNameDrift)
}

func TestRun(t *testing.T) {
	cfg := testConfig()
	cfg.Retries = 1
	scraper := newFixtureScraper(t, cfg)
	dir := filepath.Join(t.TempDir(), "Squads_Players")

	run := func() Report {
		report, err := scraper.Run(context.Background(), RunOptions{
			Sink:          TableSink{Dir: dir, Format: tablewriter.FormatCsv},
			RetryInterval: time.Millisecond,
		})
		require.NoError(t, err)
		return report
	}

	report := run()
	require.Len(t, report.Clubs, 4)

	arsenal := report.Clubs[0]
	require.NoError(t, arsenal.Err)
	require.Equal(t, 4, arsenal.Players)
	require.Equal(t, 1, arsenal.Warnings)
	require.Equal(t, filepath.Join(dir, "Arsenal_players.csv"), arsenal.Output)

	require.ErrorIs(t, report.Clubs[1].Err, squad.ErrRosterMismatch)
	require.ErrorIs(t, report.Clubs[2].Err, browser.ErrRenderTimeout)
	require.Equal(t, "Chelsea", report.Clubs[2].Team)

	united := report.Clubs[3]
	require.NoError(t, united.Err)
	require.Equal(t, 3, united.Players)

	require.Len(t, report.Failures(), 2)
	require.ErrorIs(t, report.Err(), browser.ErrRenderTimeout)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.Equal(t, []string{"Arsenal_players.csv", "Manchester-United_players.csv"}, names)

	contents, err := os.ReadFile(arsenal.Output)
	require.NoError(t, err)
	require.Equal(t, expectedArsenal, string(contents))

	// scraping unchanged pages again produces the same bytes
	run()
	again, err := os.ReadFile(arsenal.Output)
	require.NoError(t, err)
	require.Equal(t, contents, again)
}

func TestRunWorkers(t *testing.T) {
	cfg := testConfig()
	cfg.Workers = 3
	scraper := newFixtureScraper(t, cfg)

	report, err := scraper.Run(context.Background(), RunOptions{
		Sink: TableSink{Dir: t.TempDir(), Format: tablewriter.FormatTsv},
	})
	require.NoError(t, err)

	// outcomes stay in discovery order regardless of which worker ran them
	var teams []string
	for _, c := range report.Clubs {
		teams = append(teams, c.Team)
	}
	require.Equal(t, []string{"Arsenal", "Brighton-and-Hove-Albion", "Chelsea", "Manchester-United"}, teams)
	require.Len(t, report.Failures(), 2)
}

func TestRunSingleTeam(t *testing.T) {
	scraper := newFixtureScraper(t, testConfig())
	dir := t.TempDir()

	report, err := scraper.Run(context.Background(), RunOptions{
		Team: clubs.TeamArg([]string{"manchester", "united"}),
		Sink: TableSink{Dir: dir, Format: tablewriter.FormatMarkdown},
	})
	require.NoError(t, err)
	require.Len(t, report.Clubs, 1)
	require.NoError(t, report.Err())
	require.Equal(t, filepath.Join(dir, "Manchester-United_players.md"), report.Clubs[0].Output)

	// lower case slugs still resolve
	report, err = scraper.Run(context.Background(), RunOptions{
		Team: "brighton-and-hove-albion",
		Sink: TableSink{Dir: dir, Format: tablewriter.FormatMarkdown},
	})
	require.NoError(t, err)
	require.Len(t, report.Clubs, 1)
	require.Equal(t, "Brighton-and-Hove-Albion", report.Clubs[0].Team)
}

func TestRunUnknownTeam(t *testing.T) {
	scraper := newFixtureScraper(t, testConfig())
	dir := filepath.Join(t.TempDir(), "Squads_Players")

	_, err := scraper.Run(context.Background(), RunOptions{
		Team: "Arsenl",
		Sink: TableSink{Dir: dir, Format: tablewriter.FormatCsv},
	})
	require.ErrorIs(t, err, clubs.ErrClubNotFound)

	var notFound *clubs.NotFoundError
	require.True(t, errors.As(err, &notFound))
	require.Equal(t, "Arsenal", notFound.Suggestion)

	_, err = os.Stat(dir)
	require.True(t, os.IsNotExist(err), "no output may be written for an unknown club")
}

func TestRunCancelled(t *testing.T) {
	scraper := newFixtureScraper(t, testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := scraper.Run(ctx, RunOptions{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestTableSinkArchive(t *testing.T) {
	ctx := context.Background()
	res, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:   "squadscraper",
		Store:  true,
		DbPath: "rosters.db",
	})
	defer cleanup()

	scrapedAt := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	sink := TableSink{
		Dir:    t.TempDir(),
		Format: tablewriter.FormatHtml,
		Store:  res.Store,
		Now:    func() time.Time { return scrapedAt },
	}
	scraper := newFixtureScraper(t, testConfig())

	report, err := scraper.Run(ctx, RunOptions{Team: "Arsenal", Sink: sink})
	require.NoError(t, err)
	require.NoError(t, report.Err())
	require.Equal(t, filepath.Join(sink.Dir, "Arsenal_players.html"), report.Clubs[0].Output)

	players, err := res.Store.Players(ctx, "Arsenal")
	require.NoError(t, err)
	require.Len(t, players, 4)
	require.Equal(t, "Bukayo Saka", players[1].Name)
	require.Equal(t, "11", players[1].Assists)
}

func TestListClubs(t *testing.T) {
	ctx := context.Background()
	res, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:  "squadscraper",
		Store: true,
	})
	defer cleanup()

	scraper := newFixtureScraper(t, testConfig())

	listings, err := scraper.ListClubs(ctx, nil)
	require.NoError(t, err)
	require.Len(t, listings, 4)
	for _, l := range listings {
		require.False(t, l.Archived)
	}

	_, err = scraper.Run(ctx, RunOptions{
		Team: "arsenal",
		Sink: TableSink{Dir: t.TempDir(), Format: tablewriter.FormatCsv, Store: res.Store},
	})
	require.NoError(t, err)
	require.NoError(t, res.Store.Replace(ctx, "Luton-Town", []squad.Player{
		{Team: "Luton-Town", Name: "Thomas Kaminski", Number: "24", Position: "Goalkeeper"},
	}, time.Now()))

	listings, err = scraper.ListClubs(ctx, res.Store)
	require.NoError(t, err)
	expected := []ClubListing{
		{Slug: "Arsenal", Url: "https://www.premierleague.com/clubs/1/Arsenal/squad", Archived: true},
		{Slug: "Brighton-and-Hove-Albion", Url: "https://www.premierleague.com/clubs/131/Brighton-and-Hove-Albion/squad"},
		{Slug: "Chelsea", Url: "https://www.premierleague.com/clubs/4/Chelsea/squad"},
		{Slug: "Manchester-United", Url: "https://www.premierleague.com/clubs/12/Manchester-United/squad"},
		{Slug: "Luton-Town", Archived: true},
	}
	if diff := cmp.Diff(expected, listings); diff != "" {
		t.Fatal(diff)
	}
}
