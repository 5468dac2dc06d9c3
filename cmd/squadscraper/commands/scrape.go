package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"squadscraper/lib/clubs"
	"squadscraper/lib/rosterstore"
	"squadscraper/lib/tablewriter"
	"squadscraper/services/squadscraper"
	"time"

	"github.com/spf13/cobra"
)

var (
	teamWords *[]string
	outDir    *string
	format    *string
	workers   *int
	retries   *int
)

func init() {
	flags := rootCmd.Flags()
	teamWords = flags.StringArray("team", nil, "Name of the club to scrape, words may also follow as arguments (e.g. --team manchester united).")
	outDir = flags.StringP("out", "o", "", "Directory the roster tables are written to (default Squads_Players).")
	format = flags.StringP("format", "f", "", "Table format: csv, tsv, md or html (default csv).")
	workers = flags.Int("workers", 0, "Number of clubs scraped at once, each in its own browser tab (default 1).")
	retries = flags.Int("retries", 0, "Extra attempts for a club whose squad did not render in time.")
}

func runScrape(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	cfg := loadConfig(squadscraper.Config{
		OutDir:  *outDir,
		Format:  *format,
		Workers: *workers,
		Retries: *retries,
	})
	tableFormat, _ := tablewriter.ParseFormat(cfg.Format)

	sink := squadscraper.TableSink{
		Dir:    cfg.OutDir,
		Format: tableFormat,
	}
	if cfg.Db != "" {
		store, err := rosterstore.Open(ctx, cfg.Db)
		if err != nil {
			fatal("failed to open roster archive", err)
		}
		defer store.Close()
		sink.Store = &store
	}

	driver := openDriver(ctx, cfg)
	defer driver.Close()

	team := clubs.TeamArg(append(*teamWords, args...))
	if team != "" {
		slog.InfoContext(ctx, "scraping one club", "team", team)
	}

	start := time.Now()
	report, err := squadscraper.New(driver, cfg).Run(ctx, squadscraper.RunOptions{
		Team: team,
		Sink: sink,
	})
	var notFound *clubs.NotFoundError
	if errors.As(err, &notFound) {
		fmt.Fprintln(os.Stderr, notFound.Error())
		return
	}
	if err != nil {
		fatal("scrape failed", err)
	}

	rows := make([]tablewriter.SummaryRow, len(report.Clubs))
	for i, c := range report.Clubs {
		rows[i] = tablewriter.SummaryRow{
			Team:    c.Team,
			Players: c.Players,
			Output:  c.Output,
		}
		if c.Err != nil {
			rows[i].Failure = c.Err.Error()
		}
	}
	tablewriter.RenderSummary(os.Stdout, rows)
	slog.InfoContext(ctx, "scrape finished",
		"clubs", len(report.Clubs),
		"failed", len(report.Failures()),
		"seconds", time.Since(start).Seconds(),
	)
}
