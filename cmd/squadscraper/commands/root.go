package commands

import (
	"context"
	"fmt"
	"os"
	"squadscraper/lib/telemetry"
	"squadscraper/services/squadscraper"
	"time"

	"github.com/spf13/cobra"
)

var (
	configPath *string
	verbose    *bool
	driverName *string
	fixtures   *string
	origin     *string
	timeout    *int
	noHeadless *bool
	db         *string
)

var tel telemetry.Telemetry

var rootCmd = &cobra.Command{
	Use:   "squadscraper [club words...]",
	Short: "squadscraper downloads the squad of every league club (or just one) as player tables.",
	Args:  cobra.ArbitraryArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)

		var err error
		tel, err = telemetry.SetupFromEnv(cmd.Context(), "squadscraper")
		if err != nil {
			fmt.Fprintln(os.Stderr, "telemetry disabled:", err)
		}
		if tel.Enabled() {
			telemetry.InstrumentPerfStats(cmd.Context(), time.Second*5)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()
		tel.Shutdown(ctx)
	},
	Run: runScrape,
}

func init() {
	flags := rootCmd.PersistentFlags()
	configPath = flags.String("config", squadscraper.ConfigName, "The json5 config file, merged with its .local.json5 sibling.")
	verbose = flags.BoolP("verbose", "v", false, "Log debug output.")
	driverName = flags.String("driver", "", "How pages are rendered: rod, http or static.")
	fixtures = flags.String("fixtures", "", "Fixture directory for the static driver.")
	origin = flags.String("origin", "", "Site origin, defaults to the league site.")
	timeout = flags.Int("timeout", 0, "Seconds to wait for dynamic content (default 10).")
	db = flags.String("db", "", "Roster archive, a sqlite file or libsql url. scrape writes to it, clubs reads from it.")
	noHeadless = flags.Bool("no-headless", false, "Show the browser window (rod driver only).")
}

// loadConfig layers the config file under the flags that were given
// explicitly.
func loadConfig(overrides squadscraper.Config) squadscraper.Config {
	overrides.Driver = *driverName
	overrides.Fixtures = *fixtures
	overrides.Origin = *origin
	overrides.Timeout = *timeout
	overrides.ShowBrowser = *noHeadless
	overrides.Db = *db

	cfg, err := squadscraper.LoadConfig(*configPath, overrides)
	if err != nil {
		fatal("invalid configuration", err)
	}
	return cfg
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
