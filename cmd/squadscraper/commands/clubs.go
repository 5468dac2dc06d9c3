package commands

import (
	"os"
	"squadscraper/lib/rosterstore"
	"squadscraper/lib/tablewriter"
	"squadscraper/services/squadscraper"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(clubsCmd)
}

var clubsCmd = &cobra.Command{
	Use:   "clubs [--db <path/to/rosters.db>]",
	Short: "Lists the clubs found on the clubs index with their squad page, and which ones are archived.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := loadConfig(squadscraper.Config{})

		var store *rosterstore.Store
		if cfg.Db != "" {
			opened, err := rosterstore.Open(ctx, cfg.Db)
			if err != nil {
				fatal("failed to open roster archive", err)
			}
			defer opened.Close()
			store = &opened
		}

		driver := openDriver(ctx, cfg)
		defer driver.Close()

		listings, err := squadscraper.New(driver, cfg).ListClubs(ctx, store)
		if err != nil {
			fatal("failed to list clubs", err)
		}

		rows := make([]tablewriter.ClubRow, len(listings))
		for i, l := range listings {
			rows[i] = tablewriter.ClubRow{Slug: l.Slug, Url: l.Url, Archived: l.Archived}
		}
		tablewriter.RenderClubs(os.Stdout, rows, store != nil)
	},
}
