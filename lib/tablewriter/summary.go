package tablewriter

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

type SummaryRow struct {
	Team    string
	Players int
	Output  string
	// empty when the club was scraped successfully
	Failure string
}

// RenderSummary prints the outcome of a crawl, one line per club.
func RenderSummary(w io.Writer, rows []SummaryRow) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Club", "Players", "Output", "Failure"})

	failed := 0
	players := 0
	for _, r := range rows {
		t.AppendRow(table.Row{r.Team, r.Players, r.Output, r.Failure})
		players += r.Players
		if r.Failure != "" {
			failed++
		}
	}
	t.AppendFooter(table.Row{len(rows), players, "", failed})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

type ClubRow struct {
	Slug string
	// empty for clubs only known from the archive
	Url      string
	Archived bool
}

// RenderClubs prints discovered clubs. The archive column only appears when
// withArchive is set.
func RenderClubs(w io.Writer, rows []ClubRow, withArchive bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	header := table.Row{"#", "Club", "Squad page"}
	if withArchive {
		header = append(header, "Archived")
	}
	t.AppendHeader(header)
	for i, r := range rows {
		row := table.Row{i + 1, r.Slug, r.Url}
		if withArchive {
			archived := ""
			if r.Archived {
				archived = "yes"
			}
			row = append(row, archived)
		}
		t.AppendRow(row)
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
