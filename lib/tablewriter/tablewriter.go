// Package tablewriter writes one squad table per club.
package tablewriter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"squadscraper/lib/squad"

	"github.com/jedib0t/go-pretty/v6/table"
)

type Format string

const (
	FormatCsv      Format = "csv"
	FormatTsv      Format = "tsv"
	FormatMarkdown Format = "md"
	FormatHtml     Format = "html"
)

var Formats = []Format{FormatCsv, FormatTsv, FormatMarkdown, FormatHtml}

func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatCsv, nil
	}
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown table format %q (expected one of %v)", s, Formats)
}

// Filename is the output file name for a club: <slug>_players.<ext>.
func Filename(slug string, format Format) string {
	return fmt.Sprintf("%s_players.%s", slug, format)
}

// Render writes players as a table with the fixed squad header.
func Render(w io.Writer, format Format, players []squad.Player) error {
	switch format {
	case FormatCsv, FormatTsv:
		out := csv.NewWriter(w)
		if format == FormatTsv {
			out.Comma = '\t'
		}
		err := out.Write(squad.Columns)
		if err != nil {
			return err
		}
		for _, p := range players {
			err = out.Write(p.Row())
			if err != nil {
				return err
			}
		}
		out.Flush()
		return out.Error()
	case FormatMarkdown, FormatHtml:
		t := newTable(players)
		var rendered string
		if format == FormatMarkdown {
			rendered = t.RenderMarkdown()
		} else {
			rendered = t.RenderHTML()
		}
		_, err := io.WriteString(w, rendered+"\n")
		return err
	default:
		return fmt.Errorf("unknown table format %q", format)
	}
}

func newTable(players []squad.Player) table.Writer {
	t := table.NewWriter()
	header := make(table.Row, len(squad.Columns))
	for i, c := range squad.Columns {
		header[i] = c
	}
	t.AppendHeader(header)
	for _, p := range players {
		fields := p.Row()
		row := make(table.Row, len(fields))
		for i, f := range fields {
			row[i] = f
		}
		t.AppendRow(row)
	}
	return t
}

// Write renders players into dir/<slug>_players.<ext>, creating dir when it
// does not exist and replacing any previous file for the same slug. It
// returns the path written.
func Write(dir, slug string, format Format, players []squad.Player) (string, error) {
	if slug == "" {
		return "", fmt.Errorf("cannot write a table without a team slug")
	}

	var buf bytes.Buffer
	err := Render(&buf, format, players)
	if err != nil {
		return "", err
	}

	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, Filename(slug, format))
	err = os.WriteFile(path, buf.Bytes(), 0644)
	if err != nil {
		return "", err
	}
	return path, nil
}
