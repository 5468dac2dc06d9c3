// Package squad turns the flattened text of squad-page player cards into
// player records.
//
// A squad page renders two card kinds per athlete: an info card
// ("<number> <name...> <position>") and a stat card
// ("<label> <nationality...> Appearances <n> [<stat labels and values>...]").
// Both are consumed as whitespace separated token streams. Every numeric
// looking value is kept as raw text so the source formatting survives.
package squad

import "errors"

var (
	// ErrMalformedCard is returned when a card does not have the minimum
	// shape needed to segment it.
	ErrMalformedCard = errors.New("malformed player card")
	// ErrRosterMismatch is returned when a page has a different number of
	// info cards and stat cards.
	ErrRosterMismatch = errors.New("info cards and stat cards are not aligned")
	// ErrUnrecognizedStatLayout is returned alongside a usable StatCard when
	// the optional statistics could not be classified.
	ErrUnrecognizedStatLayout = errors.New("unrecognized stat card layout")
)

type Player struct {
	Team        string
	Name        string
	Number      string
	Position    string
	Nationality string
	Appearances string
	CleanSheets string
	Goals       string
	Assists     string
}

// Row returns the player's fields in output column order.
func (p Player) Row() []string {
	return []string{
		p.Team,
		p.Name,
		p.Number,
		p.Position,
		p.Nationality,
		p.Appearances,
		p.CleanSheets,
		p.Goals,
		p.Assists,
	}
}

// Columns is the header of every squad table, in the same order as Player.Row.
var Columns = []string{
	"Club",
	"Name",
	"Number",
	"Position",
	"Nationality",
	"Appearances",
	"Clean Sheets",
	"Goals",
	"Assists",
}

type InfoCard struct {
	Number   string
	Name     string
	Position string
}

type StatCard struct {
	Nationality string
	Appearances string
	Layout      StatLayout
	CleanSheets string
	Goals       string
	Assists     string
}
