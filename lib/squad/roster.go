package squad

import (
	"errors"
	"fmt"
	"squadscraper/lib/textutil"
)

// BuildRoster merges info card i with stat card i. The lists are trusted to
// be in the same order, nothing cross-checks that both describe the same
// athlete (see CheckAlignment).
func BuildRoster(team string, infos []InfoCard, stats []StatCard) ([]Player, error) {
	if len(infos) != len(stats) {
		return nil, fmt.Errorf(
			"%w: %d info cards, %d stat cards",
			ErrRosterMismatch, len(infos), len(stats),
		)
	}

	players := make([]Player, len(infos))
	for i, info := range infos {
		stat := stats[i]
		players[i] = Player{
			Team:        team,
			Name:        info.Name,
			Number:      info.Number,
			Position:    info.Position,
			Nationality: stat.Nationality,
			Appearances: stat.Appearances,
			CleanSheets: stat.CleanSheets,
			Goals:       stat.Goals,
			Assists:     stat.Assists,
		}
	}
	return players, nil
}

// Warning is a non-fatal problem found while parsing a squad page.
type Warning struct {
	Index int
	Err   error
}

func (w Warning) Error() string {
	return fmt.Sprintf("card %d: %s", w.Index, w.Err.Error())
}

func (w Warning) Unwrap() error {
	return w.Err
}

type Roster struct {
	Players  []Player
	Warnings []Warning
}

type PageOptions struct {
	// defaults to Sentinel
	Sentinel string
	// names taken from somewhere other than the info card (an image alt, a
	// data attribute), when set they are compared to the parsed names
	ExpectedNames []string
}

// ParsePage segments every info card and stat card text of a squad page and
// assembles the roster.
//
// Malformed cards and misaligned card lists fail the whole page, no partial
// roster is returned. Unrecognized stat layouts and name drift are reported
// as warnings.
func ParsePage(team string, infoTexts, statTexts []string, opts PageOptions) (Roster, error) {
	sentinel := opts.Sentinel
	if sentinel == "" {
		sentinel = Sentinel
	}

	infos := make([]InfoCard, len(infoTexts))
	for i, text := range infoTexts {
		info, err := SegmentInfoCard(text)
		if err != nil {
			return Roster{}, fmt.Errorf("info card %d: %w", i, err)
		}
		infos[i] = info
	}

	var warnings []Warning
	stats := make([]StatCard, len(statTexts))
	for i, text := range statTexts {
		stat, err := ParseStatCardWith(text, sentinel)
		if errors.Is(err, ErrUnrecognizedStatLayout) {
			warnings = append(warnings, Warning{Index: i, Err: err})
		} else if err != nil {
			return Roster{}, fmt.Errorf("stat card %d: %w", i, err)
		}
		stats[i] = stat
	}

	players, err := BuildRoster(team, infos, stats)
	if err != nil {
		return Roster{}, err
	}

	if len(opts.ExpectedNames) > 0 {
		warnings = append(warnings, CheckAlignment(players, opts.ExpectedNames)...)
	}

	return Roster{Players: players, Warnings: warnings}, nil
}

// ErrNameDrift marks a player whose parsed name differs from the name found
// elsewhere on the page at the same position.
var ErrNameDrift = errors.New("player name does not match expected name")

// CheckAlignment compares each player's name with the name expected at the
// same index. It never fails, every difference becomes a warning. Empty
// expected names are skipped.
func CheckAlignment(players []Player, expected []string) []Warning {
	var warnings []Warning
	if len(players) != len(expected) {
		warnings = append(warnings, Warning{
			Index: -1,
			Err: fmt.Errorf(
				"%w: %d players, %d expected names",
				ErrNameDrift, len(players), len(expected),
			),
		})
	}

	n := min(len(players), len(expected))
	for i := 0; i < n; i++ {
		if expected[i] == "" {
			continue
		}
		if textutil.NormalizeName(players[i].Name) == textutil.NormalizeName(expected[i]) {
			continue
		}
		warnings = append(warnings, Warning{
			Index: i,
			Err:   fmt.Errorf("%w: got %q, expected %q", ErrNameDrift, players[i].Name, expected[i]),
		})
	}
	return warnings
}
