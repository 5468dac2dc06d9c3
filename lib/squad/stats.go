package squad

import (
	"fmt"
	"squadscraper/lib/textutil"
)

// Sentinel is the label that ends the nationality run of a stat card.
const Sentinel = "Appearances"

// StatLayout identifies which optional statistics a stat card carries. The
// page omits absent statistics instead of marking them, and every present one
// comes with a fixed number of label tokens, so the number of tokens after
// the appearances value is enough to tell the layouts apart.
type StatLayout int

const (
	LayoutUnrecognized StatLayout = iota
	// "Clean sheets <n>"
	LayoutCleanSheets
	// "Goals <n> Assists <n>"
	LayoutGoalsAssists
	// "Clean sheets <n> Goals <n>"
	LayoutCleanSheetsGoals
)

func (l StatLayout) String() string {
	switch l {
	case LayoutCleanSheets:
		return "clean_sheets"
	case LayoutGoalsAssists:
		return "goals_assists"
	case LayoutCleanSheetsGoals:
		return "clean_sheets_goals"
	default:
		return "unrecognized"
	}
}

// ClassifyRemainder maps the token count that follows the appearances value
// to a layout.
func ClassifyRemainder(n int) StatLayout {
	switch n {
	case 3:
		return LayoutCleanSheets
	case 4:
		return LayoutGoalsAssists
	case 5:
		return LayoutCleanSheetsGoals
	default:
		return LayoutUnrecognized
	}
}

// ParseStatCard parses a stat card using the default sentinel.
func ParseStatCard(text string) (StatCard, error) {
	return ParseStatCardWith(text, Sentinel)
}

// ParseStatCardWith parses a stat card whose nationality is terminated by
// sentinel.
//
// When the trailing statistics do not match a known layout the returned card
// still carries nationality and appearances, and the error wraps
// ErrUnrecognizedStatLayout.
func ParseStatCardWith(text, sentinel string) (StatCard, error) {
	tokens := textutil.Tokenize(text)

	sentinelIdx := -1
	for i := 1; i < len(tokens); i++ {
		if tokens[i] == sentinel {
			sentinelIdx = i
			break
		}
	}
	if sentinelIdx < 0 {
		return StatCard{}, fmt.Errorf("%w: stat card has no %q label (%q)", ErrMalformedCard, sentinel, text)
	}
	if sentinelIdx+1 >= len(tokens) {
		return StatCard{}, fmt.Errorf("%w: stat card has no value after %q (%q)", ErrMalformedCard, sentinel, text)
	}

	card := StatCard{
		Nationality: textutil.JoinTokens(tokens[1:sentinelIdx]),
		Appearances: tokens[sentinelIdx+1],
	}

	remainder := tokens[sentinelIdx+2:]
	card.Layout = ClassifyRemainder(len(remainder))
	last := len(remainder) - 1

	switch card.Layout {
	case LayoutCleanSheets:
		card.CleanSheets = remainder[last]
	case LayoutCleanSheetsGoals:
		card.CleanSheets = remainder[2]
		card.Goals = remainder[last]
	case LayoutGoalsAssists:
		card.Goals = remainder[1]
		card.Assists = remainder[last]
	default:
		return card, fmt.Errorf(
			"%w: %d tokens after appearances (%q)",
			ErrUnrecognizedStatLayout, len(remainder), text,
		)
	}

	return card, nil
}
