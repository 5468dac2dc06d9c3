// Package clubs maps club page URLs to team slugs and squad page URLs.
package clubs

import (
	"errors"
	"fmt"
	"net/url"
	"squadscraper/lib/textutil"
	"strings"

	"github.com/antzucaro/matchr"
)

const DefaultOrigin = "https://www.premierleague.com"

// SquadSegment replaces the last path segment of a club link to point at the
// club's squad page.
const SquadSegment = "squad"

var ErrClubNotFound = errors.New("club not found")

// NotFoundError is returned by FindSquadUrl, it unwraps to ErrClubNotFound.
type NotFoundError struct {
	Team string
	// closest known slug, empty when nothing is similar
	Suggestion string
}

func (e *NotFoundError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s: %q (did you mean %q?)", ErrClubNotFound.Error(), e.Team, e.Suggestion)
	}
	return fmt.Sprintf("%s: %q", ErrClubNotFound.Error(), e.Team)
}

func (e *NotFoundError) Unwrap() error {
	return ErrClubNotFound
}

func pathSegments(link string) []string {
	return strings.Split(link, "/")
}

// SlugFromUrl returns the second to last path segment of a club URL
// ("/clubs/1/Arsenal/squad" -> "Arsenal").
func SlugFromUrl(link string) string {
	segments := pathSegments(link)
	if len(segments) < 2 {
		return ""
	}
	return segments[len(segments)-2]
}

// SquadUrl rewrites a club listing link into the club's squad page URL: the
// last path segment becomes "squad" and whatever precedes the path is
// replaced by origin. Links without a club segment ("", "/", the bare
// origin) give "".
func SquadUrl(origin, href string) string {
	path := href
	if parsed, err := url.Parse(href); err == nil && parsed.Host != "" {
		path = parsed.EscapedPath()
	}
	segments := pathSegments(path)
	if len(segments) < 2 || segments[len(segments)-2] == "" {
		return ""
	}
	segments[len(segments)-1] = SquadSegment
	segments[0] = strings.TrimSuffix(origin, "/")
	return strings.Join(segments, "/")
}

// TeamArg turns the words of a club name given on the command line into a
// slug-shaped team name ("manchester united" -> "manchester-united").
func TeamArg(words []string) string {
	var fields []string
	for _, w := range words {
		fields = append(fields, strings.Fields(w)...)
	}
	return strings.Join(fields, "-")
}

// FindSquadUrl returns the first URL that contains the title-cased team name.
// When nothing matches exactly, the comparison is retried ignoring case.
func FindSquadUrl(team string, urls []string) (string, error) {
	if team == "" {
		return "", &NotFoundError{Team: team}
	}

	titled := textutil.TitleCase(team)
	for _, u := range urls {
		if strings.Contains(u, titled) {
			return u, nil
		}
	}

	lowered := strings.ToLower(team)
	for _, u := range urls {
		if strings.Contains(strings.ToLower(u), lowered) {
			return u, nil
		}
	}

	return "", &NotFoundError{
		Team:       team,
		Suggestion: Suggest(team, urls),
	}
}

// Suggest returns the slug among urls most similar to team, or "" when none
// is similar enough to be worth mentioning.
func Suggest(team string, urls []string) string {
	target := strings.ToLower(team)

	var mostSimilarity float64
	var mostSimilar string
	for _, u := range urls {
		slug := SlugFromUrl(u)
		if slug == "" {
			continue
		}
		similarity := matchr.JaroWinkler(target, strings.ToLower(slug), false)
		if similarity > mostSimilarity {
			mostSimilarity = similarity
			mostSimilar = slug
		}
	}

	if mostSimilarity < 0.7 {
		return ""
	}
	return mostSimilar
}
