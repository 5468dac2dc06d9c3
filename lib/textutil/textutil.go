package textutil

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Tokenize splits scraped text on any run of whitespace, dropping empty tokens.
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// JoinTokens joins tokens with single spaces.
func JoinTokens(tokens []string) string {
	return strings.Join(tokens, " ")
}

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// TitleCase upper-cases the first letter of every word and lower-cases the
// rest, word boundaries include hyphens ("manchester-united" ->
// "Manchester-United").
//
// A Caser keeps state between calls, so each call builds its own.
func TitleCase(s string) string {
	return cases.Title(language.Und).String(s)
}
