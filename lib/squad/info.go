package squad

import (
	"fmt"
	"squadscraper/lib/textutil"
)

// SegmentInfoCard splits an info card into number, name and position. The
// first token is always the shirt number and the last the position, every
// token in between belongs to the name.
func SegmentInfoCard(text string) (InfoCard, error) {
	tokens := textutil.Tokenize(text)
	if len(tokens) < 3 {
		return InfoCard{}, fmt.Errorf(
			"%w: info card needs at least 3 tokens, got %d (%q)",
			ErrMalformedCard, len(tokens), text,
		)
	}

	last := len(tokens) - 1
	return InfoCard{
		Number:   tokens[0],
		Name:     textutil.JoinTokens(tokens[1:last]),
		Position: tokens[last],
	}, nil
}
