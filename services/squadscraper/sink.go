package squadscraper

import (
	"context"
	"fmt"
	"squadscraper/lib/rosterstore"
	"squadscraper/lib/tablewriter"
	"time"
)

// TableSink writes one roster file per club into Dir and, when Store is set,
// archives the roster as well.
type TableSink struct {
	Dir    string
	Format tablewriter.Format
	Store  *rosterstore.Store
	// defaults to time.Now
	Now func() time.Time
}

func (s TableSink) Accept(ctx context.Context, result ClubResult) (string, error) {
	path, err := tablewriter.Write(s.Dir, result.Team, s.Format, result.Players)
	if err != nil {
		return "", fmt.Errorf("write roster of %s: %w", result.Team, err)
	}

	if s.Store != nil {
		now := time.Now
		if s.Now != nil {
			now = s.Now
		}
		err = s.Store.Replace(ctx, result.Team, result.Players, now())
		if err != nil {
			return path, fmt.Errorf("archive roster of %s: %w", result.Team, err)
		}
	}
	return path, nil
}
