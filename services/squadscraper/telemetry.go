package squadscraper

import (
	"errors"
	"squadscraper/lib/browser"
	"squadscraper/lib/clubs"
	"squadscraper/lib/squad"
	"squadscraper/lib/telemetry"

	"go.opentelemetry.io/otel"
)

const meterName = "squadscraper.services.squadscraper"

var tracer = otel.Tracer(meterName)

var (
	clubCounter   = telemetry.Counter(meterName, "squadscraper.clubs", "clubs processed, by outcome")
	playerCounter = telemetry.Counter(meterName, "squadscraper.players", "player records extracted")
	faultCounter  = telemetry.Counter(meterName, "squadscraper.faults", "faults encountered, by kind")
)

func faultKind(err error) string {
	switch {
	case errors.Is(err, browser.ErrRenderTimeout):
		return "render_timeout"
	case errors.Is(err, squad.ErrMalformedCard):
		return "malformed_card"
	case errors.Is(err, squad.ErrRosterMismatch):
		return "roster_mismatch"
	case errors.Is(err, squad.ErrUnrecognizedStatLayout):
		return "unrecognized_stat_layout"
	case errors.Is(err, squad.ErrNameDrift):
		return "name_drift"
	case errors.Is(err, clubs.ErrClubNotFound):
		return "club_not_found"
	default:
		return "other"
	}
}
