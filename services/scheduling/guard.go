package scheduling

import (
	"context"
	"time"

	"schedulify/services/calendar"
	"schedulify/utils"

	"go.uber.org/zap"
)

// Guard performs the final point-in-time re-validation of a chosen interval,
// closing the gap between "slot list computed" and "slot chosen". It is
// authoritative for the commit decision; the earlier list is a display hint.
type Guard struct {
	Calendar calendar.API
	Logger   *zap.Logger
}

// NewGuard creates a conflict guard over the given calendar API.
func NewGuard(api calendar.API) *Guard {
	return &Guard{Calendar: api, Logger: utils.GetLogger()}
}

// IntervalFree re-queries the calendar for exactly [startLocal, endLocal) and
// applies the same blocking-status rule as the availability reader.
//
// A failed read reports free, matching the fail-open read policy; the
// create-event call itself fails closed, so an outage can never fabricate a
// successful booking.
func (g *Guard) IntervalFree(ctx context.Context, token string, startLocal, endLocal time.Time, timezone string) bool {
	events, err := g.Calendar.ListDayView(ctx, token, startLocal.UTC(), endLocal.UTC(), timezone)
	if err != nil {
		g.Logger.Warn("interval re-check failed, treating as free", zap.Error(err))
		return true
	}
	for _, ev := range events {
		if ev.IsCancelled {
			continue
		}
		if IsBlocking(ev.ShowAs) {
			return false
		}
	}
	return true
}
