package scheduling

import (
	"context"
	"fmt"
	"strings"
	"time"

	"schedulify/models"
	"schedulify/services/calendar"
	"schedulify/utils"

	"go.uber.org/zap"
)

// blockingStatuses are the Outlook showAs values that occupy time. Anything
// else ("free" and friends) does not block a slot.
var blockingStatuses = map[string]bool{
	"busy":             true,
	"oof":              true,
	"workingelsewhere": true,
	"tentative":        true,
}

// IsBlocking classifies a showAs status tag, case-insensitively. A missing
// tag counts as busy.
func IsBlocking(showAs string) bool {
	if showAs == "" {
		return true
	}
	return blockingStatuses[strings.ToLower(showAs)]
}

// Reader queries the external calendar for a host's busy intervals.
type Reader struct {
	Calendar calendar.API
	Logger   *zap.Logger
}

// NewReader creates an availability reader over the given calendar API.
func NewReader(api calendar.API) *Reader {
	return &Reader{Calendar: api, Logger: utils.GetLogger()}
}

// DayBusy returns the busy intervals for a host-local calendar day.
//
// Reads fail open: a transport or API failure yields an empty busy set so the
// booking page degrades to "day free" instead of erroring. The commit-time
// guard re-check compensates for slots that were never actually free.
func (r *Reader) DayBusy(ctx context.Context, token, date string, policy models.AvailabilityPolicy) []models.BusyInterval {
	loc, err := policy.Location()
	if err != nil {
		r.Logger.Warn("invalid host time zone, treating day as free",
			zap.String("timezone", policy.Timezone), zap.Error(err))
		return nil
	}
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		r.Logger.Warn("invalid date, treating day as free", zap.String("date", date), zap.Error(err))
		return nil
	}

	startLocal := day
	endLocal := day.Add(23*time.Hour + 59*time.Minute + 59*time.Second)

	events, err := r.Calendar.ListDayView(ctx, token, startLocal.UTC(), endLocal.UTC(), policy.Timezone)
	if err != nil {
		r.Logger.Warn("calendar view failed, treating day as free",
			zap.String("date", date), zap.Error(err))
		return nil
	}

	var busy []models.BusyInterval
	for _, ev := range events {
		if ev.IsCancelled {
			continue
		}
		if !IsBlocking(ev.ShowAs) {
			continue
		}
		start, err := minuteOfDay(ev.Start.DateTime)
		if err != nil {
			// One bad record must not hide the rest of the day.
			r.Logger.Warn("skipping event with malformed start", zap.Error(err))
			continue
		}
		end, err := minuteOfDay(ev.End.DateTime)
		if err != nil {
			r.Logger.Warn("skipping event with malformed end", zap.Error(err))
			continue
		}
		busy = append(busy, models.BusyInterval{Start: start, End: end})
	}
	return busy
}

var graphTimeLayouts = []string{
	"2006-01-02T15:04:05.0000000",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

func parseGraphTime(s string) (time.Time, error) {
	for _, layout := range graphTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized event timestamp %q", s)
}

func minuteOfDay(s string) (int, error) {
	t, err := parseGraphTime(s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
