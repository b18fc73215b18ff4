package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"schedulify/services/calendar"

	"go.uber.org/zap"
)

func guardInterval() (time.Time, time.Time) {
	start := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	return start, start.Add(30 * time.Minute)
}

func TestIntervalFreeWithNoEvents(t *testing.T) {
	g := &Guard{Calendar: &fakeCalendarAPI{}, Logger: zap.NewNop()}
	start, end := guardInterval()

	if !g.IntervalFree(context.Background(), "tok", start, end, "UTC") {
		t.Error("an empty interval must be free")
	}
}

func TestIntervalFreeRejectsBlockingEvent(t *testing.T) {
	api := &fakeCalendarAPI{events: []calendar.Event{
		evt("2026-01-05T10:00:00", "2026-01-05T10:30:00", "busy", false),
	}}
	g := &Guard{Calendar: api, Logger: zap.NewNop()}
	start, end := guardInterval()

	if g.IntervalFree(context.Background(), "tok", start, end, "UTC") {
		t.Error("an interval with a blocking event must not be free")
	}
}

func TestIntervalFreeIgnoresNonBlockingEvents(t *testing.T) {
	api := &fakeCalendarAPI{events: []calendar.Event{
		evt("2026-01-05T10:00:00", "2026-01-05T10:30:00", "free", false),
		evt("2026-01-05T10:00:00", "2026-01-05T10:30:00", "busy", true),
	}}
	g := &Guard{Calendar: api, Logger: zap.NewNop()}
	start, end := guardInterval()

	if !g.IntervalFree(context.Background(), "tok", start, end, "UTC") {
		t.Error("free-status and cancelled events must not block the interval")
	}
}

func TestIntervalFreeFailsOpenOnReadError(t *testing.T) {
	api := &fakeCalendarAPI{listErr: errors.New("gateway timeout")}
	g := &Guard{Calendar: api, Logger: zap.NewNop()}
	start, end := guardInterval()

	if !g.IntervalFree(context.Background(), "tok", start, end, "UTC") {
		t.Error("a failed re-check read reports free; the create call fails closed")
	}
}
