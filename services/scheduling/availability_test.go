package scheduling

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"schedulify/models"
	"schedulify/services/calendar"

	"go.uber.org/zap"
)

// fakeCalendarAPI is an in-memory calendar.API shared by the scheduling tests.
type fakeCalendarAPI struct {
	events  []calendar.Event
	listErr error
	calls   int
}

func (f *fakeCalendarAPI) ListDayView(ctx context.Context, token string, startUTC, endUTC time.Time, timezone string) ([]calendar.Event, error) {
	f.calls++
	return f.events, f.listErr
}

func (f *fakeCalendarAPI) CreateEvent(ctx context.Context, token string, draft calendar.EventDraft) (*calendar.EventRef, error) {
	return nil, errors.New("unexpected CreateEvent call")
}

func (f *fakeCalendarAPI) SendMail(ctx context.Context, token string, mail calendar.Mail) error {
	return nil
}

func evt(start, end, showAs string, cancelled bool) calendar.Event {
	return calendar.Event{
		Start:       calendar.DateTimeTZ{DateTime: start, TimeZone: "UTC"},
		End:         calendar.DateTimeTZ{DateTime: end, TimeZone: "UTC"},
		ShowAs:      showAs,
		IsCancelled: cancelled,
	}
}

func testPolicy() models.AvailabilityPolicy {
	return models.DefaultPolicy()
}

func TestIsBlocking(t *testing.T) {
	cases := []struct {
		showAs string
		want   bool
	}{
		{"busy", true},
		{"Busy", true},
		{"OOF", true},
		{"workingElsewhere", true},
		{"Tentative", true},
		{"", true}, // missing status counts as busy
		{"free", false},
		{"Free", false},
		{"somethingNew", false},
	}
	for _, tc := range cases {
		if got := IsBlocking(tc.showAs); got != tc.want {
			t.Errorf("IsBlocking(%q) = %v, want %v", tc.showAs, got, tc.want)
		}
	}
}

func TestDayBusyCollectsBlockingIntervals(t *testing.T) {
	api := &fakeCalendarAPI{events: []calendar.Event{
		evt("2026-01-05T10:00:00.0000000", "2026-01-05T10:30:00.0000000", "busy", false),
		evt("2026-01-05T11:00:00.0000000", "2026-01-05T11:30:00.0000000", "free", false),
		evt("2026-01-05T12:00:00.0000000", "2026-01-05T12:30:00.0000000", "busy", true),
		evt("2026-01-05T13:00:00", "2026-01-05T14:15:00", "OOF", false),
	}}
	r := &Reader{Calendar: api, Logger: zap.NewNop()}

	busy := r.DayBusy(context.Background(), "tok", "2026-01-05", testPolicy())

	want := []models.BusyInterval{{Start: 600, End: 630}, {Start: 780, End: 855}}
	if !reflect.DeepEqual(busy, want) {
		t.Errorf("DayBusy = %v, want %v", busy, want)
	}
}

func TestDayBusySkipsMalformedEventOnly(t *testing.T) {
	api := &fakeCalendarAPI{events: []calendar.Event{
		evt("not-a-timestamp", "2026-01-05T10:30:00", "busy", false),
		evt("2026-01-05T11:00:00", "2026-01-05T11:30:00", "busy", false),
	}}
	r := &Reader{Calendar: api, Logger: zap.NewNop()}

	busy := r.DayBusy(context.Background(), "tok", "2026-01-05", testPolicy())

	want := []models.BusyInterval{{Start: 660, End: 690}}
	if !reflect.DeepEqual(busy, want) {
		t.Errorf("one malformed record must not hide the rest, got %v", busy)
	}
}

func TestDayBusyFailsOpenOnTransportError(t *testing.T) {
	api := &fakeCalendarAPI{listErr: errors.New("connection refused")}
	r := &Reader{Calendar: api, Logger: zap.NewNop()}

	if busy := r.DayBusy(context.Background(), "tok", "2026-01-05", testPolicy()); busy != nil {
		t.Errorf("transport failure must yield an empty busy set, got %v", busy)
	}
}

func TestDayBusyInvalidZoneSkipsRemoteCall(t *testing.T) {
	api := &fakeCalendarAPI{}
	r := &Reader{Calendar: api, Logger: zap.NewNop()}
	policy := testPolicy()
	policy.Timezone = "Mars/Olympus"

	if busy := r.DayBusy(context.Background(), "tok", "2026-01-05", policy); busy != nil {
		t.Errorf("invalid zone must yield an empty busy set, got %v", busy)
	}
	if api.calls != 0 {
		t.Errorf("no remote call expected for an invalid zone, got %d", api.calls)
	}
}

func TestParseGraphTimeLayouts(t *testing.T) {
	cases := []string{
		"2026-01-05T10:00:00.0000000",
		"2026-01-05T10:00:00",
		"2026-01-05T10:00:00Z",
	}
	for _, s := range cases {
		got, err := parseGraphTime(s)
		if err != nil {
			t.Errorf("parseGraphTime(%q) failed: %v", s, err)
			continue
		}
		if got.Hour() != 10 || got.Minute() != 0 {
			t.Errorf("parseGraphTime(%q) = %v, want 10:00", s, got)
		}
	}
	if _, err := parseGraphTime("05/01/2026 10:00"); err == nil {
		t.Error("expected an error for an unrecognized layout")
	}
}
