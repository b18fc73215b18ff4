package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"schedulify/models"
	"schedulify/services/calendar"
	"schedulify/services/scheduling"

	"go.uber.org/zap"
)

type fakeProvider struct {
	token string
	err   error
}

func (f *fakeProvider) AccessToken(ctx context.Context, host *models.Host) (string, error) {
	return f.token, f.err
}

func (f *fakeProvider) Connected(ctx context.Context, host *models.Host) bool {
	return f.err == nil
}

func (f *fakeProvider) BeginAuthFlow(ctx context.Context) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeProvider) CompleteAuthFlow(ctx context.Context, state, code string) (*models.Host, error) {
	return nil, errors.New("not implemented")
}

// fakeCalendar records the call order so tests can assert that the guard
// re-check always precedes the create.
type fakeCalendar struct {
	events    []calendar.Event
	listErr   error
	ref       *calendar.EventRef
	createErr error

	ops    []string
	drafts []calendar.EventDraft
}

func (f *fakeCalendar) ListDayView(ctx context.Context, token string, startUTC, endUTC time.Time, timezone string) ([]calendar.Event, error) {
	f.ops = append(f.ops, "list")
	return f.events, f.listErr
}

func (f *fakeCalendar) CreateEvent(ctx context.Context, token string, draft calendar.EventDraft) (*calendar.EventRef, error) {
	f.ops = append(f.ops, "create")
	f.drafts = append(f.drafts, draft)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.ref, nil
}

func (f *fakeCalendar) SendMail(ctx context.Context, token string, mail calendar.Mail) error {
	f.ops = append(f.ops, "mail")
	return nil
}

type fakeNotifier struct {
	err   error
	calls int
}

func (f *fakeNotifier) NotifyBooking(ctx context.Context, token string, host *models.Host, req models.BookingRequest, startLocal time.Time) error {
	f.calls++
	return f.err
}

func bookingHost() *models.Host {
	return &models.Host{
		OID:    "oid-1",
		Email:  "host@example.com",
		Name:   "Host",
		Slug:   "host",
		Policy: models.DefaultPolicy(),
	}
}

func bookingReq() models.BookingRequest {
	return models.BookingRequest{
		GuestName:  "Jane Doe",
		GuestEmail: "jane@example.com",
		Agenda:     "Quarterly sync",
		Date:       "2026-01-05", // Monday
		Start:      600,
	}
}

func newCommitter(fc *fakeCalendar, notifier *fakeNotifier) *DefaultService {
	return &DefaultService{
		Identity: &fakeProvider{token: "tok"},
		Guard:    &scheduling.Guard{Calendar: fc, Logger: zap.NewNop()},
		Calendar: fc,
		Notifier: notifier,
		Logger:   zap.NewNop(),
	}
}

func TestCommitGuardsBeforeCreate(t *testing.T) {
	fc := &fakeCalendar{ref: &calendar.EventRef{ID: "evt-1", WebLink: "https://outlook.example/evt-1"}}
	notifier := &fakeNotifier{}
	svc := newCommitter(fc, notifier)

	ref, err := svc.Commit(context.Background(), bookingHost(), bookingReq())
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if ref == nil || ref.ID != "evt-1" {
		t.Fatalf("unexpected event ref: %+v", ref)
	}

	if len(fc.ops) < 2 || fc.ops[0] != "list" || fc.ops[1] != "create" {
		t.Errorf("expected guard read before create, got %v", fc.ops)
	}
	if notifier.calls != 1 {
		t.Errorf("expected one notification, got %d", notifier.calls)
	}

	draft := fc.drafts[0]
	if draft.TransactionID == "" {
		t.Error("event draft must carry a transaction ID")
	}
	if len(draft.Attendees) != 1 || draft.Attendees[0] != "jane@example.com" {
		t.Errorf("unexpected attendees: %v", draft.Attendees)
	}
	if draft.StartLocal.Hour() != 10 || draft.StartLocal.Minute() != 0 {
		t.Errorf("start = %v, want 10:00 local", draft.StartLocal)
	}
	if got := draft.EndLocal.Sub(draft.StartLocal); got != 30*time.Minute {
		t.Errorf("duration = %v, want 30m", got)
	}
}

func TestCommitRejectsTakenSlot(t *testing.T) {
	fc := &fakeCalendar{events: []calendar.Event{{
		Start:  calendar.DateTimeTZ{DateTime: "2026-01-05T10:00:00"},
		End:    calendar.DateTimeTZ{DateTime: "2026-01-05T10:30:00"},
		ShowAs: "busy",
	}}}
	notifier := &fakeNotifier{}
	svc := newCommitter(fc, notifier)

	_, err := svc.Commit(context.Background(), bookingHost(), bookingReq())
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}
	for _, op := range fc.ops {
		if op == "create" {
			t.Fatal("no create call expected for a taken slot")
		}
	}
	if notifier.calls != 0 {
		t.Errorf("no notification expected, got %d", notifier.calls)
	}
}

func TestCommitCreateFailureIsCommitError(t *testing.T) {
	fc := &fakeCalendar{createErr: errors.New("503 service unavailable")}
	notifier := &fakeNotifier{}
	svc := newCommitter(fc, notifier)

	_, err := svc.Commit(context.Background(), bookingHost(), bookingReq())

	var commitErr *CommitError
	if !errors.As(err, &commitErr) {
		t.Fatalf("expected *CommitError, got %v", err)
	}
	if notifier.calls != 0 {
		t.Errorf("no notification expected after a failed create, got %d", notifier.calls)
	}
}

func TestCommitSurvivesNotificationFailure(t *testing.T) {
	fc := &fakeCalendar{ref: &calendar.EventRef{ID: "evt-1"}}
	notifier := &fakeNotifier{err: errors.New("mailbox quota exceeded")}
	svc := newCommitter(fc, notifier)

	ref, err := svc.Commit(context.Background(), bookingHost(), bookingReq())
	if err != nil {
		t.Fatalf("a failed notification must not fail the booking: %v", err)
	}
	if ref == nil || ref.ID != "evt-1" {
		t.Fatalf("unexpected event ref: %+v", ref)
	}
}

func TestCommitFreshTransactionIDPerAttempt(t *testing.T) {
	fc := &fakeCalendar{ref: &calendar.EventRef{ID: "evt-1"}}
	svc := newCommitter(fc, &fakeNotifier{})

	if _, err := svc.Commit(context.Background(), bookingHost(), bookingReq()); err != nil {
		t.Fatalf("first commit failed: %v", err)
	}
	if _, err := svc.Commit(context.Background(), bookingHost(), bookingReq()); err != nil {
		t.Fatalf("second commit failed: %v", err)
	}

	if len(fc.drafts) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(fc.drafts))
	}
	if fc.drafts[0].TransactionID == fc.drafts[1].TransactionID {
		t.Error("each attempt must carry a fresh transaction ID")
	}
}

func TestCommitRejectsSlotOutsideWorkWindow(t *testing.T) {
	fc := &fakeCalendar{}
	svc := newCommitter(fc, &fakeNotifier{})

	req := bookingReq()
	req.Start = 1010 // 16:50 + 30m overruns the 17:00 end
	_, err := svc.Commit(context.Background(), bookingHost(), req)
	if !errors.Is(err, ErrOutsideWorkingHours) {
		t.Fatalf("expected ErrOutsideWorkingHours, got %v", err)
	}
	if len(fc.ops) != 0 {
		t.Errorf("no calendar calls expected, got %v", fc.ops)
	}
}

func TestCommitAcceptsMidnightStart(t *testing.T) {
	fc := &fakeCalendar{ref: &calendar.EventRef{ID: "evt-1"}}
	svc := newCommitter(fc, &fakeNotifier{})

	host := bookingHost()
	host.Policy.StartTime, host.Policy.EndTime = "00:00", "08:00"
	req := bookingReq()
	req.Start = 0

	ref, err := svc.Commit(context.Background(), host, req)
	if err != nil {
		t.Fatalf("midnight start must commit within a 00:00 work window: %v", err)
	}
	if ref == nil || ref.ID != "evt-1" {
		t.Fatalf("unexpected event ref: %+v", ref)
	}
	if draft := fc.drafts[0]; draft.StartLocal.Hour() != 0 || draft.StartLocal.Minute() != 0 {
		t.Errorf("start = %v, want 00:00 local", draft.StartLocal)
	}
}

func TestCommitRejectsNonWorkingDay(t *testing.T) {
	svc := newCommitter(&fakeCalendar{}, &fakeNotifier{})

	req := bookingReq()
	req.Date = "2026-01-04" // Sunday
	_, err := svc.Commit(context.Background(), bookingHost(), req)
	if !errors.Is(err, scheduling.ErrDayNotAvailable) {
		t.Fatalf("expected ErrDayNotAvailable, got %v", err)
	}
}
