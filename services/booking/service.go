package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"schedulify/models"
	"schedulify/services/calendar"
	"schedulify/services/identity"
	"schedulify/services/notification"
	"schedulify/services/scheduling"
	"schedulify/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service commits bookings against the host's external calendar.
type Service interface {
	// Commit re-validates the chosen interval and, if still free, creates
	// the calendar event and notifies the host. The external calendar is
	// the only serialization point; two racing guests are arbitrated by
	// whichever create lands first plus this re-check.
	Commit(ctx context.Context, host *models.Host, req models.BookingRequest) (*calendar.EventRef, error)
}

// DefaultService is the production committer.
type DefaultService struct {
	Identity identity.Provider
	Guard    *scheduling.Guard
	Calendar calendar.API
	Notifier notification.NotificationService
	Logger   *zap.Logger
}

// NewDefaultService wires the committer.
func NewDefaultService(provider identity.Provider, guard *scheduling.Guard, api calendar.API, notifier notification.NotificationService) *DefaultService {
	return &DefaultService{
		Identity: provider,
		Guard:    guard,
		Calendar: api,
		Notifier: notifier,
		Logger:   utils.GetLogger(),
	}
}

// Commit runs the guard re-check and the event create as one logical
// operation. There is no commit path that skips the fresh guard check.
func (s *DefaultService) Commit(ctx context.Context, host *models.Host, req models.BookingRequest) (*calendar.EventRef, error) {
	policy := host.Policy
	loc, err := policy.Location()
	if err != nil {
		return nil, err
	}
	day, err := time.ParseInLocation("2006-01-02", req.Date, loc)
	if err != nil {
		return nil, scheduling.ErrInvalidDate
	}
	if !policy.DayEnabled(day.Weekday().String()) {
		return nil, scheduling.ErrDayNotAvailable
	}
	workStart, workEnd, err := policy.WorkWindow()
	if err != nil {
		return nil, err
	}
	if req.Start < workStart || req.Start+policy.MeetingDuration > workEnd {
		return nil, ErrOutsideWorkingHours
	}

	token, err := s.Identity.AccessToken(ctx, host)
	if err != nil {
		return nil, err
	}

	startLocal := day.Add(time.Duration(req.Start) * time.Minute)
	endLocal := startLocal.Add(time.Duration(policy.MeetingDuration) * time.Minute)

	if !s.Guard.IntervalFree(ctx, token, startLocal, endLocal, policy.Timezone) {
		return nil, ErrSlotTaken
	}

	draft := calendar.EventDraft{
		Subject:    eventSubject(req),
		HTMLBody:   eventBodyHTML(host, req, startLocal),
		StartLocal: startLocal,
		EndLocal:   endLocal,
		Timezone:   policy.Timezone,
		Attendees:  []string{req.GuestEmail},
		// Fresh marker per logical booking attempt; the calendar service
		// deduplicates a retried create on it.
		TransactionID: uuid.New().String(),
	}

	ref, err := s.Calendar.CreateEvent(ctx, token, draft)
	if err != nil {
		s.Logger.Error("create event failed",
			zap.String("host", host.Slug), zap.String("date", req.Date), zap.Error(err))
		return nil, &CommitError{Err: err}
	}

	// Best effort: a failed notification never rolls back the event.
	if err := s.Notifier.NotifyBooking(ctx, token, host, req, startLocal); err != nil {
		s.Logger.Warn("booking notification failed",
			zap.String("host", host.Slug), zap.Error(err))
	}

	s.Logger.Info("booking committed",
		zap.String("host", host.Slug),
		zap.String("date", req.Date),
		zap.Int("start", req.Start),
		zap.String("guest", req.GuestEmail))
	return ref, nil
}

func eventSubject(req models.BookingRequest) string {
	subject := "Meeting with " + req.GuestName
	if snip := notification.AgendaSnippet(req.Agenda); snip != "" {
		subject += " - " + snip
	}
	return subject
}

func eventBodyHTML(host *models.Host, req models.BookingRequest, startLocal time.Time) string {
	videoLink := host.VideoLink
	if videoLink == "" {
		videoLink = "N/A"
	}
	var b strings.Builder
	b.WriteString("<p>Meeting scheduled via Schedulify.</p><ul>")
	fmt.Fprintf(&b, "<li><b>Guest:</b> %s &lt;%s&gt;</li>", req.GuestName, req.GuestEmail)
	fmt.Fprintf(&b, "<li><b>When:</b> %s (%s)</li>",
		startLocal.Format("Monday, January 02 2006 03:04 PM"), host.Policy.Timezone)
	fmt.Fprintf(&b, "<li><b>Duration:</b> %d minutes</li>", host.Policy.MeetingDuration)
	fmt.Fprintf(&b, "<li><b>Video link:</b> %s</li>", videoLink)
	if agenda := strings.TrimSpace(req.Agenda); agenda != "" {
		fmt.Fprintf(&b, "<li><b>Agenda:</b> %s</li>", agenda)
	}
	b.WriteString("</ul>")
	return b.String()
}
