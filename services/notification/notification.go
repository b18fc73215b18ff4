package notification

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

// NotificationService sends the host a summary of a new booking. Delivery is
// best effort; the created calendar event is the durable record.
type NotificationService interface {
	NotifyBooking(ctx context.Context, token string, host *models.Host, req models.BookingRequest, startLocal time.Time) error
}

// DefaultNotificationService sends mail through the host's own mailbox.
type DefaultNotificationService struct {
	Calendar calendar.API
	Logger   *zap.Logger
}

// NewDefaultNotificationService wires the service.
func NewDefaultNotificationService(api calendar.API) *DefaultNotificationService {
	return &DefaultNotificationService{Calendar: api, Logger: utils.GetLogger()}
}

// AgendaSnippet shortens a free-text agenda for subject lines.
func AgendaSnippet(agenda string) string {
	agenda = strings.TrimSpace(agenda)
	runes := []rune(agenda)
	if len(runes) > 80 {
		return string(runes[:80]) + "..."
	}
	return agenda
}

// NotifyBooking mails the host a booking summary.
func (s *DefaultNotificationService) NotifyBooking(ctx context.Context, token string, host *models.Host, req models.BookingRequest, startLocal time.Time) error {
	if host.Email == "" {
		return nil
	}

	humanTime := startLocal.Format("Monday, January 02 at 03:04 PM")
	subject := fmt.Sprintf("[New booking] %s <%s> on %s (%s)",
		req.GuestName, req.GuestEmail, humanTime, host.Policy.Timezone)
	if snip := AgendaSnippet(req.Agenda); snip != "" {
		subject += " - " + snip
	}

	mail := calendar.Mail{
		To:       host.Email,
		Subject:  subject,
		HTMLBody: bookingSummaryHTML(host, req, humanTime),
	}
	if err := s.Calendar.SendMail(ctx, token, mail); err != nil {
		return fmt.Errorf("failed to send booking notification: %w", err)
	}
	s.Logger.Info("booking notification sent",
		zap.String("host", host.Slug), zap.String("guest", req.GuestEmail))
	return nil
}

func bookingSummaryHTML(host *models.Host, req models.BookingRequest, humanTime string) string {
	videoLink := host.VideoLink
	if videoLink == "" {
		videoLink = "N/A"
	}
	var b strings.Builder
	b.WriteString("<p>New booking created.</p><ul>")
	fmt.Fprintf(&b, "<li><b>Guest:</b> %s &lt;%s&gt;</li>", req.GuestName, req.GuestEmail)
	fmt.Fprintf(&b, "<li><b>When:</b> %s (%s)</li>", humanTime, host.Policy.Timezone)
	fmt.Fprintf(&b, "<li><b>Duration:</b> %d minutes</li>", host.Policy.MeetingDuration)
	fmt.Fprintf(&b, "<li><b>Video link:</b> %s</li>", videoLink)
	if agenda := strings.TrimSpace(req.Agenda); agenda != "" {
		fmt.Fprintf(&b, "<li><b>Agenda:</b> %s</li>", agenda)
	}
	b.WriteString("</ul>")
	return b.String()
}
