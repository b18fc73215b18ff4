package calendar

import (
	"fmt"
	"time"
)

// DateTimeTZ mirrors the Graph dateTime/timeZone pair.
type DateTimeTZ struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// Event is one calendar event as returned by the Graph calendarView query,
// annotated in the host's local time zone.
type Event struct {
	Subject     string     `json:"subject"`
	Start       DateTimeTZ `json:"start"`
	End         DateTimeTZ `json:"end"`
	ShowAs      string     `json:"showAs"`
	IsCancelled bool       `json:"isCancelled"`
}

// EventDraft describes the event to create for a confirmed booking.
// TransactionID is the client-generated idempotency marker; the Graph service
// deduplicates retried creates on it.
type EventDraft struct {
	Subject       string
	HTMLBody      string
	StartLocal    time.Time
	EndLocal      time.Time
	Timezone      string
	Attendees     []string
	TransactionID string
}

// EventRef identifies a created event.
type EventRef struct {
	ID      string `json:"id"`
	WebLink string `json:"webLink"`
}

// Mail is a notification message sent through the host's mailbox.
type Mail struct {
	To       string
	Subject  string
	HTMLBody string
}

// APIError reports a non-success response from the Graph service.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("graph request failed (%d): %s", e.Status, e.Body)
}
