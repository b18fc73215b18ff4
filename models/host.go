package models

import (
	"fmt"
	"time"
)

// WeekdayNames is the accepted set of working-day names, Monday first.
var WeekdayNames = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// Host is a registered meeting host with a connected Outlook account.
// TokenCache holds the serialized OAuth token material; only the identity
// provider reads or writes it.
type Host struct {
	OID        string             `bson:"oid" json:"oid"`
	Email      string             `bson:"email" json:"email"`
	Name       string             `bson:"name" json:"name"`
	Slug       string             `bson:"slug" json:"slug"`
	VideoLink  string             `bson:"video_link" json:"videoLink"`
	Policy     AvailabilityPolicy `bson:"policy" json:"policy"`
	TokenCache string             `bson:"token_cache,omitempty" json:"-"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updatedAt"`
}

// AvailabilityPolicy is the host's working-hours policy. It is written only
// through the settings endpoint (validated there) and read-only to the
// booking flow.
type AvailabilityPolicy struct {
	AvailableDays   []string `bson:"available_days" json:"availableDays"`
	StartTime       string   `bson:"start_time" json:"startTime"` // "HH:MM"
	EndTime         string   `bson:"end_time" json:"endTime"`     // "HH:MM"
	MeetingDuration int      `bson:"meeting_duration" json:"meetingDuration"`
	Timezone        string   `bson:"timezone" json:"timezone"`
}

// DefaultPolicy is applied to a host profile on first sign-in.
func DefaultPolicy() AvailabilityPolicy {
	return AvailabilityPolicy{
		AvailableDays:   []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
		StartTime:       "09:00",
		EndTime:         "17:00",
		MeetingDuration: 30,
		Timezone:        "UTC",
	}
}

// ParseClock converts an "HH:MM" time-of-day into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Validate rejects malformed policies so they never reach slot math.
func (p AvailabilityPolicy) Validate() error {
	start, err := ParseClock(p.StartTime)
	if err != nil {
		return err
	}
	end, err := ParseClock(p.EndTime)
	if err != nil {
		return err
	}
	if start >= end {
		return fmt.Errorf("work day start %s must be before end %s", p.StartTime, p.EndTime)
	}
	if p.MeetingDuration < 15 || p.MeetingDuration > 180 {
		return fmt.Errorf("meeting duration must be between 15 and 180 minutes, got %d", p.MeetingDuration)
	}
	if len(p.AvailableDays) == 0 {
		return fmt.Errorf("at least one working day is required")
	}
	valid := make(map[string]bool, len(WeekdayNames))
	for _, d := range WeekdayNames {
		valid[d] = true
	}
	for _, d := range p.AvailableDays {
		if !valid[d] {
			return fmt.Errorf("unknown weekday %q", d)
		}
	}
	if _, err := time.LoadLocation(p.Timezone); err != nil {
		return fmt.Errorf("unknown time zone %q: %w", p.Timezone, err)
	}
	return nil
}

// WorkWindow returns the work-day window as minutes since midnight.
func (p AvailabilityPolicy) WorkWindow() (start, end int, err error) {
	if start, err = ParseClock(p.StartTime); err != nil {
		return 0, 0, err
	}
	if end, err = ParseClock(p.EndTime); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// DayEnabled reports whether the given weekday name is a working day.
func (p AvailabilityPolicy) DayEnabled(weekday string) bool {
	for _, d := range p.AvailableDays {
		if d == weekday {
			return true
		}
	}
	return false
}

// Location resolves the policy's IANA time zone.
func (p AvailabilityPolicy) Location() (*time.Location, error) {
	return time.LoadLocation(p.Timezone)
}
