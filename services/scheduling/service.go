package scheduling

import (
	"context"
	"time"

	"schedulify/models"
	"schedulify/services/identity"
	"schedulify/utils"

	"go.uber.org/zap"
)

// SchedulingService computes the bookable slots for a host and day.
type SchedulingService interface {
	// AvailableSlots returns candidate start times (minutes since midnight,
	// ascending) confirmed free as of now. Returns identity.ErrNotConnected
	// when the host has no usable credential, ErrDayNotAvailable for
	// non-working days.
	AvailableSlots(ctx context.Context, host *models.Host, date string) ([]int, error)
}

// DefaultSchedulingService is the production implementation.
type DefaultSchedulingService struct {
	Identity identity.Provider
	Reader   *Reader
	Logger   *zap.Logger

	// Now can be overridden in tests.
	Now func() time.Time
}

// NewDefaultSchedulingService wires the service.
func NewDefaultSchedulingService(provider identity.Provider, reader *Reader) *DefaultSchedulingService {
	return &DefaultSchedulingService{
		Identity: provider,
		Reader:   reader,
		Logger:   utils.GetLogger(),
	}
}

func (s *DefaultSchedulingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// AvailableSlots computes the slot list for one host-local day: a fresh busy
// read, pure slot math over the work window, then the same-day lead filter.
func (s *DefaultSchedulingService) AvailableSlots(ctx context.Context, host *models.Host, date string) ([]int, error) {
	policy := host.Policy
	loc, err := policy.Location()
	if err != nil {
		return nil, err
	}
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if !policy.DayEnabled(day.Weekday().String()) {
		return nil, ErrDayNotAvailable
	}

	token, err := s.Identity.AccessToken(ctx, host)
	if err != nil {
		return nil, err
	}

	busy := s.Reader.DayBusy(ctx, token, date, policy)

	workStart, workEnd, err := policy.WorkWindow()
	if err != nil {
		return nil, err
	}
	slots := BuildSlots(workStart, workEnd, policy.MeetingDuration, busy)
	return FilterLeadTime(slots, date, s.now(), loc), nil
}
