package booking

import (
	"errors"
	"fmt"
)

// ErrSlotTaken is returned when the commit-time re-check finds the interval
// no longer free. The caller must recompute the slot list, not retry the
// same interval.
var ErrSlotTaken = errors.New("that slot was just taken")

// ErrOutsideWorkingHours is returned when the requested interval does not
// fit the host's work window.
var ErrOutsideWorkingHours = errors.New("requested time is outside the host's working hours")

// CommitError reports a failed create-event call. Writes fail closed: no
// event exists and no notification was sent.
type CommitError struct {
	Err error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("booking commit failed: %v", e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}
