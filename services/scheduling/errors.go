package scheduling

import "errors"

// ErrDayNotAvailable is returned when the requested date is not one of the
// host's working days.
var ErrDayNotAvailable = errors.New("selected day is not a working day for this host")

// ErrInvalidDate is returned for dates that do not parse as YYYY-MM-DD.
var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
