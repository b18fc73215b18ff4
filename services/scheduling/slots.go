package scheduling

import (
	"time"

	"schedulify/models"
)

// MinLeadMinutes is the minimum lead time before a same-day slot may start.
const MinLeadMinutes = 5

// overlaps reports open-interval overlap between two [start, end) ranges in
// minutes since midnight. Ranges that merely touch at an endpoint do not
// overlap.
func overlaps(aStart, aEnd, bStart, bEnd int) bool {
	lo := aStart
	if bStart > lo {
		lo = bStart
	}
	hi := aEnd
	if bEnd < hi {
		hi = bEnd
	}
	return lo < hi
}

// BuildSlots walks the work window in fixed duration steps starting at
// workStart and returns the candidate start times (minutes since midnight,
// ascending) whose full interval fits the window and overlaps no busy
// interval. Pure: no clock reads.
func BuildSlots(workStart, workEnd, durationMin int, busy []models.BusyInterval) []int {
	var slots []int
	if durationMin <= 0 {
		return slots
	}
	for s := workStart; s+durationMin <= workEnd; s += durationMin {
		e := s + durationMin
		blocked := false
		for _, b := range busy {
			if overlaps(s, e, b.Start, b.End) {
				blocked = true
				break
			}
		}
		if !blocked {
			slots = append(slots, s)
		}
	}
	return slots
}

// FilterLeadTime drops slots starting at or before now + MinLeadMinutes when
// the selected date is today in the host's zone. Other dates pass through
// untouched. This lives outside BuildSlots because it depends on "now".
func FilterLeadTime(slots []int, date string, now time.Time, loc *time.Location) []int {
	local := now.In(loc)
	if date != local.Format("2006-01-02") {
		return slots
	}
	cutoff := local.Add(MinLeadMinutes * time.Minute)
	if cutoff.Day() != local.Day() {
		// The cutoff rolled past midnight; no same-day slot has enough lead.
		return nil
	}
	cutoffMin := cutoff.Hour()*60 + cutoff.Minute()

	kept := make([]int, 0, len(slots))
	for _, s := range slots {
		if s > cutoffMin {
			kept = append(kept, s)
		}
	}
	return kept
}
