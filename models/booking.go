package models

// BusyInterval is a half-open [Start, End) time-of-day range on one calendar
// day, in minutes since midnight. Recomputed per request, never persisted.
type BusyInterval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// BookingRequest carries one guest's confirmed slot selection. It is consumed
// exactly once by the guard/commit pipeline.
type BookingRequest struct {
	GuestName  string `json:"name" binding:"required"`
	GuestEmail string `json:"email" binding:"required,email"`
	Agenda     string `json:"agenda"`
	Date       string `json:"date" binding:"required"` // "2006-01-02" in the host's zone
	// "required" would reject the zero value, and 0 is the legal midnight
	// slot; the commit pipeline range-checks against the work window.
	Start int `json:"start" binding:"gte=0"` // minutes since midnight
}
