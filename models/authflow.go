package models

import "time"

// AuthFlow is a pending sign-in flow record, keyed by the OAuth state value.
// It is consumed exactly once: a missing record means expired or already used.
type AuthFlow struct {
	State       string    `bson:"_id" json:"state"`
	RedirectURI string    `bson:"redirect_uri" json:"redirectURI"`
	CreatedAt   time.Time `bson:"created_utc" json:"createdAt"`
}
