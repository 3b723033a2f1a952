package models

import (
	"time"

	id "spotter/pkg/domain"
)

// Result is the outcome of one attempt against a limit.
type Result struct {
	Allowed   bool      `json:"allowed"`
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
	// RetryAfter is whole seconds until the window frees a slot; set only when denied.
	RetryAfter int `json:"retry_after,omitempty"`
}

// Limit is a count per window.
type Limit struct {
	Requests int
	Window   time.Duration
}

const keyPrefix = "spotter:ratelimit:"

// CheckinKey scopes check-in attempts to one user.
func CheckinKey(userID id.UserID) string {
	return keyPrefix + "checkin:" + userID.String()
}
