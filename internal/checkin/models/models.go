package models

import (
	"time"

	"spotter/internal/antispoof"
	awardmodels "spotter/internal/award/models"
	"spotter/internal/geo"
	"spotter/internal/verification"
	id "spotter/pkg/domain"
)

// ErrorCode names why a check-in did not succeed. Denials are reported in
// Result, not as Go errors.
type ErrorCode string

const (
	ErrVenueNotFound              ErrorCode = "VenueNotFound"
	ErrVenueLocationUnavailable   ErrorCode = "VenueLocationUnavailable"
	ErrLocationVerificationFailed ErrorCode = "LocationVerificationFailed"
	ErrPersistence                ErrorCode = "PersistenceError"
)

// SpoofDenialMessage is shown for anti-cheat denials. Rule reasons stay in
// the audit row.
const SpoofDenialMessage = "location could not be verified"

// Record is one check-in attempt. Denied attempts are recorded too; only
// Accepted rows count as visits.
type Record struct {
	ID          id.CheckinID
	UserID      id.UserID
	VenueID     id.VenueID
	Coordinate  geo.Coordinate
	Verdict     verification.Verdict
	RiskLevel   antispoof.RiskLevel
	Accepted    bool
	Source      string
	CheckedInAt time.Time
}

// Audit is the dispute-review snapshot of an attempt. ClientIPHash is a
// keyed hash; raw addresses are never stored.
type Audit struct {
	ID           id.AuditID
	CheckinID    id.CheckinID
	UserID       id.UserID
	VenueID      id.VenueID
	Verdict      verification.Verdict
	Assessment   antispoof.Assessment
	ClientIPHash string
	Device       string
	RecordedAt   time.Time
}

// Result is returned for every attempt that reached a decision.
type Result struct {
	Success      bool                  `json:"success"`
	CheckinID    id.CheckinID          `json:"checkin_id"`
	Verdict      *verification.Verdict `json:"verdict,omitempty"`
	BadgesEarned []awardmodels.Badge   `json:"badges_earned"`
	Error        ErrorCode             `json:"error,omitempty"`
	Message      string                `json:"message,omitempty"`
	RepeatVisit  bool                  `json:"repeat_visit"`
	// HighAccuracyRequested asks the client to retry with a high-accuracy fix.
	HighAccuracyRequested bool `json:"high_accuracy_requested,omitempty"`
}

// Denied builds a failed result with no check-in attached.
func Denied(code ErrorCode, message string) *Result {
	return &Result{
		Success:      false,
		Error:        code,
		Message:      message,
		BadgesEarned: []awardmodels.Badge{},
	}
}
