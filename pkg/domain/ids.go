// Package domain holds typed identifiers shared across modules.
//
// Each ID is a distinct named type over uuid.UUID so a VenueID can never be
// passed where a UserID is expected. Parse* functions are the trust boundary:
// they reject empty, malformed and nil UUIDs with CodeInvalidInput.
package domain

import (
	"github.com/google/uuid"

	dErrors "spotter/pkg/domain-errors"
)

type (
	UserID    uuid.UUID
	VenueID   uuid.UUID
	CheckinID uuid.UUID
	AuditID   uuid.UUID
	BadgeID   uuid.UUID
)

func parseUUID(kind, s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	if len(s) > 64 {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is too long")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" cannot be nil")
	}
	return u, nil
}

func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID("user_id", s)
	return UserID(u), err
}

func ParseVenueID(s string) (VenueID, error) {
	u, err := parseUUID("venue_id", s)
	return VenueID(u), err
}

func ParseCheckinID(s string) (CheckinID, error) {
	u, err := parseUUID("checkin_id", s)
	return CheckinID(u), err
}

func ParseAuditID(s string) (AuditID, error) {
	u, err := parseUUID("audit_id", s)
	return AuditID(u), err
}

func ParseBadgeID(s string) (BadgeID, error) {
	u, err := parseUUID("badge_id", s)
	return BadgeID(u), err
}

func (id UserID) String() string    { return uuid.UUID(id).String() }
func (id VenueID) String() string   { return uuid.UUID(id).String() }
func (id CheckinID) String() string { return uuid.UUID(id).String() }
func (id AuditID) String() string   { return uuid.UUID(id).String() }
func (id BadgeID) String() string   { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id VenueID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id CheckinID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id AuditID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id BadgeID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }

// MarshalText renders IDs as canonical UUID strings in JSON and logs.
func (id UserID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id VenueID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id CheckinID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id AuditID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id BadgeID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }

func NewCheckinID() CheckinID { return CheckinID(uuid.New()) }
func NewAuditID() AuditID     { return AuditID(uuid.New()) }
func NewBadgeID() BadgeID     { return BadgeID(uuid.New()) }

// UnmarshalText decodes canonical UUID text. Empty and nil UUIDs decode to the
// zero ID so optional references survive a JSON round trip; use Parse* at
// trust boundaries.
func (id *UserID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID("user_id", b)
	*id = UserID(u)
	return err
}

func (id *VenueID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID("venue_id", b)
	*id = VenueID(u)
	return err
}

func (id *CheckinID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID("checkin_id", b)
	*id = CheckinID(u)
	return err
}

func (id *AuditID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID("audit_id", b)
	*id = AuditID(u)
	return err
}

func (id *BadgeID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID("badge_id", b)
	*id = BadgeID(u)
	return err
}

func unmarshalUUID(kind string, b []byte) (uuid.UUID, error) {
	if len(b) == 0 {
		return uuid.Nil, nil
	}
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	return u, nil
}
