// Package domain holds the typed identifiers shared across modules.
package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	dErrors "vaxtrack/pkg/domain-errors"
)

// UUID-backed identifiers. Distinct types keep a reading ID from being passed
// where an alert ID is expected.
type (
	UserID    uuid.UUID
	ReadingID uuid.UUID
	AlertID   uuid.UUID
	EventID   uuid.UUID
)

func (u UserID) String() string    { return uuid.UUID(u).String() }
func (u UserID) IsNil() bool       { return uuid.UUID(u) == uuid.Nil }
func (r ReadingID) String() string { return uuid.UUID(r).String() }
func (a AlertID) String() string   { return uuid.UUID(a).String() }
func (a AlertID) IsNil() bool      { return uuid.UUID(a) == uuid.Nil }
func (e EventID) String() string   { return uuid.UUID(e).String() }

// MarshalText renders the canonical UUID string so IDs read naturally in
// JSON payloads. The nil ID marshals as an empty string.
func (u UserID) MarshalText() ([]byte, error) {
	if u.IsNil() {
		return []byte{}, nil
	}
	return []byte(u.String()), nil
}

func (u *UserID) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*u = UserID(uuid.Nil)
		return nil
	}
	parsed, err := uuid.ParseBytes(b)
	if err != nil {
		return fmt.Errorf("invalid user ID: %w", err)
	}
	*u = UserID(parsed)
	return nil
}

func (r ReadingID) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *ReadingID) UnmarshalText(b []byte) error {
	parsed, err := uuid.ParseBytes(b)
	if err != nil {
		return fmt.Errorf("invalid reading ID: %w", err)
	}
	*r = ReadingID(parsed)
	return nil
}

func (a AlertID) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *AlertID) UnmarshalText(b []byte) error {
	parsed, err := uuid.ParseBytes(b)
	if err != nil {
		return fmt.Errorf("invalid alert ID: %w", err)
	}
	*a = AlertID(parsed)
	return nil
}

func (e EventID) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

func (e *EventID) UnmarshalText(b []byte) error {
	parsed, err := uuid.ParseBytes(b)
	if err != nil {
		return fmt.Errorf("invalid event ID: %w", err)
	}
	*e = EventID(parsed)
	return nil
}

func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user ID")
	return UserID(u), err
}

func ParseReadingID(s string) (ReadingID, error) {
	u, err := parseUUID(s, "reading ID")
	return ReadingID(u), err
}

func ParseAlertID(s string) (AlertID, error) {
	u, err := parseUUID(s, "alert ID")
	return AlertID(u), err
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return u, nil
}

// FacilityCode identifies a health facility. Codes prefix child IDs, so they
// are short uppercase alphanumerics.
type FacilityCode string

var facilityCodePattern = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)

func (f FacilityCode) String() string { return string(f) }
func (f FacilityCode) IsZero() bool   { return f == "" }

// ParseFacilityCode upper-cases and validates a facility code.
func ParseFacilityCode(s string) (FacilityCode, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	if code == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "facility code required")
	}
	if !facilityCodePattern.MatchString(code) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "facility code must be 2-10 uppercase letters or digits")
	}
	return FacilityCode(code), nil
}

// ChildID has the form <facility>-<yy>-<sequence> with a five digit sequence,
// e.g. KBTH-24-00017.
type ChildID string

var childIDPattern = regexp.MustCompile(`^([A-Z0-9]{2,10})-(\d{2})-(\d{5,})$`)

func (c ChildID) String() string { return string(c) }

// Facility returns the facility code embedded in the ID.
func (c ChildID) Facility() FacilityCode {
	if m := childIDPattern.FindStringSubmatch(string(c)); m != nil {
		return FacilityCode(m[1])
	}
	return ""
}

// NewChildID formats the ID for the n-th child registered at a facility in
// the given year.
func NewChildID(facility FacilityCode, year, seq int) ChildID {
	return ChildID(fmt.Sprintf("%s-%02d-%05d", facility, year%100, seq))
}

func ParseChildID(s string) (ChildID, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if v == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "child ID required")
	}
	m := childIDPattern.FindStringSubmatch(v)
	if m == nil {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid child ID")
	}
	if n, err := strconv.Atoi(m[3]); err != nil || n == 0 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid child ID sequence")
	}
	return ChildID(v), nil
}
