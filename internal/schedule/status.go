package schedule

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state of one schedule entry.
type Status string

const (
	StatusPending         Status = "pending"
	StatusDueSoon         Status = "due_soon"
	StatusOverdue         Status = "overdue"
	StatusAdministered    Status = "administered"
	StatusMissed          Status = "missed"
	StatusContraindicated Status = "contraindicated"
)

// DueSoonWindowDays is the inclusive window before the due date in which a
// pending dose is due soon.
const DueSoonWindowDays = 7

var allStatuses = []Status{
	StatusPending, StatusDueSoon, StatusOverdue,
	StatusAdministered, StatusMissed, StatusContraindicated,
}

// IsTerminal reports whether the classifier must leave the status alone.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusAdministered, StatusMissed, StatusContraindicated:
		return true
	default:
		return false
	}
}

func (s Status) IsValid() bool {
	for _, v := range allStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s Status) String() string { return string(s) }

// ParseStatus accepts the wire value; "due-soon" is accepted as an alias.
func ParseStatus(v string) (Status, error) {
	s := Status(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(v)), "-", "_"))
	if !s.IsValid() {
		return "", fmt.Errorf("unknown status %q", v)
	}
	return s, nil
}
