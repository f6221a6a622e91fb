package schedule

import (
	"fmt"

	dErrors "vaxtrack/pkg/domain-errors"
)

// Engine errors. Returned errors wrap one of these, so callers match with
// errors.Is and transports map the carried code.
var (
	ErrInvalidDateOfBirth        = dErrors.New(dErrors.CodeValidation, "invalid date of birth")
	ErrVaccineNotInSchedule      = dErrors.New(dErrors.CodeNotFound, "vaccine not in schedule")
	ErrInvalidAdministrationDate = dErrors.New(dErrors.CodeValidation, "invalid administration date")
	ErrAlreadyAdministered       = dErrors.New(dErrors.CodeConflict, "vaccine already administered")
	ErrEntryClosed               = dErrors.New(dErrors.CodeConflict, "schedule entry is closed")
	ErrInvalidStatusTransition   = dErrors.New(dErrors.CodeValidation, "invalid status transition")
	ErrChildMismatch             = dErrors.New(dErrors.CodeValidation, "event is for a different child")
	ErrInvalidTable              = dErrors.New(dErrors.CodeInvariantViolation, "invalid vaccine schedule table")
)

func fail(base *dErrors.Error, format string, args ...any) error {
	return dErrors.Wrap(base, base.Code, fmt.Sprintf(format, args...))
}
