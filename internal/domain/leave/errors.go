package leave

import "errors"

// Leave domain errors
var (
	ErrLeaveNotFound        = errors.New("leave record not found")
	ErrPenaltyNotFound      = errors.New("attendance penalty not found")
	ErrLeaveAlreadyDecided  = errors.New("leave request has already been approved or rejected")
	ErrInvalidLeaveType     = errors.New("invalid leave type")
	ErrInvalidDateRange     = errors.New("start date must not be after end date")
	ErrInsufficientPool     = errors.New("requested days exceed the remaining leave pool")
	ErrPenaltyAlreadySolved = errors.New("attendance penalty has already been resolved")
	ErrDayAlreadyCovered    = errors.New("day is already covered by a leave or penalty")
	ErrInvalidLookback      = errors.New("lookback days must be positive")
)
