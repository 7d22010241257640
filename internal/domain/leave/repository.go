package leave

import (
	"context"
	"time"
)

// LeaveRepository defines data access for leave records.
type LeaveRepository interface {
	// Create inserts a new leave record with a caller-generated ID.
	Create(ctx context.Context, leave Leave) (Leave, error)

	// GetByID retrieves a leave by ID with company isolation.
	GetByID(ctx context.Context, id string, companyID string) (Leave, error)

	// UpdateStatus transitions a leave to a decided state and records the
	// allocations charged on approval.
	UpdateStatus(ctx context.Context, leave Leave) error

	// ListByEmployee retrieves all leave records for an employee, newest first.
	ListByEmployee(ctx context.Context, employeeID string) ([]Leave, error)

	// HasLeaveCovering reports whether any non-rejected leave covers the given
	// calendar day. Used by the issue detector for idempotency.
	HasLeaveCovering(ctx context.Context, employeeID string, day time.Time) (bool, error)

	// DeleteAutoBefore removes auto-generated or penalty-linked leave starting
	// before the given day. Returns the number of rows removed.
	DeleteAutoBefore(ctx context.Context, employeeID string, before time.Time) (int64, error)
}

// PenaltyRepository defines data access for attendance penalties.
type PenaltyRepository interface {
	// Create inserts a new penalty with a caller-generated ID.
	Create(ctx context.Context, penalty AttendancePenalty) (AttendancePenalty, error)

	// ExistsForDate reports whether any penalty (resolved or not) exists for
	// the employee on the given day.
	ExistsForDate(ctx context.Context, employeeID string, day time.Time) (bool, error)

	// ListUnresolvedBefore retrieves unresolved penalties dated strictly before
	// the given day.
	ListUnresolvedBefore(ctx context.Context, employeeID string, before time.Time) ([]AttendancePenalty, error)

	// MarkResolved stamps a penalty as resolved. Returns ErrPenaltyAlreadySolved
	// if it was resolved by a concurrent run.
	MarkResolved(ctx context.Context, id string, resolvedAt time.Time, resolvedBy string) error
}
