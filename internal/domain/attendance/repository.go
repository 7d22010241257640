package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for punch records.
type AttendanceRepository interface {
	// Create inserts a new day-record with a caller-generated ID.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// Update persists the mutable session fields of an existing day-record.
	Update(ctx context.Context, attendance Attendance) error

	// GetByEmployeeAndDate retrieves the day-record for an employee on a
	// calendar day, or nil if none exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, day time.Time) (*Attendance, error)

	// ListOpenBefore retrieves records still holding an open session whose day
	// is strictly before the given day. Rows already closed are not selected,
	// which makes the auto punch-out job safely re-runnable.
	ListOpenBefore(ctx context.Context, day time.Time) ([]Attendance, error)

	// ListByEmployeeAndRange retrieves records for days in [start, endExclusive),
	// oldest first.
	ListByEmployeeAndRange(ctx context.Context, employeeID string, start, endExclusive time.Time) ([]Attendance, error)
}
