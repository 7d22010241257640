package attendance

import (
	"time"
)

// Attendance is the per-employee-per-day punch record. At most one row exists
// per employee per calendar day; rows are created on the first punch-in and
// mutated in place thereafter.
type Attendance struct {
	ID         string
	EmployeeID string
	CompanyID  string

	// Date is the calendar day the record belongs to, truncated to midnight UTC.
	Date time.Time

	// FirstPunchIn is set once, on the first punch-in of the day.
	FirstPunchIn *time.Time

	// LastPunchIn is present only while a session is open.
	LastPunchIn *time.Time

	LastPunchOut *time.Time

	// WorkedMs accumulates closed session durations in milliseconds.
	WorkedMs int64

	// Auto punch-out audit trail.
	AutoPunchOut        bool
	AutoPunchOutAt      *time.Time
	AutoPunchLastIn     *time.Time
	AutoPunchResolvedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	EmployeeName *string
}

// IsOpen reports whether a punch session is currently open.
// LastPunchIn set and LastPunchOut of the session pending <=> open.
func (a Attendance) IsOpen() bool {
	return a.LastPunchIn != nil
}

// HasValidPunchIn reports whether the day shows any valid first punch-in.
// Days without one count as deficient for the issue detector.
func (a Attendance) HasValidPunchIn() bool {
	return a.FirstPunchIn != nil
}

// DayOf truncates a timestamp to its calendar day in UTC. All Date fields and
// window boundaries in this package are day-truncated UTC times.
func DayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Issue marks one calendar day lacking valid attendance for an employee.
type Issue struct {
	EmployeeID string
	CompanyID  string
	Date       time.Time
}
