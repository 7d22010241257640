package attendance

import "errors"

// Attendance domain errors
var (
	ErrSessionAlreadyOpen = errors.New("a punch session is already open for today")
	ErrNoOpenSession      = errors.New("no open punch session to close")
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrInvalidIssueWindow = errors.New("issue window start must be before its end")
	ErrUnauthorized       = errors.New("unauthorized to access this attendance record")
)
