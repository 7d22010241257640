package response

import (
	"errors"
	"net/http"

	"github.com/workpoint-hq/hr-backend-go/internal/domain/attendance"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/company"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/employee"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/leave"
	"github.com/workpoint-hq/hr-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrSessionAlreadyOpen):
		Conflict(w, "A punch session is already open for today")
	case errors.Is(err, attendance.ErrNoOpenSession):
		Conflict(w, "No open punch session to close")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrInvalidIssueWindow):
		BadRequest(w, "Window start must be before window end", nil)
	case errors.Is(err, attendance.ErrUnauthorized):
		Unauthorized(w, "Not authorized")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveNotFound):
		NotFound(w, "Leave record not found")
	case errors.Is(err, leave.ErrPenaltyNotFound):
		NotFound(w, "Attendance penalty not found")
	case errors.Is(err, leave.ErrLeaveAlreadyDecided):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrInsufficientPool):
		BadRequest(w, "Insufficient leave balance", nil)
	case errors.Is(err, leave.ErrInvalidLeaveType):
		BadRequest(w, "Invalid leave type", nil)
	case errors.Is(err, leave.ErrInvalidDateRange):
		BadRequest(w, "Invalid date range", nil)
	case errors.Is(err, leave.ErrInvalidLookback):
		BadRequest(w, "Lookback days must be positive", nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrNoJoiningDate):
		BadRequest(w, "Employee has no joining date", nil)
	case errors.Is(err, employee.ErrEmployeeNotActive):
		Forbidden(w, "Employee is not active")

	// Company domain errors
	case errors.Is(err, company.ErrCompanyNotFound):
		NotFound(w, "Company not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
