package leave

import (
	"github.com/workpoint-hq/hr-backend-go/internal/pkg/validator"
)

// RequestLeaveRequest is the payload for a manual leave request.
type RequestLeaveRequest struct {
	EmployeeID string `json:"-"`
	CompanyID  string `json:"-"`
	Type       Type   `json:"type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Reason     string `json:"reason"`
}

func (r RequestLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if !IsValidType(r.Type) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be one of PAID, CASUAL, SICK, UNPAID"})
	}

	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if okStart && okEnd && start.After(end) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must not be before start_date"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Days returns the inclusive duration of the request in whole days.
func (r RequestLeaveRequest) Days() float64 {
	start, _ := validator.IsValidDate(r.StartDate)
	end, _ := validator.IsValidDate(r.EndDate)
	return end.Sub(start).Hours()/24 + 1
}

// LeaveResponse is the wire shape for leave records.
type LeaveResponse struct {
	ID           string      `json:"id"`
	EmployeeID   string      `json:"employee_id"`
	Type         Type        `json:"type"`
	FallbackType *Type       `json:"fallback_type,omitempty"`
	StartDate    string      `json:"start_date"`
	EndDate      string      `json:"end_date"`
	Status       Status      `json:"status"`
	IsAuto       bool        `json:"is_auto"`
	Allocations  Allocations `json:"allocations"`
}

func NewLeaveResponse(l Leave) LeaveResponse {
	return LeaveResponse{
		ID:           l.ID,
		EmployeeID:   l.EmployeeID,
		Type:         l.Type,
		FallbackType: l.FallbackType,
		StartDate:    l.StartDate.Format("2006-01-02"),
		EndDate:      l.EndDate.Format("2006-01-02"),
		Status:       l.Status,
		IsAuto:       l.IsAuto,
		Allocations:  l.Allocations,
	}
}
