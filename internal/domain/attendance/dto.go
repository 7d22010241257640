package attendance

import "time"

// PunchResponse is the wire shape returned by punch-in/punch-out.
type PunchResponse struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employee_id"`
	Date         string     `json:"date"`
	FirstPunchIn *time.Time `json:"first_punch_in,omitempty"`
	LastPunchIn  *time.Time `json:"last_punch_in,omitempty"`
	LastPunchOut *time.Time `json:"last_punch_out,omitempty"`
	WorkedMs     int64      `json:"worked_ms"`
	AutoPunchOut bool       `json:"auto_punch_out"`
	Open         bool       `json:"open"`
}

// NewPunchResponse maps a day-record to its response shape.
func NewPunchResponse(a Attendance) PunchResponse {
	return PunchResponse{
		ID:           a.ID,
		EmployeeID:   a.EmployeeID,
		Date:         a.Date.Format("2006-01-02"),
		FirstPunchIn: a.FirstPunchIn,
		LastPunchIn:  a.LastPunchIn,
		LastPunchOut: a.LastPunchOut,
		WorkedMs:     a.WorkedMs,
		AutoPunchOut: a.AutoPunchOut,
		Open:         a.IsOpen(),
	}
}

// IssueResponse is the wire shape for detected attendance issues.
type IssueResponse struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
}

func NewIssueResponse(i Issue) IssueResponse {
	return IssueResponse{
		EmployeeID: i.EmployeeID,
		Date:       i.Date.Format("2006-01-02"),
	}
}
