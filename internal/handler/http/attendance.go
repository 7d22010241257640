package http

import (
	"net/http"
	"time"

	"github.com/workpoint-hq/hr-backend-go/internal/domain/attendance"
	"github.com/workpoint-hq/hr-backend-go/internal/handler/http/response"
	"github.com/workpoint-hq/hr-backend-go/internal/pkg/validator"
	attendancesvc "github.com/workpoint-hq/hr-backend-go/internal/service/attendance"
)

type AttendanceHandler interface {
	PunchIn(w http.ResponseWriter, r *http.Request)
	PunchOut(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService *attendancesvc.Service
}

func NewAttendanceHandler(attendanceService *attendancesvc.Service) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// PunchIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) PunchIn(w http.ResponseWriter, r *http.Request) {
	employeeID, companyID, ok := claimsFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	rec, err := h.attendanceService.PunchIn(r.Context(), employeeID, companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Punched in", attendance.NewPunchResponse(rec))
}

// PunchOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) PunchOut(w http.ResponseWriter, r *http.Request) {
	employeeID, _, ok := claimsFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	rec, err := h.attendanceService.PunchOut(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Punched out", attendance.NewPunchResponse(rec))
}

// GetMyAttendance implements AttendanceHandler. Query params start and end
// (YYYY-MM-DD, end exclusive) default to the last 30 days.
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	employeeID, _, ok := claimsFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	end := attendance.DayOf(time.Now()).AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -30)
	if s := r.URL.Query().Get("start"); s != "" {
		parsed, valid := validator.IsValidDate(s)
		if !valid {
			response.BadRequest(w, "Invalid start date, expected YYYY-MM-DD", nil)
			return
		}
		start = parsed
	}
	if s := r.URL.Query().Get("end"); s != "" {
		parsed, valid := validator.IsValidDate(s)
		if !valid {
			response.BadRequest(w, "Invalid end date, expected YYYY-MM-DD", nil)
			return
		}
		end = parsed
	}

	records, err := h.attendanceService.GetRange(r.Context(), employeeID, start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	out := make([]attendance.PunchResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, attendance.NewPunchResponse(rec))
	}
	response.Success(w, out)
}
