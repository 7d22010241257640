package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/leave"
	"github.com/workpoint-hq/hr-backend-go/internal/handler/http/response"
	leavesvc "github.com/workpoint-hq/hr-backend-go/internal/service/leave"
)

type LeaveHandler interface {
	Request(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	GetMyLeaves(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	leaveService *leavesvc.Service
}

func NewLeaveHandler(leaveService *leavesvc.Service) LeaveHandler {
	return &leaveHandlerImpl{
		leaveService: leaveService,
	}
}

// Request implements LeaveHandler.
func (h *leaveHandlerImpl) Request(w http.ResponseWriter, r *http.Request) {
	employeeID, companyID, ok := claimsFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req leave.RequestLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = employeeID
	req.CompanyID = companyID

	l, err := h.leaveService.Request(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Leave requested", leave.NewLeaveResponse(l))
}

// Approve implements LeaveHandler.
func (h *leaveHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	_, companyID, ok := claimsFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	l, err := h.leaveService.Approve(r.Context(), chi.URLParam(r, "leaveID"), companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave approved", leave.NewLeaveResponse(l))
}

// Reject implements LeaveHandler.
func (h *leaveHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	_, companyID, ok := claimsFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	l, err := h.leaveService.Reject(r.Context(), chi.URLParam(r, "leaveID"), companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave rejected", leave.NewLeaveResponse(l))
}

// GetMyLeaves implements LeaveHandler.
func (h *leaveHandlerImpl) GetMyLeaves(w http.ResponseWriter, r *http.Request) {
	employeeID, _, ok := claimsFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	leaves, err := h.leaveService.ListMy(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	out := make([]leave.LeaveResponse, 0, len(leaves))
	for _, l := range leaves {
		out = append(out, leave.NewLeaveResponse(l))
	}
	response.Success(w, out)
}
