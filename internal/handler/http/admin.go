package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/attendance"
	"github.com/workpoint-hq/hr-backend-go/internal/handler/http/response"
	"github.com/workpoint-hq/hr-backend-go/internal/pkg/validator"
	attendancesvc "github.com/workpoint-hq/hr-backend-go/internal/service/attendance"
	leavesvc "github.com/workpoint-hq/hr-backend-go/internal/service/leave"
	"github.com/workpoint-hq/hr-backend-go/internal/service/reconcile"
)

// AdminHandler exposes the batch-engine operations to ad-hoc admin triggers:
// issue inspection, an immediate auto-leave sweep, and the backdating
// reconciler.
type AdminHandler interface {
	GetIssues(w http.ResponseWriter, r *http.Request)
	RunAutoLeave(w http.ResponseWriter, r *http.Request)
	ReconcileEmployee(w http.ResponseWriter, r *http.Request)
	ReconcileAll(w http.ResponseWriter, r *http.Request)
}

type adminHandlerImpl struct {
	detector        *attendancesvc.IssueDetector
	autoLeaveSvc    *leavesvc.AutoLeaveService
	reconcileSvc    *reconcile.Service
	defaultLookback int
}

func NewAdminHandler(
	detector *attendancesvc.IssueDetector,
	autoLeaveSvc *leavesvc.AutoLeaveService,
	reconcileSvc *reconcile.Service,
	defaultLookback int,
) AdminHandler {
	return &adminHandlerImpl{
		detector:        detector,
		autoLeaveSvc:    autoLeaveSvc,
		reconcileSvc:    reconcileSvc,
		defaultLookback: defaultLookback,
	}
}

// GetIssues implements AdminHandler. Query params start and end are required
// (YYYY-MM-DD, end exclusive).
func (h *adminHandlerImpl) GetIssues(w http.ResponseWriter, r *http.Request) {
	_, companyID, ok := claimsFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	start, okStart := validator.IsValidDate(r.URL.Query().Get("start"))
	end, okEnd := validator.IsValidDate(r.URL.Query().Get("end"))
	if !okStart || !okEnd {
		response.BadRequest(w, "Query params start and end are required (YYYY-MM-DD)", nil)
		return
	}

	issues, err := h.detector.CollectIssues(r.Context(), employeeID, companyID, start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	out := make([]attendance.IssueResponse, 0, len(issues))
	for _, issue := range issues {
		out = append(out, attendance.NewIssueResponse(issue))
	}
	response.Success(w, out)
}

// RunAutoLeave implements AdminHandler. The optional body overrides the
// configured lookback.
func (h *adminHandlerImpl) RunAutoLeave(w http.ResponseWriter, r *http.Request) {
	opts := leavesvc.RunOptions{LookbackDays: h.defaultLookback}

	if r.Body != nil && r.ContentLength > 0 {
		var body struct {
			LookbackDays int `json:"lookback_days"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
		if body.LookbackDays != 0 {
			opts.LookbackDays = body.LookbackDays
		}
	}

	if err := h.autoLeaveSvc.RunAutoLeaveJob(r.Context(), opts); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Auto-leave sweep completed", nil)
}

// ReconcileEmployee implements AdminHandler.
func (h *adminHandlerImpl) ReconcileEmployee(w http.ResponseWriter, r *http.Request) {
	result, err := h.reconcileSvc.Reconcile(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employee reconciled", result)
}

// ReconcileAll implements AdminHandler.
func (h *adminHandlerImpl) ReconcileAll(w http.ResponseWriter, r *http.Request) {
	results, err := h.reconcileSvc.ReconcileAll(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Reconciliation completed", results)
}
