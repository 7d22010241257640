// Package reconcile reverses automatic consumption that predates an
// employee's (possibly corrected) joining date. Joining dates can be fixed
// after auto leaves and penalties already exist; this service removes those
// records and refunds their balance effects.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/workpoint-hq/hr-backend-go/internal/domain/attendance"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/company"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/employee"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/leave"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/notification"
	"github.com/workpoint-hq/hr-backend-go/internal/pkg/database"
	"github.com/workpoint-hq/hr-backend-go/internal/pkg/lock"
	"github.com/workpoint-hq/hr-backend-go/internal/service/balance"
)

const resolvedBy = "backdate-reconciler"

type Service struct {
	tx              database.Transactor
	employeeRepo    employee.EmployeeRepository
	companyRepo     company.CompanyRepository
	leaveRepo       leave.LeaveRepository
	penaltyRepo     leave.PenaltyRepository
	calculator      *balance.Calculator
	locks           *lock.KeyedMutex
	notificationSvc notification.Service
	now             func() time.Time
}

func NewService(
	tx database.Transactor,
	employeeRepo employee.EmployeeRepository,
	companyRepo company.CompanyRepository,
	leaveRepo leave.LeaveRepository,
	penaltyRepo leave.PenaltyRepository,
	calculator *balance.Calculator,
	locks *lock.KeyedMutex,
	notificationSvc notification.Service,
) *Service {
	return &Service{
		tx:              tx,
		employeeRepo:    employeeRepo,
		companyRepo:     companyRepo,
		leaveRepo:       leaveRepo,
		penaltyRepo:     penaltyRepo,
		calculator:      calculator,
		locks:           locks,
		notificationSvc: notificationSvc,
		now:             time.Now,
	}
}

// Result summarizes one employee's reconciliation.
type Result struct {
	EmployeeID        string            `json:"employee_id"`
	LeavesRemoved     int64             `json:"leaves_removed"`
	PenaltiesRefunded int               `json:"penalties_refunded"`
	Refunded          leave.Allocations `json:"refunded"`
}

// Reconcile removes the employee's auto leaves dated before their employment
// start, resolves the matching penalties, and refunds their allocations, all
// in one transaction. A failed run commits nothing and leaves every penalty
// unresolved, so the next run retries the full refund; already-resolved
// penalties are skipped, so repeated runs are no-ops.
func (s *Service) Reconcile(ctx context.Context, employeeID string) (Result, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return Result{}, err
	}
	if emp.JoiningDate == nil {
		return Result{}, employee.ErrNoJoiningDate
	}
	employmentStart := attendance.DayOf(*emp.JoiningDate)

	s.locks.Lock(employeeID)
	defer s.locks.Unlock(employeeID)

	// Reload under the lock, another writer may have moved the balances.
	emp, err = s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return Result{}, err
	}
	co, err := s.companyRepo.GetByID(ctx, emp.CompanyID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load company policy: %w", err)
	}

	result := Result{EmployeeID: employeeID}
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		removed, err := s.leaveRepo.DeleteAutoBefore(txCtx, employeeID, employmentStart)
		if err != nil {
			return fmt.Errorf("failed to delete pre-employment auto leaves: %w", err)
		}
		result.LeavesRemoved = removed

		penalties, err := s.penaltyRepo.ListUnresolvedBefore(txCtx, employeeID, employmentStart)
		if err != nil {
			return fmt.Errorf("failed to list unresolved penalties: %w", err)
		}

		usage := emp.LeaveUsage
		pool := emp.TotalLeaveAvailable
		for _, p := range penalties {
			// Resolution and the refund commit together, so a concurrent
			// resolver is the only reason this can report already-solved.
			err := s.penaltyRepo.MarkResolved(txCtx, p.ID, s.now().UTC(), resolvedBy)
			if errors.Is(err, leave.ErrPenaltyAlreadySolved) {
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to resolve penalty %s: %w", p.ID, err)
			}

			var clamped bool
			usage, pool, clamped = s.calculator.Refund(p.Allocations, usage, pool)
			if clamped {
				slog.Warn("reconcile: refund clamped at zero usage",
					"employee_id", employeeID, "penalty_id", p.ID, "date", p.Date.Format("2006-01-02"))
			}
			result.Refunded.Paid += p.Allocations.Paid
			result.Refunded.Casual += p.Allocations.Casual
			result.Refunded.Sick += p.Allocations.Sick
			result.Refunded.Unpaid += p.Allocations.Unpaid
			result.PenaltiesRefunded++
		}

		if result.LeavesRemoved == 0 && result.PenaltiesRefunded == 0 {
			return nil
		}

		emp.LeaveUsage = usage
		emp.TotalLeaveAvailable = pool
		emp.LeaveBalances = s.calculator.DeriveBalances(co.LeavePolicy.TypeCaps, usage)
		if err := s.employeeRepo.UpdateBalances(txCtx, emp); err != nil {
			return fmt.Errorf("failed to persist balances: %w", err)
		}
		return nil
	})
	if err != nil {
		return Result{EmployeeID: employeeID}, err
	}

	if result.PenaltiesRefunded > 0 {
		if err := s.notificationSvc.QueueNotification(ctx, notification.Notification{
			CompanyID:   emp.CompanyID,
			RecipientID: emp.ID,
			Type:        notification.TypePenaltyRefunded,
			Title:       "Leave balance restored",
			Message:     fmt.Sprintf("%d pre-employment attendance penalties were refunded.", result.PenaltiesRefunded),
			Data:        map[string]interface{}{"penalties_refunded": result.PenaltiesRefunded},
		}); err != nil {
			slog.Warn("reconcile: failed to queue notification", "employee_id", employeeID, "error", err)
		}
	}

	slog.Info("reconciled employee",
		"employee_id", employeeID,
		"leaves_removed", result.LeavesRemoved,
		"penalties_refunded", result.PenaltiesRefunded)
	return result, nil
}

// ReconcileAll runs Reconcile for every employee with a joining date set.
// Per-employee failures are logged and skipped.
func (s *Service) ReconcileAll(ctx context.Context) ([]Result, error) {
	employees, err := s.employeeRepo.ListForReconciliation(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	results := make([]Result, 0, len(employees))
	for _, emp := range employees {
		res, err := s.Reconcile(ctx, emp.ID)
		if err != nil {
			slog.Error("reconcile: failed to process employee", "employee_id", emp.ID, "error", err)
			continue
		}
		results = append(results, res)
	}
	return results, nil
}
