package leave

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/attendance"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/company"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/employee"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/leave"
	"github.com/workpoint-hq/hr-backend-go/internal/pkg/database"
	"github.com/workpoint-hq/hr-backend-go/internal/pkg/lock"
	"github.com/workpoint-hq/hr-backend-go/internal/pkg/validator"
	"github.com/workpoint-hq/hr-backend-go/internal/service/balance"
)

// Service is the manual leave path: employees file requests, admins decide
// them. Approval charges the employee through the same consumption planner
// the auto-leave generator uses, under the same per-employee lock.
type Service struct {
	tx           database.Transactor
	employeeRepo employee.EmployeeRepository
	companyRepo  company.CompanyRepository
	leaveRepo    leave.LeaveRepository
	calculator   *balance.Calculator
	locks        *lock.KeyedMutex
}

func NewService(
	tx database.Transactor,
	employeeRepo employee.EmployeeRepository,
	companyRepo company.CompanyRepository,
	leaveRepo leave.LeaveRepository,
	calculator *balance.Calculator,
	locks *lock.KeyedMutex,
) *Service {
	return &Service{
		tx:           tx,
		employeeRepo: employeeRepo,
		companyRepo:  companyRepo,
		leaveRepo:    leaveRepo,
		calculator:   calculator,
		locks:        locks,
	}
}

// Request files a pending leave. No balances move until approval.
func (s *Service) Request(ctx context.Context, req leave.RequestLeaveRequest) (leave.Leave, error) {
	if err := req.Validate(); err != nil {
		return leave.Leave{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return leave.Leave{}, fmt.Errorf("failed to load employee: %w", err)
	}
	if !emp.IsActive() {
		return leave.Leave{}, employee.ErrEmployeeNotActive
	}

	// Typed requests are bounded by the remaining pool up front; unpaid
	// requests never touch the pool so they always pass.
	if req.Type != leave.TypeUnpaid && req.Days() > emp.TotalLeaveAvailable {
		return leave.Leave{}, leave.ErrInsufficientPool
	}

	startDate, _ := validator.IsValidDate(req.StartDate)
	endDate, _ := validator.IsValidDate(req.EndDate)

	var reason *string
	if !validator.IsEmpty(req.Reason) {
		reason = &req.Reason
	}

	created, err := s.leaveRepo.Create(ctx, leave.Leave{
		ID:         uuid.NewString(),
		EmployeeID: req.EmployeeID,
		CompanyID:  req.CompanyID,
		Type:       req.Type,
		StartDate:  attendance.DayOf(startDate),
		EndDate:    attendance.DayOf(endDate),
		Status:     leave.StatusPending,
		Reason:     reason,
	})
	if err != nil {
		return leave.Leave{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return created, nil
}

// Approve decides a pending leave and debits the employee with the planner's
// split. The per-employee lock serializes this against concurrent batch jobs
// touching the same balances.
func (s *Service) Approve(ctx context.Context, leaveID, companyID string) (leave.Leave, error) {
	l, err := s.leaveRepo.GetByID(ctx, leaveID, companyID)
	if err != nil {
		return leave.Leave{}, err
	}
	if l.Status != leave.StatusPending {
		return leave.Leave{}, leave.ErrLeaveAlreadyDecided
	}

	s.locks.Lock(l.EmployeeID)
	defer s.locks.Unlock(l.EmployeeID)

	emp, err := s.employeeRepo.GetByID(ctx, l.EmployeeID)
	if err != nil {
		return leave.Leave{}, fmt.Errorf("failed to load employee: %w", err)
	}
	co, err := s.companyRepo.GetByID(ctx, emp.CompanyID)
	if err != nil {
		return leave.Leave{}, fmt.Errorf("failed to load company policy: %w", err)
	}

	days := l.EndDate.Sub(l.StartDate).Hours()/24 + 1
	alloc, fallback := s.calculator.PlanConsumption(
		l.Type, days,
		co.LeavePolicy.TypeCaps, emp.LeaveUsage, emp.TotalLeaveAvailable,
	)

	emp.LeaveUsage, emp.TotalLeaveAvailable = s.calculator.Apply(alloc, emp.LeaveUsage, emp.TotalLeaveAvailable)
	emp.LeaveBalances = s.calculator.DeriveBalances(co.LeavePolicy.TypeCaps, emp.LeaveUsage)

	l.Status = leave.StatusApproved
	l.FallbackType = fallback
	l.Allocations = alloc

	// The debit and the status flip commit together, a failure keeps the
	// leave pending with its balances untouched.
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.employeeRepo.UpdateBalances(txCtx, emp); err != nil {
			return fmt.Errorf("failed to persist balances: %w", err)
		}
		if err := s.leaveRepo.UpdateStatus(txCtx, l); err != nil {
			return fmt.Errorf("failed to update leave status: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.Leave{}, err
	}
	return l, nil
}

// Reject decides a pending leave without touching balances.
func (s *Service) Reject(ctx context.Context, leaveID, companyID string) (leave.Leave, error) {
	l, err := s.leaveRepo.GetByID(ctx, leaveID, companyID)
	if err != nil {
		return leave.Leave{}, err
	}
	if l.Status != leave.StatusPending {
		return leave.Leave{}, leave.ErrLeaveAlreadyDecided
	}

	l.Status = leave.StatusRejected
	if err := s.leaveRepo.UpdateStatus(ctx, l); err != nil {
		return leave.Leave{}, fmt.Errorf("failed to update leave status: %w", err)
	}
	return l, nil
}

// ListMy returns all leave records for an employee, newest first.
func (s *Service) ListMy(ctx context.Context, employeeID string) ([]leave.Leave, error) {
	leaves, err := s.leaveRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leaves: %w", err)
	}
	return leaves, nil
}
