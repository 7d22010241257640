package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/attendance"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/company"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/employee"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/leave"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/notification"
	"github.com/workpoint-hq/hr-backend-go/internal/pkg/database"
	"github.com/workpoint-hq/hr-backend-go/internal/pkg/lock"
	attendancesvc "github.com/workpoint-hq/hr-backend-go/internal/service/attendance"
	"github.com/workpoint-hq/hr-backend-go/internal/service/balance"
)

// AutoLeaveService sweeps recent attendance for deficient days and converts
// each one into a single-day approved leave plus a penalty record. The penalty
// is what the backdating reconciler later refunds against.
type AutoLeaveService struct {
	tx              database.Transactor
	employeeRepo    employee.EmployeeRepository
	companyRepo     company.CompanyRepository
	leaveRepo       leave.LeaveRepository
	penaltyRepo     leave.PenaltyRepository
	detector        *attendancesvc.IssueDetector
	calculator      *balance.Calculator
	locks           *lock.KeyedMutex
	notificationSvc notification.Service
	now             func() time.Time
}

func NewAutoLeaveService(
	tx database.Transactor,
	employeeRepo employee.EmployeeRepository,
	companyRepo company.CompanyRepository,
	leaveRepo leave.LeaveRepository,
	penaltyRepo leave.PenaltyRepository,
	detector *attendancesvc.IssueDetector,
	calculator *balance.Calculator,
	locks *lock.KeyedMutex,
	notificationSvc notification.Service,
) *AutoLeaveService {
	return &AutoLeaveService{
		tx:              tx,
		employeeRepo:    employeeRepo,
		companyRepo:     companyRepo,
		leaveRepo:       leaveRepo,
		penaltyRepo:     penaltyRepo,
		detector:        detector,
		calculator:      calculator,
		locks:           locks,
		notificationSvc: notificationSvc,
		now:             time.Now,
	}
}

// RunOptions controls a single auto-leave sweep.
type RunOptions struct {
	// LookbackDays is how many whole days before AsOf to scan. Today is never
	// scanned, it is still in progress.
	LookbackDays int
	// AsOf anchors the scan window. Zero means the current time.
	AsOf time.Time
}

// RunAutoLeaveJob scans every active employee over the lookback window and
// covers each deficient day with an auto leave. Per-employee failures are
// logged and skipped so one bad row cannot stall the whole sweep.
func (s *AutoLeaveService) RunAutoLeaveJob(ctx context.Context, opts RunOptions) error {
	if opts.LookbackDays <= 0 {
		return leave.ErrInvalidLookback
	}
	asOf := opts.AsOf
	if asOf.IsZero() {
		asOf = s.now()
	}
	windowEnd := attendance.DayOf(asOf)
	windowStart := windowEnd.AddDate(0, 0, -opts.LookbackDays)

	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active employees: %w", err)
	}

	// Company policies are stable within a sweep, fetch each once.
	policies := make(map[string]company.Company)
	var generated int
	for _, emp := range employees {
		co, ok := policies[emp.CompanyID]
		if !ok {
			co, err = s.companyRepo.GetByID(ctx, emp.CompanyID)
			if err != nil {
				slog.Error("auto-leave: failed to load company, skipping its employees",
					"company_id", emp.CompanyID, "error", err)
				continue
			}
			policies[emp.CompanyID] = co
		}

		n, err := s.coverEmployee(ctx, emp.ID, co, windowStart, windowEnd)
		if err != nil {
			slog.Error("auto-leave: failed to process employee",
				"employee_id", emp.ID, "error", err)
			continue
		}
		generated += n
	}

	slog.Info("auto-leave sweep finished",
		"window_start", windowStart.Format("2006-01-02"),
		"window_end", windowEnd.Format("2006-01-02"),
		"employees", len(employees),
		"leaves_generated", generated)
	return nil
}

// coverEmployee detects and covers one employee's deficient days under the
// per-employee lock. The leave+penalty pairs and the balance debit commit in
// one transaction, so a failed sweep leaves nothing marked covered and the
// next run regenerates the whole batch. Returns the number of auto leaves
// created.
func (s *AutoLeaveService) coverEmployee(ctx context.Context, employeeID string, co company.Company, windowStart, windowEnd time.Time) (int, error) {
	s.locks.Lock(employeeID)
	defer s.locks.Unlock(employeeID)

	// Reload under the lock so concurrent approvals are visible.
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return 0, fmt.Errorf("failed to load employee: %w", err)
	}

	issues, err := s.detector.CollectIssues(ctx, emp.ID, emp.CompanyID, windowStart, windowEnd)
	if err != nil {
		return 0, fmt.Errorf("failed to collect issues: %w", err)
	}
	if len(issues) == 0 {
		return 0, nil
	}

	var covered []leave.Leave
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		usage := emp.LeaveUsage
		pool := emp.TotalLeaveAvailable
		for _, issue := range issues {
			alloc, fallback := s.calculator.PlanConsumption(
				leave.TypePaid, 1,
				co.LeavePolicy.TypeCaps, usage, pool,
			)

			penalty, err := s.penaltyRepo.Create(txCtx, leave.AttendancePenalty{
				ID:          uuid.NewString(),
				EmployeeID:  emp.ID,
				CompanyID:   emp.CompanyID,
				Date:        issue.Date,
				Allocations: alloc,
			})
			if err != nil {
				return fmt.Errorf("failed to create penalty for %s: %w", issue.Date.Format("2006-01-02"), err)
			}

			l, err := s.leaveRepo.Create(txCtx, leave.Leave{
				ID:            uuid.NewString(),
				EmployeeID:    emp.ID,
				CompanyID:     emp.CompanyID,
				Type:          leave.TypePaid,
				FallbackType:  fallback,
				StartDate:     issue.Date,
				EndDate:       issue.Date,
				Status:        leave.StatusApproved,
				IsAuto:        true,
				AutoPenaltyID: &penalty.ID,
				Allocations:   alloc,
			})
			if err != nil {
				return fmt.Errorf("failed to create auto leave for %s: %w", issue.Date.Format("2006-01-02"), err)
			}

			usage, pool = s.calculator.Apply(alloc, usage, pool)
			covered = append(covered, l)
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
		return 0, err
	}

	// Notifications go out only for committed leaves.
	for _, l := range covered {
		if err := s.notificationSvc.QueueNotification(ctx, notification.Notification{
			CompanyID:   emp.CompanyID,
			RecipientID: emp.ID,
			Type:        notification.TypeAutoLeaveGenerated,
			Title:       "Leave auto-generated for missed attendance",
			Message:     fmt.Sprintf("A leave was generated for %s because no valid punch-in was found.", l.StartDate.Format("2006-01-02")),
			Data:        map[string]interface{}{"leave_id": l.ID, "date": l.StartDate.Format("2006-01-02")},
		}); err != nil {
			slog.Warn("auto-leave: failed to queue notification", "employee_id", emp.ID, "error", err)
		}
	}
	return len(covered), nil
}
