package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/workpoint-hq/hr-backend-go/internal/domain/company"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/employee"
	"github.com/workpoint-hq/hr-backend-go/internal/pkg/lock"
	"github.com/workpoint-hq/hr-backend-go/internal/service/balance"
)

// AccrualJobs tops up every active employee's leave pool by the company's
// monthly rate, capped at the annual total.
type AccrualJobs struct {
	employeeRepo employee.EmployeeRepository
	companyRepo  company.CompanyRepository
	calculator   *balance.Calculator
	locks        *lock.KeyedMutex
	now          func() time.Time
}

func NewAccrualJobs(
	employeeRepo employee.EmployeeRepository,
	companyRepo company.CompanyRepository,
	calculator *balance.Calculator,
	locks *lock.KeyedMutex,
) *AccrualJobs {
	return &AccrualJobs{
		employeeRepo: employeeRepo,
		companyRepo:  companyRepo,
		calculator:   calculator,
		locks:        locks,
		now:          time.Now,
	}
}

func (j *AccrualJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("monthly_leave_accrual", 1*time.Hour, j.AccrueMonthly)
}

// AccrueMonthly is the scheduled entry point. It acts only in the midnight
// hour of the first day of the month (UTC).
func (j *AccrualJobs) AccrueMonthly(ctx context.Context) error {
	now := j.now().UTC()
	if now.Day() != 1 || now.Hour() != 0 {
		return nil
	}
	_, err := j.RunMonthlyAccrual(ctx)
	return err
}

// RunMonthlyAccrual applies one accrual step to every active employee and
// returns how many were updated. Each employee carries the last month already
// credited, so a re-run within the same month is a no-op. Per-employee
// failures are logged and skipped.
func (j *AccrualJobs) RunMonthlyAccrual(ctx context.Context) (int, error) {
	month := monthOf(j.now().UTC())
	employees, err := j.employeeRepo.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active employees: %w", err)
	}

	policies := make(map[string]company.Company)
	updated := 0
	for _, emp := range employees {
		co, ok := policies[emp.CompanyID]
		if !ok {
			co, err = j.companyRepo.GetByID(ctx, emp.CompanyID)
			if err != nil {
				slog.Error("Cron: Failed to load company for accrual, skipping its employees",
					"company_id", emp.CompanyID, "error", err)
				continue
			}
			policies[emp.CompanyID] = co
		}

		accrued, err := j.accrueEmployee(ctx, emp.ID, co, month)
		if err != nil {
			slog.Error("Cron: Failed to accrue employee", "employee_id", emp.ID, "error", err)
			continue
		}
		if accrued {
			updated++
		}
	}

	slog.Info("Cron: Monthly accrual finished", "employees", updated)
	return updated, nil
}

func (j *AccrualJobs) accrueEmployee(ctx context.Context, employeeID string, co company.Company, month time.Time) (bool, error) {
	j.locks.Lock(employeeID)
	defer j.locks.Unlock(employeeID)

	emp, err := j.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return false, fmt.Errorf("failed to load employee: %w", err)
	}
	if emp.LastAccruedMonth != nil && !emp.LastAccruedMonth.Before(month) {
		return false, nil
	}

	emp.TotalLeaveAvailable = j.calculator.Accrue(
		emp.TotalLeaveAvailable,
		co.LeavePolicy.RatePerMonth,
		co.LeavePolicy.TotalAnnual,
	)
	emp.LeaveBalances = j.calculator.DeriveBalances(co.LeavePolicy.TypeCaps, emp.LeaveUsage)
	emp.LastAccruedMonth = &month
	if err := j.employeeRepo.UpdateBalances(ctx, emp); err != nil {
		return false, fmt.Errorf("failed to persist balances: %w", err)
	}
	return true, nil
}

func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
