package employee

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/leave"
)

type Employee struct {
	ID           string
	CompanyID    string
	EmployeeCode string
	FullName     string
	Email        string

	// JoiningDate is the authoritative employment start. It may be nil for
	// freshly invited employees and may be corrected after earlier activity
	// already exists; the backdating reconciler reverses out-of-window
	// consumption when that happens.
	JoiningDate *time.Time

	EmploymentStatus EmploymentStatus

	// TotalLeaveAvailable is the remaining pool across paid/casual/sick.
	// Unpaid leave never touches it.
	TotalLeaveAvailable float64

	// LeaveUsage is cumulative consumption by type, each component >= 0.
	LeaveUsage leave.Allocations

	// LeaveBalances is the cached derived remaining-per-type view. Recomputed
	// whenever LeaveUsage changes; never a source of truth.
	LeaveBalances leave.Balances

	// LastAccruedMonth is the first day (UTC) of the most recent month the
	// accrual job credited. Guards against a restarted process accruing the
	// same month twice.
	LastAccruedMonth *time.Time

	BaseSalary *decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

func (e Employee) IsActive() bool {
	return e.EmploymentStatus == EmploymentStatusActive && e.DeletedAt == nil
}
