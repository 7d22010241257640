package employee

import (
	"context"
)

// EmployeeRepository defines data access for employees. Balance fields are a
// shared mutable resource; callers serialize read-modify-write cycles per
// employee before touching them.
type EmployeeRepository interface {
	// GetByID retrieves an employee by ID.
	GetByID(ctx context.Context, id string) (Employee, error)

	// ListActive retrieves all active employees across companies, for batch jobs.
	ListActive(ctx context.Context) ([]Employee, error)

	// ListForReconciliation retrieves employees that have both a company and a
	// joining date, the population the backdating reconciler batches over.
	ListForReconciliation(ctx context.Context) ([]Employee, error)

	// UpdateBalances persists TotalLeaveAvailable, LeaveUsage and the derived
	// LeaveBalances view.
	UpdateBalances(ctx context.Context, employee Employee) error
}
