package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/employee"
	"github.com/workpoint-hq/hr-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `
	id, company_id, employee_code, full_name, email, joining_date, employment_status,
	total_leave_available,
	leave_usage_paid, leave_usage_casual, leave_usage_sick, leave_usage_unpaid,
	leave_balance_paid, leave_balance_casual, leave_balance_sick, leave_balance_unpaid,
	last_accrued_month, base_salary, created_at, updated_at, deleted_at
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.CompanyID, &e.EmployeeCode, &e.FullName, &e.Email, &e.JoiningDate, &e.EmploymentStatus,
		&e.TotalLeaveAvailable,
		&e.LeaveUsage.Paid, &e.LeaveUsage.Casual, &e.LeaveUsage.Sick, &e.LeaveUsage.Unpaid,
		&e.LeaveBalances.Paid, &e.LeaveBalances.Casual, &e.LeaveBalances.Sick, &e.LeaveBalances.Unpaid,
		&e.LastAccruedMonth, &e.BaseSalary, &e.CreatedAt, &e.UpdatedAt, &e.DeletedAt,
	)
	return e, err
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1 AND deleted_at IS NULL`

	e, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

// ListActive implements employee.EmployeeRepository.
func (r *employeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE employment_status = 'active' AND deleted_at IS NULL
		ORDER BY id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// ListForReconciliation implements employee.EmployeeRepository.
func (r *employeeRepository) ListForReconciliation(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE company_id IS NOT NULL AND joining_date IS NOT NULL AND deleted_at IS NULL
		ORDER BY id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees for reconciliation: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// UpdateBalances implements employee.EmployeeRepository.
func (r *employeeRepository) UpdateBalances(ctx context.Context, e employee.Employee) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET total_leave_available = $2,
			leave_usage_paid = $3, leave_usage_casual = $4, leave_usage_sick = $5, leave_usage_unpaid = $6,
			leave_balance_paid = $7, leave_balance_casual = $8, leave_balance_sick = $9, leave_balance_unpaid = $10,
			last_accrued_month = $11,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query,
		e.ID,
		e.TotalLeaveAvailable,
		e.LeaveUsage.Paid, e.LeaveUsage.Casual, e.LeaveUsage.Sick, e.LeaveUsage.Unpaid,
		e.LeaveBalances.Paid, e.LeaveBalances.Casual, e.LeaveBalances.Sick, e.LeaveBalances.Unpaid,
		e.LastAccruedMonth,
	)
	if err != nil {
		return fmt.Errorf("failed to update employee balances: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
