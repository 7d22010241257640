package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/leave"
	"github.com/workpoint-hq/hr-backend-go/internal/pkg/database"
)

type leaveRepository struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepository{db: db}
}

const leaveColumns = `
	id, employee_id, company_id, type, fallback_type,
	start_date, end_date, status, reason, is_auto, auto_penalty_id,
	alloc_paid, alloc_casual, alloc_sick, alloc_unpaid,
	created_at, updated_at
`

func scanLeave(row pgx.Row) (leave.Leave, error) {
	var l leave.Leave
	err := row.Scan(
		&l.ID, &l.EmployeeID, &l.CompanyID, &l.Type, &l.FallbackType,
		&l.StartDate, &l.EndDate, &l.Status, &l.Reason, &l.IsAuto, &l.AutoPenaltyID,
		&l.Allocations.Paid, &l.Allocations.Casual, &l.Allocations.Sick, &l.Allocations.Unpaid,
		&l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

// Create implements leave.LeaveRepository.
func (r *leaveRepository) Create(ctx context.Context, l leave.Leave) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leaves (
			id, employee_id, company_id, type, fallback_type,
			start_date, end_date, status, reason, is_auto, auto_penalty_id,
			alloc_paid, alloc_casual, alloc_sick, alloc_unpaid
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		l.ID, l.EmployeeID, l.CompanyID, l.Type, l.FallbackType,
		l.StartDate, l.EndDate, l.Status, l.Reason, l.IsAuto, l.AutoPenaltyID,
		l.Allocations.Paid, l.Allocations.Casual, l.Allocations.Sick, l.Allocations.Unpaid,
	).Scan(&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return leave.Leave{}, fmt.Errorf("failed to create leave: %w", err)
	}
	return l, nil
}

// GetByID implements leave.LeaveRepository.
func (r *leaveRepository) GetByID(ctx context.Context, id string, companyID string) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveColumns + ` FROM leaves WHERE id = $1 AND company_id = $2`

	l, err := scanLeave(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.Leave{}, leave.ErrLeaveNotFound
		}
		return leave.Leave{}, fmt.Errorf("failed to get leave: %w", err)
	}
	return l, nil
}

// UpdateStatus implements leave.LeaveRepository.
func (r *leaveRepository) UpdateStatus(ctx context.Context, l leave.Leave) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leaves
		SET status = $2, fallback_type = $3,
			alloc_paid = $4, alloc_casual = $5, alloc_sick = $6, alloc_unpaid = $7,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		l.ID, l.Status, l.FallbackType,
		l.Allocations.Paid, l.Allocations.Casual, l.Allocations.Sick, l.Allocations.Unpaid,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveNotFound
	}
	return nil
}

// ListByEmployee implements leave.LeaveRepository.
func (r *leaveRepository) ListByEmployee(ctx context.Context, employeeID string) ([]leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveColumns + `
		FROM leaves
		WHERE employee_id = $1
		ORDER BY start_date DESC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leaves: %w", err)
	}
	defer rows.Close()

	var leaves []leave.Leave
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave: %w", err)
		}
		leaves = append(leaves, l)
	}
	return leaves, rows.Err()
}

// HasLeaveCovering implements leave.LeaveRepository.
func (r *leaveRepository) HasLeaveCovering(ctx context.Context, employeeID string, day time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM leaves
			WHERE employee_id = $1
			  AND status <> 'rejected'
			  AND start_date <= $2 AND end_date >= $2
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, day).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check leave coverage: %w", err)
	}
	return exists, nil
}

// DeleteAutoBefore implements leave.LeaveRepository.
func (r *leaveRepository) DeleteAutoBefore(ctx context.Context, employeeID string, before time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM leaves
		WHERE employee_id = $1
		  AND start_date < $2
		  AND (is_auto = TRUE OR auto_penalty_id IS NOT NULL)
	`

	tag, err := q.Exec(ctx, query, employeeID, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete auto leaves: %w", err)
	}
	return tag.RowsAffected(), nil
}
