package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/workpoint-hq/hr-backend-go/internal/domain/leave"
	"github.com/workpoint-hq/hr-backend-go/internal/pkg/database"
)

type penaltyRepository struct {
	db *database.DB
}

func NewPenaltyRepository(db *database.DB) leave.PenaltyRepository {
	return &penaltyRepository{db: db}
}

// Create implements leave.PenaltyRepository.
func (r *penaltyRepository) Create(ctx context.Context, p leave.AttendancePenalty) (leave.AttendancePenalty, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_penalties (
			id, employee_id, company_id, date,
			alloc_paid, alloc_casual, alloc_sick, alloc_unpaid
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		p.ID, p.EmployeeID, p.CompanyID, p.Date,
		p.Allocations.Paid, p.Allocations.Casual, p.Allocations.Sick, p.Allocations.Unpaid,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return leave.AttendancePenalty{}, fmt.Errorf("failed to create penalty: %w", err)
	}
	return p, nil
}

// ExistsForDate implements leave.PenaltyRepository.
func (r *penaltyRepository) ExistsForDate(ctx context.Context, employeeID string, day time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM attendance_penalties
			WHERE employee_id = $1 AND date = $2
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, day).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check penalty existence: %w", err)
	}
	return exists, nil
}

// ListUnresolvedBefore implements leave.PenaltyRepository.
func (r *penaltyRepository) ListUnresolvedBefore(ctx context.Context, employeeID string, before time.Time) ([]leave.AttendancePenalty, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, company_id, date,
			   alloc_paid, alloc_casual, alloc_sick, alloc_unpaid,
			   resolved_at, resolved_by, created_at, updated_at
		FROM attendance_penalties
		WHERE employee_id = $1 AND date < $2 AND resolved_at IS NULL
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, employeeID, before)
	if err != nil {
		return nil, fmt.Errorf("failed to list unresolved penalties: %w", err)
	}
	defer rows.Close()

	var penalties []leave.AttendancePenalty
	for rows.Next() {
		var p leave.AttendancePenalty
		err := rows.Scan(
			&p.ID, &p.EmployeeID, &p.CompanyID, &p.Date,
			&p.Allocations.Paid, &p.Allocations.Casual, &p.Allocations.Sick, &p.Allocations.Unpaid,
			&p.ResolvedAt, &p.ResolvedBy, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan penalty: %w", err)
		}
		penalties = append(penalties, p)
	}
	return penalties, rows.Err()
}

// MarkResolved implements leave.PenaltyRepository.
// The resolved_at IS NULL guard makes resolution first-writer-wins; a penalty
// already taken by a concurrent run reports ErrPenaltyAlreadySolved.
func (r *penaltyRepository) MarkResolved(ctx context.Context, id string, resolvedAt time.Time, resolvedBy string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_penalties
		SET resolved_at = $2, resolved_by = $3, updated_at = NOW()
		WHERE id = $1 AND resolved_at IS NULL
	`

	tag, err := q.Exec(ctx, query, id, resolvedAt, resolvedBy)
	if err != nil {
		return fmt.Errorf("failed to resolve penalty: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		checkQuery := `SELECT EXISTS (SELECT 1 FROM attendance_penalties WHERE id = $1)`
		if err := q.QueryRow(ctx, checkQuery, id).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check penalty: %w", err)
		}
		if !exists {
			return leave.ErrPenaltyNotFound
		}
		return leave.ErrPenaltyAlreadySolved
	}
	return nil
}
