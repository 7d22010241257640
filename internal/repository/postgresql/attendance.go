package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/attendance"
	"github.com/workpoint-hq/hr-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	id, employee_id, company_id, date,
	first_punch_in, last_punch_in, last_punch_out, worked_ms,
	auto_punch_out, auto_punch_out_at, auto_punch_last_in, auto_punch_resolved_at,
	created_at, updated_at
`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.CompanyID, &a.Date,
		&a.FirstPunchIn, &a.LastPunchIn, &a.LastPunchOut, &a.WorkedMs,
		&a.AutoPunchOut, &a.AutoPunchOutAt, &a.AutoPunchLastIn, &a.AutoPunchResolvedAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (
			id, employee_id, company_id, date,
			first_punch_in, last_punch_in, last_punch_out, worked_ms,
			auto_punch_out, auto_punch_out_at, auto_punch_last_in, auto_punch_resolved_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		a.ID, a.EmployeeID, a.CompanyID, a.Date,
		a.FirstPunchIn, a.LastPunchIn, a.LastPunchOut, a.WorkedMs,
		a.AutoPunchOut, a.AutoPunchOutAt, a.AutoPunchLastIn, a.AutoPunchResolvedAt,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return a, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepository) Update(ctx context.Context, a attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET first_punch_in = $2, last_punch_in = $3, last_punch_out = $4, worked_ms = $5,
			auto_punch_out = $6, auto_punch_out_at = $7, auto_punch_last_in = $8,
			auto_punch_resolved_at = $9, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		a.ID,
		a.FirstPunchIn, a.LastPunchIn, a.LastPunchOut, a.WorkedMs,
		a.AutoPunchOut, a.AutoPunchOutAt, a.AutoPunchLastIn, a.AutoPunchResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, day time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1 AND date = $2
		LIMIT 1
	`

	a, err := scanAttendance(q.QueryRow(ctx, query, employeeID, day))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}
	return &a, nil
}

// ListOpenBefore implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListOpenBefore(ctx context.Context, day time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE last_punch_in IS NOT NULL AND date < $1
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list open attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

// ListByEmployeeAndRange implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListByEmployeeAndRange(ctx context.Context, employeeID string, start, endExclusive time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1 AND date >= $2 AND date < $3
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, employeeID, start, endExclusive)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	return records, rows.Err()
}
