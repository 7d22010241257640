package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/attendance"
)

// Service owns the per-day punch ledger: punch-in opens a session, punch-out
// closes it and accumulates worked time. Auto-closure of stale sessions lives
// in the cron jobs.
type Service struct {
	attendanceRepo attendance.AttendanceRepository
	now            func() time.Time
}

func NewService(attendanceRepo attendance.AttendanceRepository) *Service {
	return &Service{
		attendanceRepo: attendanceRepo,
		now:            time.Now,
	}
}

// PunchIn opens a punch session for today. The first punch-in of the day
// creates the day-record and stamps FirstPunchIn exactly once; later punch-ins
// on a closed record only move LastPunchIn.
func (s *Service) PunchIn(ctx context.Context, employeeID, companyID string) (attendance.Attendance, error) {
	now := s.now().UTC()
	day := attendance.DayOf(now)

	rec, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, day)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to load day record: %w", err)
	}

	if rec == nil {
		created, err := s.attendanceRepo.Create(ctx, attendance.Attendance{
			ID:           uuid.NewString(),
			EmployeeID:   employeeID,
			CompanyID:    companyID,
			Date:         day,
			FirstPunchIn: &now,
			LastPunchIn:  &now,
		})
		if err != nil {
			return attendance.Attendance{}, fmt.Errorf("failed to create day record: %w", err)
		}
		return created, nil
	}

	if rec.IsOpen() {
		return attendance.Attendance{}, attendance.ErrSessionAlreadyOpen
	}

	rec.LastPunchIn = &now
	if rec.FirstPunchIn == nil {
		rec.FirstPunchIn = &now
	}
	if err := s.attendanceRepo.Update(ctx, *rec); err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to reopen day record: %w", err)
	}
	return *rec, nil
}

// PunchOut closes the open session for today, adding now - lastPunchIn to the
// worked total and clearing the open marker.
func (s *Service) PunchOut(ctx context.Context, employeeID string) (attendance.Attendance, error) {
	now := s.now().UTC()
	day := attendance.DayOf(now)

	rec, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, day)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to load day record: %w", err)
	}
	if rec == nil || !rec.IsOpen() {
		return attendance.Attendance{}, attendance.ErrNoOpenSession
	}

	worked := now.Sub(*rec.LastPunchIn)
	if worked < 0 {
		worked = 0
	}
	rec.WorkedMs += worked.Milliseconds()
	rec.LastPunchOut = &now
	rec.LastPunchIn = nil

	if err := s.attendanceRepo.Update(ctx, *rec); err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to close day record: %w", err)
	}
	return *rec, nil
}

// GetRange returns the employee's day-records for days in [start, endExclusive).
func (s *Service) GetRange(ctx context.Context, employeeID string, start, endExclusive time.Time) ([]attendance.Attendance, error) {
	if !start.Before(endExclusive) {
		return nil, attendance.ErrInvalidIssueWindow
	}
	records, err := s.attendanceRepo.ListByEmployeeAndRange(ctx, employeeID, attendance.DayOf(start), attendance.DayOf(endExclusive))
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance range: %w", err)
	}
	return records, nil
}
