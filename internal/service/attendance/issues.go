package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/workpoint-hq/hr-backend-go/internal/domain/attendance"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/leave"
)

// IssueDetector flags calendar days lacking valid attendance. It is consumed
// by the auto-leave job and by on-demand admin calls; it never mutates state,
// so overlapping runs are harmless.
type IssueDetector struct {
	attendanceRepo attendance.AttendanceRepository
	leaveRepo      leave.LeaveRepository
	penaltyRepo    leave.PenaltyRepository
}

func NewIssueDetector(
	attendanceRepo attendance.AttendanceRepository,
	leaveRepo leave.LeaveRepository,
	penaltyRepo leave.PenaltyRepository,
) *IssueDetector {
	return &IssueDetector{
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		penaltyRepo:    penaltyRepo,
	}
}

// CollectIssues scans [windowStart, windowEndExclusive) for the employee. A
// day is deficient when it has no day-record or the record shows no valid
// first punch-in. Days already covered by a non-rejected leave or an existing
// penalty are excluded, so repeat runs over overlapping windows never report
// a day twice.
func (d *IssueDetector) CollectIssues(ctx context.Context, employeeID, companyID string, windowStart, windowEndExclusive time.Time) ([]attendance.Issue, error) {
	start := attendance.DayOf(windowStart)
	end := attendance.DayOf(windowEndExclusive)
	if !start.Before(end) {
		return nil, attendance.ErrInvalidIssueWindow
	}

	records, err := d.attendanceRepo.ListByEmployeeAndRange(ctx, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for window: %w", err)
	}
	byDay := make(map[time.Time]attendance.Attendance, len(records))
	for _, rec := range records {
		byDay[attendance.DayOf(rec.Date)] = rec
	}

	var issues []attendance.Issue
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		if rec, ok := byDay[day]; ok && rec.HasValidPunchIn() {
			continue
		}

		covered, err := d.leaveRepo.HasLeaveCovering(ctx, employeeID, day)
		if err != nil {
			return nil, fmt.Errorf("failed to check leave coverage: %w", err)
		}
		if covered {
			continue
		}

		penalized, err := d.penaltyRepo.ExistsForDate(ctx, employeeID, day)
		if err != nil {
			return nil, fmt.Errorf("failed to check penalty coverage: %w", err)
		}
		if penalized {
			continue
		}

		issues = append(issues, attendance.Issue{
			EmployeeID: employeeID,
			CompanyID:  companyID,
			Date:       day,
		})
	}

	return issues, nil
}
