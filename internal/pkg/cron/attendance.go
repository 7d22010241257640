package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/workpoint-hq/hr-backend-go/internal/domain/attendance"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/notification"
)

// AttendanceJobs force-closes punch sessions left open past the midnight
// boundary of their day.
type AttendanceJobs struct {
	attendanceRepo  attendance.AttendanceRepository
	notificationSvc notification.Service

	// grace is added past midnight before a stale session is closed, so a
	// punch-out seconds after the boundary still wins.
	grace time.Duration
	now   func() time.Time
}

func NewAttendanceJobs(
	attendanceRepo attendance.AttendanceRepository,
	notificationSvc notification.Service,
	grace time.Duration,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo:  attendanceRepo,
		notificationSvc: notificationSvc,
		grace:           grace,
		now:             time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_punch_out_stale", 1*time.Hour, j.AutoPunchOutStale)
}

// AutoPunchOutStale is the scheduled entry point. The scheduler ticks hourly;
// the job itself only acts in the midnight hour (00:00-00:59 UTC).
func (j *AttendanceJobs) AutoPunchOutStale(ctx context.Context) error {
	if j.now().UTC().Hour() != 0 {
		return nil
	}
	_, err := j.RunAutoPunchOut(ctx)
	return err
}

// RunAutoPunchOut closes every session still open from a day before today and
// returns how many it closed. The close time is the midnight boundary plus
// grace, clamped to at most now and at least one minute after the punch-in so
// the worked-time addition is always positive and bounded. Rows already closed
// are never selected, so re-running after a partial failure is safe.
func (j *AttendanceJobs) RunAutoPunchOut(ctx context.Context) (int, error) {
	now := j.now().UTC()
	today := attendance.DayOf(now)

	stale, err := j.attendanceRepo.ListOpenBefore(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to list stale open sessions: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	cutoff := today.Add(j.grace)
	closed := 0
	for _, rec := range stale {
		lastIn := *rec.LastPunchIn

		closeAt := cutoff
		if closeAt.After(now) {
			closeAt = now
		}
		if min := lastIn.Add(time.Minute); closeAt.Before(min) {
			closeAt = min
		}

		rec.WorkedMs += closeAt.Sub(lastIn).Milliseconds()
		rec.LastPunchOut = &closeAt
		rec.LastPunchIn = nil
		rec.AutoPunchOut = true
		rec.AutoPunchOutAt = &now
		rec.AutoPunchLastIn = &lastIn

		if err := j.attendanceRepo.Update(ctx, rec); err != nil {
			slog.Error("Cron: Failed to auto punch out session",
				"attendance_id", rec.ID,
				"employee_id", rec.EmployeeID,
				"error", err)
			continue
		}

		if j.notificationSvc != nil {
			_ = j.notificationSvc.QueueNotification(ctx, notification.Notification{
				CompanyID:   rec.CompanyID,
				RecipientID: rec.EmployeeID,
				Type:        notification.TypeAttendanceAutoClosed,
				Title:       "Attendance Auto-Closed",
				Message:     fmt.Sprintf("Your attendance for %s was automatically closed", rec.Date.Format("2006-01-02")),
				Data: map[string]interface{}{
					"attendance_id": rec.ID,
					"date":          rec.Date.Format("2006-01-02"),
				},
			})
		}

		closed++
	}

	slog.Info("Cron: Auto punched out stale sessions", "count", closed)
	return closed, nil
}
