package cron

import (
	"context"
	"time"

	leavesvc "github.com/workpoint-hq/hr-backend-go/internal/service/leave"
)

// LeaveJobs drives the auto-leave generator on a daily cadence.
type LeaveJobs struct {
	autoLeaveSvc *leavesvc.AutoLeaveService
	lookbackDays int
	disabled     bool
	now          func() time.Time
}

func NewLeaveJobs(autoLeaveSvc *leavesvc.AutoLeaveService, lookbackDays int, disabled bool) *LeaveJobs {
	return &LeaveJobs{
		autoLeaveSvc: autoLeaveSvc,
		lookbackDays: lookbackDays,
		disabled:     disabled,
		now:          time.Now,
	}
}

func (j *LeaveJobs) RegisterJobs(scheduler *Scheduler) {
	if j.disabled {
		return
	}
	scheduler.AddJob("auto_leave_generation", 1*time.Hour, j.GenerateAutoLeaves)
}

// GenerateAutoLeaves is the scheduled entry point. The scheduler ticks hourly;
// the sweep itself only acts in the midnight hour (00:00-00:59 UTC).
func (j *LeaveJobs) GenerateAutoLeaves(ctx context.Context) error {
	if j.now().UTC().Hour() != 0 {
		return nil
	}
	return j.autoLeaveSvc.RunAutoLeaveJob(ctx, leavesvc.RunOptions{LookbackDays: j.lookbackDays})
}
