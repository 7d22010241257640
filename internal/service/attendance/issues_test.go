package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domain "github.com/workpoint-hq/hr-backend-go/internal/domain/attendance"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/leave"
	"github.com/workpoint-hq/hr-backend-go/internal/repository/memory"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newDetectorFixture() (*IssueDetector, *memory.AttendanceRepository, *memory.LeaveRepository, *memory.PenaltyRepository) {
	attRepo := memory.NewAttendanceRepository()
	leaveRepo := memory.NewLeaveRepository()
	penaltyRepo := memory.NewPenaltyRepository()
	return NewIssueDetector(attRepo, leaveRepo, penaltyRepo), attRepo, leaveRepo, penaltyRepo
}

func punchedDay(employeeID string, d time.Time) domain.Attendance {
	in := d.Add(9 * time.Hour)
	out := d.Add(17 * time.Hour)
	return domain.Attendance{
		EmployeeID:   employeeID,
		CompanyID:    "co-1",
		Date:         d,
		FirstPunchIn: &in,
		LastPunchOut: &out,
		WorkedMs:     (8 * time.Hour).Milliseconds(),
	}
}

func TestIssueDetector_FlagsMissingDays(t *testing.T) {
	ctx := context.Background()
	det, attRepo, _, _ := newDetectorFixture()

	// Monday worked, Tuesday missing, Wednesday has a record without any punch-in.
	_, err := attRepo.Create(ctx, punchedDay("emp-1", day(2024, 6, 3)))
	require.NoError(t, err)
	_, err = attRepo.Create(ctx, domain.Attendance{EmployeeID: "emp-1", CompanyID: "co-1", Date: day(2024, 6, 5)})
	require.NoError(t, err)

	issues, err := det.CollectIssues(ctx, "emp-1", "co-1", day(2024, 6, 3), day(2024, 6, 6))

	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, day(2024, 6, 4), issues[0].Date)
	assert.Equal(t, day(2024, 6, 5), issues[1].Date)
}

func TestIssueDetector_SkipsLeaveCoveredDays(t *testing.T) {
	ctx := context.Background()
	det, _, leaveRepo, _ := newDetectorFixture()

	_, err := leaveRepo.Create(ctx, leave.Leave{
		EmployeeID: "emp-1",
		CompanyID:  "co-1",
		Type:       leave.TypeSick,
		StartDate:  day(2024, 6, 4),
		EndDate:    day(2024, 6, 5),
		Status:     leave.StatusApproved,
	})
	require.NoError(t, err)

	issues, err := det.CollectIssues(ctx, "emp-1", "co-1", day(2024, 6, 3), day(2024, 6, 6))

	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, day(2024, 6, 3), issues[0].Date)
}

func TestIssueDetector_RejectedLeaveDoesNotCover(t *testing.T) {
	ctx := context.Background()
	det, _, leaveRepo, _ := newDetectorFixture()

	_, err := leaveRepo.Create(ctx, leave.Leave{
		EmployeeID: "emp-1",
		CompanyID:  "co-1",
		Type:       leave.TypePaid,
		StartDate:  day(2024, 6, 4),
		EndDate:    day(2024, 6, 4),
		Status:     leave.StatusRejected,
	})
	require.NoError(t, err)

	issues, err := det.CollectIssues(ctx, "emp-1", "co-1", day(2024, 6, 4), day(2024, 6, 5))

	require.NoError(t, err)
	require.Len(t, issues, 1)
}

func TestIssueDetector_SkipsPenalizedDays(t *testing.T) {
	ctx := context.Background()
	det, _, _, penaltyRepo := newDetectorFixture()

	_, err := penaltyRepo.Create(ctx, leave.AttendancePenalty{
		EmployeeID:  "emp-1",
		CompanyID:   "co-1",
		Date:        day(2024, 6, 4),
		Allocations: leave.Allocations{Paid: 1},
	})
	require.NoError(t, err)

	issues, err := det.CollectIssues(ctx, "emp-1", "co-1", day(2024, 6, 4), day(2024, 6, 6))

	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, day(2024, 6, 5), issues[0].Date)
}

func TestIssueDetector_IdempotentAcrossOverlappingWindows(t *testing.T) {
	ctx := context.Background()
	det, _, leaveRepo, penaltyRepo := newDetectorFixture()

	first, err := det.CollectIssues(ctx, "emp-1", "co-1", day(2024, 6, 3), day(2024, 6, 6))
	require.NoError(t, err)
	require.Len(t, first, 3)

	// Simulate the auto-leave generator covering every issue.
	for _, issue := range first {
		_, err := leaveRepo.Create(ctx, leave.Leave{
			EmployeeID: issue.EmployeeID,
			CompanyID:  issue.CompanyID,
			Type:       leave.TypePaid,
			StartDate:  issue.Date,
			EndDate:    issue.Date,
			Status:     leave.StatusApproved,
			IsAuto:     true,
		})
		require.NoError(t, err)
		_, err = penaltyRepo.Create(ctx, leave.AttendancePenalty{
			EmployeeID:  issue.EmployeeID,
			CompanyID:   issue.CompanyID,
			Date:        issue.Date,
			Allocations: leave.Allocations{Paid: 1},
		})
		require.NoError(t, err)
	}

	// A wider, overlapping rescan must not re-flag covered days.
	second, err := det.CollectIssues(ctx, "emp-1", "co-1", day(2024, 6, 2), day(2024, 6, 7))
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, day(2024, 6, 2), second[0].Date)
	assert.Equal(t, day(2024, 6, 6), second[1].Date)
}

func TestIssueDetector_InvalidWindow(t *testing.T) {
	ctx := context.Background()
	det, _, _, _ := newDetectorFixture()

	_, err := det.CollectIssues(ctx, "emp-1", "co-1", day(2024, 6, 6), day(2024, 6, 3))
	assert.ErrorIs(t, err, domain.ErrInvalidIssueWindow)

	_, err = det.CollectIssues(ctx, "emp-1", "co-1", day(2024, 6, 3), day(2024, 6, 3))
	assert.ErrorIs(t, err, domain.ErrInvalidIssueWindow)
}
