package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domain "github.com/workpoint-hq/hr-backend-go/internal/domain/attendance"
	"github.com/workpoint-hq/hr-backend-go/internal/repository/memory"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestService_PunchIn_CreatesDayRecord(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAttendanceRepository()
	svc := NewService(repo)
	at := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	svc.now = fixedClock(at)

	rec, err := svc.PunchIn(ctx, "emp-1", "co-1")

	require.NoError(t, err)
	assert.True(t, rec.IsOpen())
	require.NotNil(t, rec.FirstPunchIn)
	assert.Equal(t, at, *rec.FirstPunchIn)
	assert.Equal(t, domain.DayOf(at), rec.Date)
	assert.Equal(t, int64(0), rec.WorkedMs)
}

func TestService_PunchIn_RejectedWhileOpen(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAttendanceRepository()
	svc := NewService(repo)
	svc.now = fixedClock(time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC))

	_, err := svc.PunchIn(ctx, "emp-1", "co-1")
	require.NoError(t, err)

	_, err = svc.PunchIn(ctx, "emp-1", "co-1")
	assert.ErrorIs(t, err, domain.ErrSessionAlreadyOpen)
}

func TestService_PunchOut_AccumulatesWorkedTime(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAttendanceRepository()
	svc := NewService(repo)

	in := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	svc.now = fixedClock(in)
	_, err := svc.PunchIn(ctx, "emp-1", "co-1")
	require.NoError(t, err)

	out := in.Add(4 * time.Hour)
	svc.now = fixedClock(out)
	rec, err := svc.PunchOut(ctx, "emp-1")

	require.NoError(t, err)
	assert.False(t, rec.IsOpen())
	assert.Equal(t, (4 * time.Hour).Milliseconds(), rec.WorkedMs)
	require.NotNil(t, rec.LastPunchOut)
	assert.Equal(t, out, *rec.LastPunchOut)
}

func TestService_PunchOut_WithoutOpenSession(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAttendanceRepository()
	svc := NewService(repo)
	svc.now = fixedClock(time.Date(2024, 6, 3, 17, 0, 0, 0, time.UTC))

	_, err := svc.PunchOut(ctx, "emp-1")
	assert.ErrorIs(t, err, domain.ErrNoOpenSession)
}

func TestService_SecondSessionKeepsFirstPunchIn(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAttendanceRepository()
	svc := NewService(repo)

	morning := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	svc.now = fixedClock(morning)
	_, err := svc.PunchIn(ctx, "emp-1", "co-1")
	require.NoError(t, err)

	svc.now = fixedClock(morning.Add(3 * time.Hour))
	_, err = svc.PunchOut(ctx, "emp-1")
	require.NoError(t, err)

	afternoon := morning.Add(5 * time.Hour)
	svc.now = fixedClock(afternoon)
	rec, err := svc.PunchIn(ctx, "emp-1", "co-1")
	require.NoError(t, err)

	require.NotNil(t, rec.FirstPunchIn)
	assert.Equal(t, morning, *rec.FirstPunchIn, "firstPunchIn is set once and never overwritten")
	require.NotNil(t, rec.LastPunchIn)
	assert.Equal(t, afternoon, *rec.LastPunchIn)

	svc.now = fixedClock(afternoon.Add(2 * time.Hour))
	rec, err = svc.PunchOut(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, (5 * time.Hour).Milliseconds(), rec.WorkedMs)
}
