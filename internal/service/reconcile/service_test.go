package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/company"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/employee"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/leave"
	"github.com/workpoint-hq/hr-backend-go/internal/pkg/lock"
	"github.com/workpoint-hq/hr-backend-go/internal/repository/memory"
	"github.com/workpoint-hq/hr-backend-go/internal/service/balance"
	notificationsvc "github.com/workpoint-hq/hr-backend-go/internal/service/notification"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	svc          *Service
	employeeRepo *memory.EmployeeRepository
	leaveRepo    *memory.LeaveRepository
	penaltyRepo  *memory.PenaltyRepository
}

func newFixture(emps ...employee.Employee) fixture {
	employeeRepo := memory.NewEmployeeRepository()
	companyRepo := memory.NewCompanyRepository()
	leaveRepo := memory.NewLeaveRepository()
	penaltyRepo := memory.NewPenaltyRepository()
	for _, e := range emps {
		employeeRepo.Put(e)
	}
	companyRepo.Put(company.Company{
		ID: "co-1",
		LeavePolicy: company.LeavePolicy{
			TotalAnnual:  20,
			RatePerMonth: 1.75,
			TypeCaps:     leave.TypeCaps{Paid: 10, Casual: 5, Sick: 5},
		},
	})
	tx := memory.NewTransactor(employeeRepo, leaveRepo, penaltyRepo)
	svc := NewService(
		tx, employeeRepo, companyRepo, leaveRepo, penaltyRepo,
		balance.NewCalculator(), lock.NewKeyedMutex(), notificationsvc.NewLogService(),
	)
	return fixture{svc: svc, employeeRepo: employeeRepo, leaveRepo: leaveRepo, penaltyRepo: penaltyRepo}
}

func testEmployee(id string, joining *time.Time, pool float64, usage leave.Allocations) employee.Employee {
	return employee.Employee{
		ID:                  id,
		CompanyID:           "co-1",
		JoiningDate:         joining,
		EmploymentStatus:    employee.EmploymentStatusActive,
		TotalLeaveAvailable: pool,
		LeaveUsage:          usage,
	}
}

// seedAutoDay plants one linked auto leave + penalty pair on a date.
func seedAutoDay(t *testing.T, f fixture, employeeID string, d time.Time, alloc leave.Allocations) {
	t.Helper()
	ctx := context.Background()
	p, err := f.penaltyRepo.Create(ctx, leave.AttendancePenalty{
		EmployeeID:  employeeID,
		CompanyID:   "co-1",
		Date:        d,
		Allocations: alloc,
	})
	require.NoError(t, err)
	_, err = f.leaveRepo.Create(ctx, leave.Leave{
		EmployeeID:    employeeID,
		CompanyID:     "co-1",
		Type:          leave.TypePaid,
		StartDate:     d,
		EndDate:       d,
		Status:        leave.StatusApproved,
		IsAuto:        true,
		AutoPenaltyID: &p.ID,
		Allocations:   alloc,
	})
	require.NoError(t, err)
}

func TestReconcile_RefundsPreEmploymentPenalties(t *testing.T) {
	ctx := context.Background()
	joined := day(2024, 6, 10)
	// Auto leaves already consumed 2 paid days before the corrected start.
	f := newFixture(testEmployee("emp-1", &joined, 18, leave.Allocations{Paid: 2}))
	seedAutoDay(t, f, "emp-1", day(2024, 6, 3), leave.Allocations{Paid: 1})
	seedAutoDay(t, f, "emp-1", day(2024, 6, 4), leave.Allocations{Paid: 1})

	res, err := f.svc.Reconcile(ctx, "emp-1")

	require.NoError(t, err)
	assert.Equal(t, int64(2), res.LeavesRemoved)
	assert.Equal(t, 2, res.PenaltiesRefunded)
	assert.Equal(t, leave.Allocations{Paid: 2}, res.Refunded)

	emp, err := f.employeeRepo.GetByID(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 20.0, emp.TotalLeaveAvailable)
	assert.True(t, emp.LeaveUsage.IsZero())
	assert.Equal(t, 10.0, emp.LeaveBalances.Paid)

	leaves, err := f.leaveRepo.ListByEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Empty(t, leaves)
}

func TestReconcile_KeepsInWindowRecords(t *testing.T) {
	ctx := context.Background()
	joined := day(2024, 6, 4)
	f := newFixture(testEmployee("emp-1", &joined, 18, leave.Allocations{Paid: 2}))
	seedAutoDay(t, f, "emp-1", day(2024, 6, 3), leave.Allocations{Paid: 1}) // before start
	seedAutoDay(t, f, "emp-1", day(2024, 6, 5), leave.Allocations{Paid: 1}) // after start, stays

	res, err := f.svc.Reconcile(ctx, "emp-1")

	require.NoError(t, err)
	assert.Equal(t, int64(1), res.LeavesRemoved)
	assert.Equal(t, 1, res.PenaltiesRefunded)

	emp, err := f.employeeRepo.GetByID(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 19.0, emp.TotalLeaveAvailable)
	assert.Equal(t, leave.Allocations{Paid: 1}, emp.LeaveUsage)

	leaves, err := f.leaveRepo.ListByEmployee(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, leaves, 1)
	assert.Equal(t, day(2024, 6, 5), leaves[0].StartDate)
}

func TestReconcile_KeepsManualLeavesBeforeJoining(t *testing.T) {
	ctx := context.Background()
	joined := day(2024, 6, 10)
	// A manually approved leave predating the corrected joining date is not
	// the reconciler's to touch, only auto-generated records are reversed.
	f := newFixture(testEmployee("emp-1", &joined, 17, leave.Allocations{Paid: 3}))
	_, err := f.leaveRepo.Create(ctx, leave.Leave{
		EmployeeID:  "emp-1",
		CompanyID:   "co-1",
		Type:        leave.TypePaid,
		StartDate:   day(2024, 6, 3),
		EndDate:     day(2024, 6, 5),
		Status:      leave.StatusApproved,
		Allocations: leave.Allocations{Paid: 3},
	})
	require.NoError(t, err)

	res, err := f.svc.Reconcile(ctx, "emp-1")

	require.NoError(t, err)
	assert.Equal(t, int64(0), res.LeavesRemoved)
	assert.Equal(t, 0, res.PenaltiesRefunded)

	leaves, err := f.leaveRepo.ListByEmployee(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, leaves, 1)
	assert.Equal(t, leave.StatusApproved, leaves[0].Status)

	emp, err := f.employeeRepo.GetByID(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 17.0, emp.TotalLeaveAvailable)
	assert.Equal(t, leave.Allocations{Paid: 3}, emp.LeaveUsage)
}

// flakyEmployeeRepo fails a set number of UpdateBalances calls before
// delegating to the real repository.
type flakyEmployeeRepo struct {
	*memory.EmployeeRepository
	failures int
}

func (r *flakyEmployeeRepo) UpdateBalances(ctx context.Context, e employee.Employee) error {
	if r.failures > 0 {
		r.failures--
		return errors.New("store unavailable")
	}
	return r.EmployeeRepository.UpdateBalances(ctx, e)
}

func TestReconcile_RetriesRefundAfterStoreFailure(t *testing.T) {
	ctx := context.Background()
	employeeRepo := memory.NewEmployeeRepository()
	companyRepo := memory.NewCompanyRepository()
	leaveRepo := memory.NewLeaveRepository()
	penaltyRepo := memory.NewPenaltyRepository()
	joined := day(2024, 6, 10)
	employeeRepo.Put(testEmployee("emp-1", &joined, 19, leave.Allocations{Paid: 1}))
	companyRepo.Put(company.Company{
		ID: "co-1",
		LeavePolicy: company.LeavePolicy{
			TotalAnnual:  20,
			RatePerMonth: 1.75,
			TypeCaps:     leave.TypeCaps{Paid: 10, Casual: 5, Sick: 5},
		},
	})
	flaky := &flakyEmployeeRepo{EmployeeRepository: employeeRepo, failures: 1}
	tx := memory.NewTransactor(employeeRepo, leaveRepo, penaltyRepo)
	svc := NewService(
		tx, flaky, companyRepo, leaveRepo, penaltyRepo,
		balance.NewCalculator(), lock.NewKeyedMutex(), notificationsvc.NewLogService(),
	)
	f := fixture{svc: svc, employeeRepo: employeeRepo, leaveRepo: leaveRepo, penaltyRepo: penaltyRepo}
	seedAutoDay(t, f, "emp-1", day(2024, 6, 3), leave.Allocations{Paid: 1})

	_, err := svc.Reconcile(ctx, "emp-1")
	require.Error(t, err)

	// The failed run rolled back: penalty still unresolved, balances untouched.
	emp, err := employeeRepo.GetByID(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 19.0, emp.TotalLeaveAvailable)
	assert.Equal(t, leave.Allocations{Paid: 1}, emp.LeaveUsage)

	res, err := svc.Reconcile(ctx, "emp-1")

	require.NoError(t, err)
	assert.Equal(t, int64(1), res.LeavesRemoved)
	assert.Equal(t, 1, res.PenaltiesRefunded)

	emp, err = employeeRepo.GetByID(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 20.0, emp.TotalLeaveAvailable)
	assert.True(t, emp.LeaveUsage.IsZero())
}

func TestReconcile_SecondRunIsNoOp(t *testing.T) {
	ctx := context.Background()
	joined := day(2024, 6, 10)
	f := newFixture(testEmployee("emp-1", &joined, 19, leave.Allocations{Paid: 1}))
	seedAutoDay(t, f, "emp-1", day(2024, 6, 3), leave.Allocations{Paid: 1})

	_, err := f.svc.Reconcile(ctx, "emp-1")
	require.NoError(t, err)

	res, err := f.svc.Reconcile(ctx, "emp-1")

	require.NoError(t, err)
	assert.Equal(t, int64(0), res.LeavesRemoved)
	assert.Equal(t, 0, res.PenaltiesRefunded)

	emp, err := f.employeeRepo.GetByID(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 20.0, emp.TotalLeaveAvailable)
}

func TestReconcile_ClampsWhenUsageAlreadyLower(t *testing.T) {
	ctx := context.Background()
	joined := day(2024, 6, 10)
	// Usage was already zeroed by some earlier correction; refund must not
	// drive it negative, and the pool must never exceed what the refund adds.
	f := newFixture(testEmployee("emp-1", &joined, 20, leave.Allocations{}))
	seedAutoDay(t, f, "emp-1", day(2024, 6, 3), leave.Allocations{Paid: 1})

	res, err := f.svc.Reconcile(ctx, "emp-1")

	require.NoError(t, err)
	assert.Equal(t, 1, res.PenaltiesRefunded)

	emp, err := f.employeeRepo.GetByID(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, emp.LeaveUsage.IsZero())
	assert.GreaterOrEqual(t, emp.LeaveUsage.Paid, 0.0)
}

func TestReconcile_NoJoiningDate(t *testing.T) {
	f := newFixture(testEmployee("emp-1", nil, 20, leave.Allocations{}))

	_, err := f.svc.Reconcile(context.Background(), "emp-1")
	assert.ErrorIs(t, err, employee.ErrNoJoiningDate)
}

func TestReconcile_UnknownEmployee(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Reconcile(context.Background(), "ghost")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestReconcileAll_ProcessesEveryEmployee(t *testing.T) {
	ctx := context.Background()
	joinedA := day(2024, 6, 10)
	joinedB := day(2024, 6, 10)
	f := newFixture(
		testEmployee("emp-a", &joinedA, 19, leave.Allocations{Paid: 1}),
		testEmployee("emp-b", &joinedB, 20, leave.Allocations{}),
	)
	seedAutoDay(t, f, "emp-a", day(2024, 6, 3), leave.Allocations{Paid: 1})

	results, err := f.svc.ReconcileAll(ctx)

	require.NoError(t, err)
	require.Len(t, results, 2)

	empA, err := f.employeeRepo.GetByID(ctx, "emp-a")
	require.NoError(t, err)
	assert.Equal(t, 20.0, empA.TotalLeaveAvailable)
}
