package leave

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
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testCompany() company.Company {
	return company.Company{
		ID:   "co-1",
		Name: "Acme",
		LeavePolicy: company.LeavePolicy{
			TotalAnnual:  20,
			RatePerMonth: 1.75,
			TypeCaps:     leave.TypeCaps{Paid: 10, Casual: 5, Sick: 5},
		},
	}
}

func testEmployee(pool float64, usage leave.Allocations) employee.Employee {
	joined := day(2024, 1, 1)
	return employee.Employee{
		ID:                  "emp-1",
		CompanyID:           "co-1",
		FullName:            "Jordan Lee",
		JoiningDate:         &joined,
		EmploymentStatus:    employee.EmploymentStatusActive,
		TotalLeaveAvailable: pool,
		LeaveUsage:          usage,
	}
}

type serviceFixture struct {
	svc          *Service
	employeeRepo *memory.EmployeeRepository
	companyRepo  *memory.CompanyRepository
	leaveRepo    *memory.LeaveRepository
}

func newServiceFixture(emp employee.Employee) serviceFixture {
	employeeRepo := memory.NewEmployeeRepository()
	companyRepo := memory.NewCompanyRepository()
	leaveRepo := memory.NewLeaveRepository()
	employeeRepo.Put(emp)
	companyRepo.Put(testCompany())
	tx := memory.NewTransactor(employeeRepo, leaveRepo, memory.NewPenaltyRepository())
	svc := NewService(tx, employeeRepo, companyRepo, leaveRepo, balance.NewCalculator(), lock.NewKeyedMutex())
	return serviceFixture{svc: svc, employeeRepo: employeeRepo, companyRepo: companyRepo, leaveRepo: leaveRepo}
}

func TestService_RequestCreatesPendingWithoutMovingBalances(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(testEmployee(20, leave.Allocations{}))

	l, err := f.svc.Request(ctx, leave.RequestLeaveRequest{
		EmployeeID: "emp-1",
		CompanyID:  "co-1",
		Type:       leave.TypePaid,
		StartDate:  "2024-06-10",
		EndDate:    "2024-06-12",
		Reason:     "family trip",
	})

	require.NoError(t, err)
	assert.Equal(t, leave.StatusPending, l.Status)
	assert.True(t, l.Allocations.IsZero())

	emp, err := f.employeeRepo.GetByID(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 20.0, emp.TotalLeaveAvailable)
}

func TestService_RequestRejectsInvalidPayload(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(testEmployee(20, leave.Allocations{}))

	_, err := f.svc.Request(ctx, leave.RequestLeaveRequest{
		EmployeeID: "emp-1",
		CompanyID:  "co-1",
		Type:       "HOLIDAY",
		StartDate:  "2024-06-12",
		EndDate:    "2024-06-10",
	})
	assert.Error(t, err)
}

func TestService_RequestRejectsWhenPoolTooSmall(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(testEmployee(2, leave.Allocations{}))

	_, err := f.svc.Request(ctx, leave.RequestLeaveRequest{
		EmployeeID: "emp-1",
		CompanyID:  "co-1",
		Type:       leave.TypePaid,
		StartDate:  "2024-06-10",
		EndDate:    "2024-06-12",
	})
	assert.ErrorIs(t, err, leave.ErrInsufficientPool)
}

func TestService_RequestUnpaidIgnoresPool(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(testEmployee(0, leave.Allocations{}))

	l, err := f.svc.Request(ctx, leave.RequestLeaveRequest{
		EmployeeID: "emp-1",
		CompanyID:  "co-1",
		Type:       leave.TypeUnpaid,
		StartDate:  "2024-06-10",
		EndDate:    "2024-06-14",
	})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPending, l.Status)
}

func TestService_ApproveDebitsThroughPlanner(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(testEmployee(20, leave.Allocations{}))

	l, err := f.svc.Request(ctx, leave.RequestLeaveRequest{
		EmployeeID: "emp-1",
		CompanyID:  "co-1",
		Type:       leave.TypePaid,
		StartDate:  "2024-06-10",
		EndDate:    "2024-06-12",
	})
	require.NoError(t, err)

	approved, err := f.svc.Approve(ctx, l.ID, "co-1")

	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, approved.Status)
	assert.Equal(t, leave.Allocations{Paid: 3}, approved.Allocations)
	assert.Nil(t, approved.FallbackType)

	emp, err := f.employeeRepo.GetByID(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 17.0, emp.TotalLeaveAvailable)
	assert.Equal(t, leave.Allocations{Paid: 3}, emp.LeaveUsage)
	assert.Equal(t, 7.0, emp.LeaveBalances.Paid)
}

func TestService_ApproveFallsBackWhenPrimaryExhausted(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(testEmployee(10, leave.Allocations{Paid: 10}))

	l, err := f.svc.Request(ctx, leave.RequestLeaveRequest{
		EmployeeID: "emp-1",
		CompanyID:  "co-1",
		Type:       leave.TypePaid,
		StartDate:  "2024-06-10",
		EndDate:    "2024-06-10",
	})
	require.NoError(t, err)

	approved, err := f.svc.Approve(ctx, l.ID, "co-1")

	require.NoError(t, err)
	require.NotNil(t, approved.FallbackType)
	assert.Equal(t, leave.TypeCasual, *approved.FallbackType)
	assert.Equal(t, leave.Allocations{Casual: 1}, approved.Allocations)
}

func TestService_ApproveTwiceFails(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(testEmployee(20, leave.Allocations{}))

	l, err := f.svc.Request(ctx, leave.RequestLeaveRequest{
		EmployeeID: "emp-1",
		CompanyID:  "co-1",
		Type:       leave.TypeSick,
		StartDate:  "2024-06-10",
		EndDate:    "2024-06-10",
	})
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, l.ID, "co-1")
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, l.ID, "co-1")
	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyDecided)
	_, err = f.svc.Reject(ctx, l.ID, "co-1")
	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyDecided)
}

// flakyLeaveRepo fails a set number of UpdateStatus calls before delegating
// to the real repository.
type flakyLeaveRepo struct {
	*memory.LeaveRepository
	failures int
}

func (r *flakyLeaveRepo) UpdateStatus(ctx context.Context, l leave.Leave) error {
	if r.failures > 0 {
		r.failures--
		return errors.New("store unavailable")
	}
	return r.LeaveRepository.UpdateStatus(ctx, l)
}

func TestService_ApproveRollsBackDebitWhenStatusWriteFails(t *testing.T) {
	ctx := context.Background()
	employeeRepo := memory.NewEmployeeRepository()
	companyRepo := memory.NewCompanyRepository()
	leaveRepo := memory.NewLeaveRepository()
	employeeRepo.Put(testEmployee(20, leave.Allocations{}))
	companyRepo.Put(testCompany())

	flaky := &flakyLeaveRepo{LeaveRepository: leaveRepo, failures: 1}
	tx := memory.NewTransactor(employeeRepo, leaveRepo, memory.NewPenaltyRepository())
	svc := NewService(tx, employeeRepo, companyRepo, flaky, balance.NewCalculator(), lock.NewKeyedMutex())

	l, err := svc.Request(ctx, leave.RequestLeaveRequest{
		EmployeeID: "emp-1",
		CompanyID:  "co-1",
		Type:       leave.TypePaid,
		StartDate:  "2024-06-10",
		EndDate:    "2024-06-12",
	})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, l.ID, "co-1")
	require.Error(t, err)

	// The failed approval rolled back in full: the leave stays pending and the
	// balances never moved.
	stored, err := leaveRepo.GetByID(ctx, l.ID, "co-1")
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPending, stored.Status)
	emp, err := employeeRepo.GetByID(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 20.0, emp.TotalLeaveAvailable)
	assert.True(t, emp.LeaveUsage.IsZero())

	approved, err := svc.Approve(ctx, l.ID, "co-1")

	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, approved.Status)
	emp, err = employeeRepo.GetByID(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 17.0, emp.TotalLeaveAvailable)
	assert.Equal(t, leave.Allocations{Paid: 3}, emp.LeaveUsage)
}

func TestService_RejectLeavesBalancesAlone(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(testEmployee(20, leave.Allocations{}))

	l, err := f.svc.Request(ctx, leave.RequestLeaveRequest{
		EmployeeID: "emp-1",
		CompanyID:  "co-1",
		Type:       leave.TypePaid,
		StartDate:  "2024-06-10",
		EndDate:    "2024-06-12",
	})
	require.NoError(t, err)

	rejected, err := f.svc.Reject(ctx, l.ID, "co-1")

	require.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, rejected.Status)

	emp, err := f.employeeRepo.GetByID(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 20.0, emp.TotalLeaveAvailable)
	assert.True(t, emp.LeaveUsage.IsZero())
}

func TestService_GetByIDScopedToCompany(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(testEmployee(20, leave.Allocations{}))

	l, err := f.svc.Request(ctx, leave.RequestLeaveRequest{
		EmployeeID: "emp-1",
		CompanyID:  "co-1",
		Type:       leave.TypePaid,
		StartDate:  "2024-06-10",
		EndDate:    "2024-06-10",
	})
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, l.ID, "co-other")
	assert.ErrorIs(t, err, leave.ErrLeaveNotFound)
}
