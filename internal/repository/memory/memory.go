// Package memory provides in-memory repository implementations, used by the
// service tests and for local development without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/attendance"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/company"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/employee"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/leave"
)

// EmployeeRepository is an in-memory employee.EmployeeRepository.
type EmployeeRepository struct {
	mu        sync.RWMutex
	employees map[string]employee.Employee
}

func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{employees: make(map[string]employee.Employee)}
}

// Put seeds or replaces an employee.
func (r *EmployeeRepository) Put(e employee.Employee) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.employees[e.ID] = e
}

func (r *EmployeeRepository) GetByID(_ context.Context, id string) (employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *EmployeeRepository) ListActive(_ context.Context) ([]employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []employee.Employee
	for _, e := range r.employees {
		if e.IsActive() {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *EmployeeRepository) ListForReconciliation(_ context.Context) ([]employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []employee.Employee
	for _, e := range r.employees {
		if e.CompanyID != "" && e.JoiningDate != nil {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *EmployeeRepository) UpdateBalances(_ context.Context, e employee.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.employees[e.ID]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	existing.TotalLeaveAvailable = e.TotalLeaveAvailable
	existing.LeaveUsage = e.LeaveUsage
	existing.LeaveBalances = e.LeaveBalances
	existing.LastAccruedMonth = e.LastAccruedMonth
	existing.UpdatedAt = time.Now().UTC()
	r.employees[e.ID] = existing
	return nil
}

func (r *EmployeeRepository) snapshot() map[string]employee.Employee {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]employee.Employee, len(r.employees))
	for k, v := range r.employees {
		out[k] = v
	}
	return out
}

func (r *EmployeeRepository) restore(snap map[string]employee.Employee) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.employees = snap
}

// CompanyRepository is an in-memory company.CompanyRepository.
type CompanyRepository struct {
	mu        sync.RWMutex
	companies map[string]company.Company
}

func NewCompanyRepository() *CompanyRepository {
	return &CompanyRepository{companies: make(map[string]company.Company)}
}

func (r *CompanyRepository) Put(c company.Company) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.companies[c.ID] = c
}

func (r *CompanyRepository) GetByID(_ context.Context, id string) (company.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.companies[id]
	if !ok {
		return company.Company{}, company.ErrCompanyNotFound
	}
	return c, nil
}

// AttendanceRepository is an in-memory attendance.AttendanceRepository.
type AttendanceRepository struct {
	mu      sync.RWMutex
	records map[string]attendance.Attendance
}

func NewAttendanceRepository() *AttendanceRepository {
	return &AttendanceRepository{records: make(map[string]attendance.Attendance)}
}

func (r *AttendanceRepository) Create(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	r.records[a.ID] = a
	return a, nil
}

func (r *AttendanceRepository) Update(_ context.Context, a attendance.Attendance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[a.ID]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	a.UpdatedAt = time.Now().UTC()
	r.records[a.ID] = a
	return nil
}

func (r *AttendanceRepository) GetByEmployeeAndDate(_ context.Context, employeeID string, day time.Time) (*attendance.Attendance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.records {
		if rec.EmployeeID == employeeID && rec.Date.Equal(day) {
			out := rec
			return &out, nil
		}
	}
	return nil, nil
}

func (r *AttendanceRepository) ListOpenBefore(_ context.Context, day time.Time) ([]attendance.Attendance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []attendance.Attendance
	for _, rec := range r.records {
		if rec.IsOpen() && rec.Date.Before(day) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *AttendanceRepository) ListByEmployeeAndRange(_ context.Context, employeeID string, start, endExclusive time.Time) ([]attendance.Attendance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []attendance.Attendance
	for _, rec := range r.records {
		if rec.EmployeeID == employeeID && !rec.Date.Before(start) && rec.Date.Before(endExclusive) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// LeaveRepository is an in-memory leave.LeaveRepository.
type LeaveRepository struct {
	mu     sync.RWMutex
	leaves map[string]leave.Leave
}

func NewLeaveRepository() *LeaveRepository {
	return &LeaveRepository{leaves: make(map[string]leave.Leave)}
}

func (r *LeaveRepository) Create(_ context.Context, l leave.Leave) (leave.Leave, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now
	r.leaves[l.ID] = l
	return l, nil
}

func (r *LeaveRepository) GetByID(_ context.Context, id string, companyID string) (leave.Leave, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.leaves[id]
	if !ok || l.CompanyID != companyID {
		return leave.Leave{}, leave.ErrLeaveNotFound
	}
	return l, nil
}

func (r *LeaveRepository) UpdateStatus(_ context.Context, l leave.Leave) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.leaves[l.ID]
	if !ok {
		return leave.ErrLeaveNotFound
	}
	existing.Status = l.Status
	existing.Allocations = l.Allocations
	existing.FallbackType = l.FallbackType
	existing.UpdatedAt = time.Now().UTC()
	r.leaves[l.ID] = existing
	return nil
}

func (r *LeaveRepository) ListByEmployee(_ context.Context, employeeID string) ([]leave.Leave, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []leave.Leave
	for _, l := range r.leaves {
		if l.EmployeeID == employeeID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, nil
}

func (r *LeaveRepository) HasLeaveCovering(_ context.Context, employeeID string, day time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, l := range r.leaves {
		if l.EmployeeID == employeeID && l.Status != leave.StatusRejected && l.CoversDay(day) {
			return true, nil
		}
	}
	return false, nil
}

func (r *LeaveRepository) DeleteAutoBefore(_ context.Context, employeeID string, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, l := range r.leaves {
		if l.EmployeeID != employeeID || !l.StartDate.Before(before) {
			continue
		}
		if !l.IsAuto && l.AutoPenaltyID == nil {
			continue
		}
		delete(r.leaves, id)
		n++
	}
	return n, nil
}

func (r *LeaveRepository) snapshot() map[string]leave.Leave {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]leave.Leave, len(r.leaves))
	for k, v := range r.leaves {
		out[k] = v
	}
	return out
}

func (r *LeaveRepository) restore(snap map[string]leave.Leave) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaves = snap
}

// PenaltyRepository is an in-memory leave.PenaltyRepository.
type PenaltyRepository struct {
	mu        sync.RWMutex
	penalties map[string]leave.AttendancePenalty
}

func NewPenaltyRepository() *PenaltyRepository {
	return &PenaltyRepository{penalties: make(map[string]leave.AttendancePenalty)}
}

func (r *PenaltyRepository) Put(p leave.AttendancePenalty) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.penalties[p.ID] = p
}

// Get returns a penalty by ID for test assertions.
func (r *PenaltyRepository) Get(id string) (leave.AttendancePenalty, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.penalties[id]
	return p, ok
}

func (r *PenaltyRepository) Create(_ context.Context, p leave.AttendancePenalty) (leave.AttendancePenalty, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	r.penalties[p.ID] = p
	return p, nil
}

func (r *PenaltyRepository) ExistsForDate(_ context.Context, employeeID string, day time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.penalties {
		if p.EmployeeID == employeeID && p.Date.Equal(day) {
			return true, nil
		}
	}
	return false, nil
}

func (r *PenaltyRepository) ListUnresolvedBefore(_ context.Context, employeeID string, before time.Time) ([]leave.AttendancePenalty, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []leave.AttendancePenalty
	for _, p := range r.penalties {
		if p.EmployeeID == employeeID && !p.IsResolved() && p.Date.Before(before) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *PenaltyRepository) snapshot() map[string]leave.AttendancePenalty {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]leave.AttendancePenalty, len(r.penalties))
	for k, v := range r.penalties {
		out[k] = v
	}
	return out
}

func (r *PenaltyRepository) restore(snap map[string]leave.AttendancePenalty) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.penalties = snap
}

func (r *PenaltyRepository) MarkResolved(_ context.Context, id string, resolvedAt time.Time, resolvedBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.penalties[id]
	if !ok {
		return leave.ErrPenaltyNotFound
	}
	if p.IsResolved() {
		return leave.ErrPenaltyAlreadySolved
	}
	p.ResolvedAt = &resolvedAt
	p.ResolvedBy = &resolvedBy
	p.UpdatedAt = time.Now().UTC()
	r.penalties[p.ID] = p
	return nil
}
